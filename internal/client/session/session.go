// Package session owns the client's persisted state: the bearer token, the
// signed-in username, the avatar URL and the UI preferences. Every write is
// broadcast so that components holding a copy can refresh it.
package session

// Key names a persisted value.
type Key string

const (
	KeyToken        Key = "token"
	KeyUsername     Key = "username"
	KeyAvatar       Key = "avatar"
	KeyThemeMode    Key = "themeMode"
	KeyPrimaryColor Key = "primaryColor"
)

// Session is either LoggedOut or LoggedIn. Having a token is the only thing
// that makes a session authenticated; expiry is decided by the server.
type Session interface {
	Authenticated() bool
	session()
}

type LoggedOut struct{}

func (LoggedOut) Authenticated() bool { return false }
func (LoggedOut) session()            {}

type LoggedIn struct {
	Token    string
	Username string
}

func (LoggedIn) Authenticated() bool { return true }
func (LoggedIn) session()            {}

// Change describes one persisted write. External is set when the write was
// made by another process sharing the same store.
type Change struct {
	Key      Key
	Value    string
	Removed  bool
	External bool
}

// AvatarUpdated is broadcast whenever the stored avatar URL changes. An
// empty URL means the avatar was cleared.
type AvatarUpdated struct {
	URL      string
	External bool
}
