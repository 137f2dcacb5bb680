package models

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token is the login response. Only AccessToken is kept by the client.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type UserProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`

	// AvatarURL is what the client stores and displays.
	AvatarURL string `json:"avatar_url,omitempty"`

	ThemePreference string `json:"theme_preference,omitempty"`
	PrimaryColor    string `json:"primary_color,omitempty"`
	CreatedAt       Time   `json:"created_at"`
	UpdatedAt       Time   `json:"updated_at"`
}

// ProfileUpdate carries the editable profile fields; empty fields are left
// unchanged by the backend.
type ProfileUpdate struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

type PasswordChange struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type AvatarUpload struct {
	AvatarURL string `json:"avatar_url"`
	Message   string `json:"message,omitempty"`
}

type Message struct {
	Message string `json:"message"`
}
