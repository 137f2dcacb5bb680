package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/router"
	"github.com/dmitrijs2005/notekeeper/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeAuthClient struct {
	RegisterErr   error
	LoginRet      *models.Token
	LoginErr      error
	ProfileRet    *models.UserProfile
	ProfileErr    error
	UpdateErr     error
	ChangeErr     error
	UploadRet     *models.AvatarUpload
	UploadErr     error
	Calls         []string
	LastRegister  models.RegisterRequest
	LastLogin     models.LoginRequest
	LastUpdate    models.ProfileUpdate
	LastChange    models.PasswordChange
	LastFileName  string
	LastFileBytes string
}

func (f *fakeAuthClient) Register(_ context.Context, req models.RegisterRequest) (*models.UserProfile, error) {
	f.Calls = append(f.Calls, "register")
	f.LastRegister = req
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	return &models.UserProfile{Username: req.Username}, nil
}

func (f *fakeAuthClient) Login(_ context.Context, req models.LoginRequest) (*models.Token, error) {
	f.Calls = append(f.Calls, "login")
	f.LastLogin = req
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	if f.LoginRet != nil {
		return f.LoginRet, nil
	}
	return &models.Token{AccessToken: "tok"}, nil
}

func (f *fakeAuthClient) Profile(context.Context) (*models.UserProfile, error) {
	f.Calls = append(f.Calls, "profile")
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeAuthClient) UpdateProfile(_ context.Context, req models.ProfileUpdate) (*models.UserProfile, error) {
	f.Calls = append(f.Calls, "update")
	f.LastUpdate = req
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	return &models.UserProfile{Username: req.Username, Email: req.Email}, nil
}

func (f *fakeAuthClient) ChangePassword(_ context.Context, req models.PasswordChange) (*models.Message, error) {
	f.Calls = append(f.Calls, "change")
	f.LastChange = req
	if f.ChangeErr != nil {
		return nil, f.ChangeErr
	}
	return &models.Message{Message: "ok"}, nil
}

func (f *fakeAuthClient) UploadAvatar(_ context.Context, fileName string, r io.Reader) (*models.AvatarUpload, error) {
	f.Calls = append(f.Calls, "upload")
	f.LastFileName = fileName
	b, _ := io.ReadAll(r)
	f.LastFileBytes = string(b)
	return f.UploadRet, f.UploadErr
}

type fakeSession struct {
	SignInErr error
	Token     string
	Username  string
	Values    map[session.Key]string
	SignOuts  int
}

func (f *fakeSession) SignIn(_ context.Context, token, username string) error {
	if f.SignInErr != nil {
		return f.SignInErr
	}
	f.Token, f.Username = token, username
	return nil
}

func (f *fakeSession) SignOut(context.Context) error {
	f.SignOuts++
	f.Token, f.Username = "", ""
	delete(f.Values, session.KeyAvatar)
	return nil
}

func (f *fakeSession) Set(_ context.Context, key session.Key, value string) error {
	if f.Values == nil {
		f.Values = map[session.Key]string{}
	}
	f.Values[key] = value
	return nil
}

type fakeNav struct {
	Redirects []string
}

func (f *fakeNav) Redirect(_ context.Context, path string) {
	f.Redirects = append(f.Redirects, path)
}

func newAuth() (AuthService, *fakeAuthClient, *fakeSession, *fakeNav) {
	c, s, n := &fakeAuthClient{}, &fakeSession{}, &fakeNav{}
	return NewAuthService(c, s, n), c, s, n
}

// ---- tests ----

func TestLogin_StoresSession(t *testing.T) {
	svc, c, s, _ := newAuth()
	c.LoginRet = &models.Token{AccessToken: "abc123"}

	require.NoError(t, svc.Login(context.Background(), "alice", "secret1"))

	assert.Equal(t, models.LoginRequest{Username: "alice", Password: "secret1"}, c.LastLogin)
	assert.Equal(t, "abc123", s.Token)
	assert.Equal(t, "alice", s.Username)
}

func TestLogin_Failure(t *testing.T) {
	svc, c, s, n := newAuth()
	c.LoginErr = errors.New("bad credentials")

	err := svc.Login(context.Background(), "alice", "nope")

	require.ErrorIs(t, err, c.LoginErr)
	assert.Empty(t, s.Token)
	assert.Empty(t, n.Redirects)
}

func TestLogin_ValidatesLocally(t *testing.T) {
	svc, c, _, _ := newAuth()

	require.ErrorIs(t, svc.Login(context.Background(), "  ", "x"), ErrInvalidInput)
	require.ErrorIs(t, svc.Login(context.Background(), "alice", ""), ErrInvalidInput)
	assert.Empty(t, c.Calls)
}

func TestRegister_ThenLogin(t *testing.T) {
	svc, c, s, _ := newAuth()

	require.NoError(t, svc.Register(context.Background(), "alice", "alice@example.com", "secret1", "secret1"))

	assert.Equal(t, []string{"register", "login"}, c.Calls)
	assert.Equal(t, "alice@example.com", c.LastRegister.Email)
	assert.Equal(t, "alice", s.Username)
}

func TestRegister_FailureSkipsLogin(t *testing.T) {
	svc, c, s, _ := newAuth()
	c.RegisterErr = errors.New("username taken")

	err := svc.Register(context.Background(), "alice", "alice@example.com", "secret1", "secret1")

	require.ErrorIs(t, err, c.RegisterErr)
	assert.Equal(t, []string{"register"}, c.Calls)
	assert.Empty(t, s.Token)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name                               string
		username, email, password, confirm string
		want                               string
	}{
		{"short username", "al", "a@b.io", "secret1", "secret1", "username must be at least 3"},
		{"long username", strings.Repeat("a", 21), "a@b.io", "secret1", "secret1", "username must be at most 20"},
		{"bad email", "alice", "alice", "secret1", "secret1", "not a valid email"},
		{"short password", "alice", "a@b.io", "12345", "12345", "password must be at least 6"},
		{"mismatch", "alice", "a@b.io", "secret1", "secret2", "passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, c, _, _ := newAuth()
			err := svc.Register(context.Background(), tt.username, tt.email, tt.password, tt.confirm)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, c.Calls)
		})
	}
}

func TestLogout(t *testing.T) {
	svc, c, s, n := newAuth()
	s.Token = "tok"

	require.NoError(t, svc.Logout(context.Background()))

	assert.Equal(t, 1, s.SignOuts)
	assert.Equal(t, []string{router.PathLogin}, n.Redirects)
	assert.Empty(t, c.Calls)
}

func TestLoadProfile_StoresAvatar(t *testing.T) {
	svc, c, s, _ := newAuth()
	c.ProfileRet = &models.UserProfile{Username: "alice", AvatarURL: "/uploads/avatars/a.png"}

	p, err := svc.LoadProfile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "/uploads/avatars/a.png", s.Values[session.KeyAvatar])
}

func TestLoadProfile_NoAvatarLeavesStore(t *testing.T) {
	svc, c, s, _ := newAuth()
	c.ProfileRet = &models.UserProfile{Username: "alice"}

	_, err := svc.LoadProfile(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, s.Values, session.KeyAvatar)
}

func TestUpdateProfile_StoresUsername(t *testing.T) {
	svc, c, s, _ := newAuth()

	_, err := svc.UpdateProfile(context.Background(), "alicia", "")
	require.NoError(t, err)

	assert.Equal(t, models.ProfileUpdate{Username: "alicia"}, c.LastUpdate)
	assert.Equal(t, "alicia", s.Values[session.KeyUsername])
}

func TestUpdateProfile_FailureKeepsUsername(t *testing.T) {
	svc, c, s, _ := newAuth()
	c.UpdateErr = errors.New("taken")

	_, err := svc.UpdateProfile(context.Background(), "alicia", "a@b.io")
	require.Error(t, err)
	assert.NotContains(t, s.Values, session.KeyUsername)
}

func TestChangePassword_SignsOut(t *testing.T) {
	svc, c, s, n := newAuth()
	s.Token = "tok"

	require.NoError(t, svc.ChangePassword(context.Background(), "secret1", "newpass", "newpass"))

	assert.Equal(t, models.PasswordChange{OldPassword: "secret1", NewPassword: "newpass"}, c.LastChange)
	assert.Equal(t, 1, s.SignOuts)
	assert.Equal(t, []string{router.PathLogin}, n.Redirects)
}

func TestChangePassword_FailureKeepsSession(t *testing.T) {
	svc, c, s, n := newAuth()
	s.Token = "tok"
	c.ChangeErr = errors.New("old password is incorrect")

	err := svc.ChangePassword(context.Background(), "wrong", "newpass", "newpass")

	require.ErrorIs(t, err, c.ChangeErr)
	assert.Zero(t, s.SignOuts)
	assert.Empty(t, n.Redirects)
}

func TestChangePassword_Validation(t *testing.T) {
	svc, c, _, _ := newAuth()

	require.ErrorIs(t, svc.ChangePassword(context.Background(), "", "newpass", "newpass"), ErrInvalidInput)
	require.ErrorIs(t, svc.ChangePassword(context.Background(), "old", strings.Repeat("x", 21), strings.Repeat("x", 21)), ErrInvalidInput)
	require.ErrorIs(t, svc.ChangePassword(context.Background(), "old", "newpass", "other1"), ErrInvalidInput)
	assert.Empty(t, c.Calls)
}

func TestUploadAvatar(t *testing.T) {
	svc, c, s, _ := newAuth()
	c.UploadRet = &models.AvatarUpload{AvatarURL: "/uploads/avatars/b.png"}

	url, err := svc.UploadAvatar(context.Background(), "b.png", strings.NewReader("img"))
	require.NoError(t, err)

	assert.Equal(t, "/uploads/avatars/b.png", url)
	assert.Equal(t, "b.png", c.LastFileName)
	assert.Equal(t, "img", c.LastFileBytes)
	assert.Equal(t, url, s.Values[session.KeyAvatar])
}

func TestUploadAvatar_EmptyURL(t *testing.T) {
	svc, c, s, _ := newAuth()
	c.UploadRet = &models.AvatarUpload{}

	_, err := svc.UploadAvatar(context.Background(), "b.png", strings.NewReader("img"))
	require.ErrorIs(t, err, errNoAvatarURL)
	assert.NotContains(t, s.Values, session.KeyAvatar)
}
