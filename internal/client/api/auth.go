package api

import (
	"context"
	"io"
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/go-resty/resty/v2"
)

const (
	pathLogin    = "/auth/login"
	pathRegister = "/auth/register"

	authPrefix = "/api/auth"
)

// AuthAPI covers registration, login and the current user's profile.
type AuthAPI struct {
	c *Client
}

func (a *AuthAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := a.c.Do(ctx, http.MethodPost, authPrefix+"/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) Login(ctx context.Context, req models.LoginRequest) (*models.Token, error) {
	var out models.Token
	if err := a.c.Do(ctx, http.MethodPost, authPrefix+"/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) Profile(ctx context.Context) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := a.c.Do(ctx, http.MethodGet, authPrefix+"/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) UpdateProfile(ctx context.Context, req models.ProfileUpdate) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := a.c.Do(ctx, http.MethodPut, authPrefix+"/profile", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) ChangePassword(ctx context.Context, req models.PasswordChange) (*models.Message, error) {
	var out models.Message
	if err := a.c.Do(ctx, http.MethodPost, authPrefix+"/change-password", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadAvatar sends the image as the multipart "file" field.
func (a *AuthAPI) UploadAvatar(ctx context.Context, fileName string, r io.Reader) (*models.AvatarUpload, error) {
	var out models.AvatarUpload
	withFile := func(req *resty.Request) { req.SetFileReader("file", fileName, r) }
	if err := a.c.Do(ctx, http.MethodPost, authPrefix+"/upload-avatar", nil, &out, withFile); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) Logout(ctx context.Context) (*models.Message, error) {
	var out models.Message
	if err := a.c.Do(ctx, http.MethodPost, authPrefix+"/logout", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
