// Package services holds the view logic shared by the commands and the
// interactive shell: sign-in flows, profile settings, the dashboard summary
// and favorites. Services talk to the backend through the resource clients
// and keep the session store in step with what the backend returned.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/router"
	"github.com/dmitrijs2005/notekeeper/internal/client/session"
)

// AuthClient is the subset of the auth resource client used here.
type AuthClient interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.Token, error)
	Profile(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, req models.ProfileUpdate) (*models.UserProfile, error)
	ChangePassword(ctx context.Context, req models.PasswordChange) (*models.Message, error)
	UploadAvatar(ctx context.Context, fileName string, r io.Reader) (*models.AvatarUpload, error)
}

// SessionStore is the subset of session.Store used here.
type SessionStore interface {
	SignIn(ctx context.Context, token, username string) error
	SignOut(ctx context.Context) error
	Set(ctx context.Context, key session.Key, value string) error
}

type Navigator interface {
	Redirect(ctx context.Context, path string)
}

// AuthService defines the account operations of the client.
//
// Contract:
//   - Login: verify credentials and persist the session.
//   - Register: create the account, then log in with the same credentials.
//   - Logout: drop the local session and go to the login view. The backend
//     is not called; it keeps no session state.
//   - LoadProfile: fetch the profile and store its avatar URL.
//   - UpdateProfile: save username and email; the stored username follows.
//   - ChangePassword: on success the session ends as on Logout.
//   - UploadAvatar: upload an image and store the returned URL.
//
// Inputs are checked locally first; ErrInvalidInput is returned without
// contacting the backend.
type AuthService interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, email, password, confirm string) error
	Logout(ctx context.Context) error
	LoadProfile(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, username, email string) (*models.UserProfile, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword, confirm string) error
	UploadAvatar(ctx context.Context, fileName string, r io.Reader) (string, error)
}

type authService struct {
	client AuthClient
	store  SessionStore
	nav    Navigator
}

func NewAuthService(client AuthClient, store SessionStore, nav Navigator) AuthService {
	return &authService{client: client, store: store, nav: nav}
}

func (a *authService) Login(ctx context.Context, username, password string) error {
	if err := ValidateLogin(username, password); err != nil {
		return err
	}

	tok, err := a.client.Login(ctx, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := a.store.SignIn(ctx, tok.AccessToken, username); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (a *authService) Register(ctx context.Context, username, email, password, confirm string) error {
	if err := ValidateRegistration(username, email, password, confirm); err != nil {
		return err
	}

	req := models.RegisterRequest{Username: username, Email: email, Password: password}
	if _, err := a.client.Register(ctx, req); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return a.Login(ctx, username, password)
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.store.SignOut(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	a.nav.Redirect(ctx, router.PathLogin)
	return nil
}

func (a *authService) LoadProfile(ctx context.Context) (*models.UserProfile, error) {
	p, err := a.client.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if p.AvatarURL != "" {
		if err := a.store.Set(ctx, session.KeyAvatar, p.AvatarURL); err != nil {
			return p, fmt.Errorf("save avatar: %w", err)
		}
	}
	return p, nil
}

func (a *authService) UpdateProfile(ctx context.Context, username, email string) (*models.UserProfile, error) {
	if err := ValidateProfile(username, email); err != nil {
		return nil, err
	}

	p, err := a.client.UpdateProfile(ctx, models.ProfileUpdate{Username: username, Email: email})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if err := a.store.Set(ctx, session.KeyUsername, username); err != nil {
		return p, fmt.Errorf("save username: %w", err)
	}
	return p, nil
}

func (a *authService) ChangePassword(ctx context.Context, oldPassword, newPassword, confirm string) error {
	if err := ValidatePasswordChange(oldPassword, newPassword, confirm); err != nil {
		return err
	}

	req := models.PasswordChange{OldPassword: oldPassword, NewPassword: newPassword}
	if _, err := a.client.ChangePassword(ctx, req); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return a.Logout(ctx)
}

var errNoAvatarURL = errors.New("backend returned no avatar url")

func (a *authService) UploadAvatar(ctx context.Context, fileName string, r io.Reader) (string, error) {
	out, err := a.client.UploadAvatar(ctx, fileName, r)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	if out.AvatarURL == "" {
		return "", errNoAvatarURL
	}
	if err := a.store.Set(ctx, session.KeyAvatar, out.AvatarURL); err != nil {
		return "", fmt.Errorf("save avatar: %w", err)
	}
	return out.AvatarURL, nil
}
