package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/api"
	"github.com/dmitrijs2005/notekeeper/internal/client/notify"
	"github.com/dmitrijs2005/notekeeper/internal/client/router"
	"github.com/spf13/cobra"
)

const (
	msgBadCredentials    = "Invalid username or password"
	msgRegistrationFailed = "Registration failed, please check your details"
)

func (a *App) addAuth(root *cobra.Command) {
	var username string
	login := withRoute(&cobra.Command{
		Use:   "login",
		Short: "Sign in and open the dashboard.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.login(cmd.Context(), username)
		},
	}, router.PathLogin)
	login.Flags().StringVarP(&username, "username", "u", "", "account username")

	register := withRoute(&cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.register(cmd.Context())
		},
	}, router.PathRegister)

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Sign out.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			notify.Success(cmd.Context(), a.notifier, "Signed out")
			return nil
		},
	}

	root.AddCommand(login, register, logout)
}

// login is the login view. Rejected credentials are shown next to the form
// and leave the stored session untouched.
func (a *App) login(ctx context.Context, username string) error {
	var err error
	if username == "" {
		if username, err = a.ask("Username"); err != nil {
			return err
		}
	}
	password, err := a.secret("Password")
	if err != nil {
		return err
	}

	if err := a.auth.Login(ctx, username, password); err != nil {
		a.showCredentialError(err, msgBadCredentials)
		return err
	}

	a.openDashboard(ctx)
	notify.Success(ctx, a.notifier, "Signed in as "+username)
	return nil
}

func (a *App) register(ctx context.Context) error {
	username, err := a.ask("Username")
	if err != nil {
		return err
	}
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	password, err := a.secret("Password")
	if err != nil {
		return err
	}
	confirm, err := a.secret("Confirm password")
	if err != nil {
		return err
	}

	if err := a.auth.Register(ctx, username, email, password, confirm); err != nil {
		a.showCredentialError(err, msgRegistrationFailed)
		return err
	}

	a.openDashboard(ctx)
	notify.Success(ctx, a.notifier, "Account created, signed in as "+username)
	return nil
}

// showCredentialError prints a rejected login or register next to the form.
// The core does not notify for these, so this is the only message shown.
func (a *App) showCredentialError(err error, fallback string) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && errors.Is(err, api.ErrBadCredentials) {
		fmt.Fprintln(a.out, a.styles().Error.Render(apiErr.Message(fallback)))
	}
}

func (a *App) openDashboard(ctx context.Context) {
	if _, err := a.router.Navigate(ctx, router.PathDashboard); err != nil {
		a.log.Warn(ctx, "open dashboard", "error", err)
	}
}
