package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/notekeeper/internal/client/notify"
	"github.com/dmitrijs2005/notekeeper/internal/client/router"
	"github.com/spf13/cobra"
)

func (a *App) addSettings(root *cobra.Command) {
	profile := withRoute(&cobra.Command{
		Use:   "profile",
		Short: "Show your profile.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showProfile(cmd.Context())
		},
	}, router.PathProfile)

	settings := withRoute(&cobra.Command{
		Use:   "settings",
		Short: "Show or change account settings.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.showProfile(cmd.Context()); err != nil {
				return err
			}
			a.printTheme()
			return nil
		},
	}, router.PathSettings)

	var username, email string
	editProfile := withRoute(&cobra.Command{
		Use:   "profile",
		Short: "Change username or email.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.updateProfile(cmd.Context(), username, email)
		},
	}, router.PathSettings)
	editProfile.Flags().StringVar(&username, "username", "", "new username")
	editProfile.Flags().StringVar(&email, "email", "", "new email")

	password := withRoute(&cobra.Command{
		Use:   "password",
		Short: "Change your password. You will be signed out.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.changePassword(cmd.Context())
		},
	}, router.PathSettings)

	avatar := withRoute(&cobra.Command{
		Use:   "avatar <image>",
		Short: "Upload a new avatar image.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.uploadAvatar(cmd.Context(), args[0])
		},
	}, router.PathSettings)

	settings.AddCommand(editProfile, password, avatar)
	root.AddCommand(profile, settings)
}

func (a *App) showProfile(ctx context.Context) error {
	p, err := a.auth.LoadProfile(ctx)
	if err != nil {
		return err
	}
	avatar := p.AvatarURL
	if avatar == "" {
		avatar = "-"
	}
	printFields(a.out, a.styles(),
		"Username", p.Username,
		"Email", p.Email,
		"Avatar", avatar,
		"Member since", formatTime(p.CreatedAt),
	)
	return nil
}

// updateProfile prompts for the fields not given as flags. An empty answer
// keeps the current value.
func (a *App) updateProfile(ctx context.Context, username, email string) error {
	if username == "" && email == "" {
		var err error
		if username, err = a.ask("New username (empty to keep)"); err != nil {
			return err
		}
		if email, err = a.ask("New email (empty to keep)"); err != nil {
			return err
		}
	}
	if username == "" {
		username = a.header.Username()
	}

	p, err := a.auth.UpdateProfile(ctx, username, email)
	if err != nil {
		return err
	}
	notify.Success(ctx, a.notifier, fmt.Sprintf("Profile saved (%s, %s)", p.Username, p.Email))
	return nil
}

func (a *App) changePassword(ctx context.Context) error {
	old, err := a.secret("Current password")
	if err != nil {
		return err
	}
	next, err := a.secret("New password")
	if err != nil {
		return err
	}
	confirm, err := a.secret("Confirm new password")
	if err != nil {
		return err
	}

	if err := a.auth.ChangePassword(ctx, old, next, confirm); err != nil {
		return err
	}
	notify.Success(ctx, a.notifier, "Password changed, please log in again")
	return nil
}

func (a *App) uploadAvatar(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open avatar: %w", err)
	}
	defer f.Close()

	url, err := a.auth.UploadAvatar(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}
	notify.Success(ctx, a.notifier, "Avatar updated: "+url)
	return nil
}
