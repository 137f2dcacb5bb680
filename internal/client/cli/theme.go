package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/notekeeper/internal/client/theme"
	"github.com/spf13/cobra"
)

func (a *App) addTheme(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the appearance.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a.printTheme()
		},
	}

	for _, mode := range []theme.Mode{theme.ModeLight, theme.ModeDark, theme.ModeSystem} {
		cmd.AddCommand(&cobra.Command{
			Use:   string(mode),
			Short: fmt.Sprintf("Use the %s appearance.", mode),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.applyTheme(cmd.Context(), func(ctx context.Context) error {
					return a.theme.SetMode(ctx, mode)
				})
			},
		})
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "toggle",
			Short: "Switch between light and dark.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.applyTheme(cmd.Context(), a.theme.Toggle)
			},
		},
		&cobra.Command{
			Use:   "accent <#rrggbb>",
			Short: "Change the accent color.",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.applyTheme(cmd.Context(), func(ctx context.Context) error {
					return a.theme.ChangeAccentColor(ctx, args[0])
				})
			},
		},
	)

	root.AddCommand(cmd)
}

func (a *App) applyTheme(ctx context.Context, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	a.printTheme()
	return nil
}

func (a *App) printTheme() {
	state := a.theme.State()
	tokens := state.Tokens()
	printFields(a.out, state.Styles(),
		"Mode", string(state.Mode),
		"Dark", strconv.FormatBool(state.IsDark),
		"Accent", theme.Swatch(state.AccentColor)+" "+state.AccentColor,
		"Algorithm", string(tokens.Algorithm),
		"Border radius", strconv.Itoa(tokens.BorderRadius),
	)
}
