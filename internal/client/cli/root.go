package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/buildinfo"
	"github.com/spf13/cobra"
)

// ErrLoginRequired is returned when a command's view needs a session and
// none is stored.
var ErrLoginRequired = errors.New("please log in first")

const routeAnnotation = "route"

func (a *App) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "notekeeper",
		Short:             "Personal knowledge base in the terminal.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.guard,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.inShell {
				return cmd.Help()
			}
			return a.Shell(cmd.Context())
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	a.addAuth(root)
	a.addSettings(root)
	a.addTheme(root)
	a.addDashboard(root)
	a.addNotes(root)
	a.addCategories(root)
	a.addTags(root)
	addVersion(root)
	return root
}

// withRoute ties cmd to a view path. ":id" is filled from the first
// argument.
func withRoute(cmd *cobra.Command, path string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[routeAnnotation] = path
	return cmd
}

func routePath(pattern string, args []string) string {
	if prefix, ok := strings.CutSuffix(pattern, ":id"); ok && len(args) > 0 {
		return prefix + args[0]
	}
	return pattern
}

// guard navigates to the command's view. If the router lands anywhere else
// the command does not run.
func (a *App) guard(cmd *cobra.Command, args []string) error {
	pattern, ok := cmd.Annotations[routeAnnotation]
	if !ok {
		return nil
	}
	path := routePath(pattern, args)

	landed, err := a.router.Navigate(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if landed != path {
		return fmt.Errorf("%w (%s)", ErrLoginRequired, path)
	}
	return nil
}

func addVersion(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	})
}
