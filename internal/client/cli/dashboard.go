package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/notekeeper/internal/client/router"
	"github.com/spf13/cobra"
)

func (a *App) addDashboard(root *cobra.Command) {
	root.AddCommand(withRoute(&cobra.Command{
		Use:   "dashboard",
		Short: "Show totals and recent notes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showDashboard(cmd.Context())
		},
	}, router.PathDashboard))
}

func (a *App) showDashboard(ctx context.Context) error {
	d, err := a.dashboard.Summary(ctx)
	if err != nil {
		return err
	}

	st := a.styles()
	stat := func(label string, n int) string {
		return lipgloss.JoinVertical(lipgloss.Center, st.Title.Render(strconv.Itoa(n)), st.Muted.Render(label))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		stat("notes", d.TotalNotes), "    ",
		stat("categories", d.TotalCategories), "    ",
		stat("views", d.TotalViews), "    ",
		stat("favorites", d.TotalFavorites),
	)
	fmt.Fprintln(a.out, st.Box.Render(row))
	fmt.Fprintln(a.out, st.Title.Render("Recent notes"))
	printNotes(a.out, st, d.Recent)
	return nil
}
