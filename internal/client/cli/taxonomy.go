package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/notify"
	"github.com/dmitrijs2005/notekeeper/internal/client/router"
	"github.com/dmitrijs2005/notekeeper/internal/client/theme"
	"github.com/spf13/cobra"
)

func (a *App) addCategories(root *cobra.Command) {
	list := func(ctx context.Context) error {
		cats, err := a.client.Categories.List(ctx, 0, 0)
		if err != nil {
			return err
		}
		printCategories(a.out, a.styles(), cats)
		return nil
	}

	cmd := withRoute(&cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List and manage categories.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return list(cmd.Context())
		},
	}, router.PathCategories)

	var description string
	add := withRoute(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a category.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := models.CategoryInput{Name: args[0]}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			c, err := a.client.Categories.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			notify.Success(cmd.Context(), a.notifier, fmt.Sprintf("Created category %q (#%d)", c.Name, c.ID))
			return nil
		},
	}, router.PathCategories)
	add.Flags().StringVarP(&description, "description", "d", "", "category description")

	var newName, newDescription string
	edit := withRoute(&cobra.Command{
		Use:   "edit <id>",
		Short: "Rename or describe a category.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in := models.CategoryInput{Name: newName}
			if cmd.Flags().Changed("description") {
				in.Description = &newDescription
			}
			c, err := a.client.Categories.Update(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			notify.Success(cmd.Context(), a.notifier, fmt.Sprintf("Saved category %q", c.Name))
			return nil
		},
	}, router.PathCategories)
	edit.Flags().StringVar(&newName, "name", "", "new name")
	edit.Flags().StringVarP(&newDescription, "description", "d", "", "new description")

	var yes bool
	del := withRoute(&cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a category. Its notes are kept without a category.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ok, err := a.confirm(yes, fmt.Sprintf("Delete category #%d?", id))
			if err != nil || !ok {
				return err
			}
			if err := a.client.Categories.Delete(cmd.Context(), id); err != nil {
				return err
			}
			notify.Success(cmd.Context(), a.notifier, fmt.Sprintf("Deleted category #%d", id))
			return nil
		},
	}, router.PathCategories)
	del.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(add, edit, del)
	root.AddCommand(cmd)
}

// tagColor accepts an empty color, which leaves the choice to the backend.
func tagColor(color string) (string, error) {
	if color == "" {
		return "", nil
	}
	return theme.NormalizeColor(color)
}

func (a *App) addTags(root *cobra.Command) {
	cmd := withRoute(&cobra.Command{
		Use:   "tags",
		Short: "List and manage tags.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := a.client.Tags.List(cmd.Context(), 0, 0)
			if err != nil {
				return err
			}
			printTags(a.out, a.styles(), tags)
			return nil
		},
	}, router.PathTags)

	var color string
	add := withRoute(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := tagColor(color)
			if err != nil {
				return err
			}
			t, err := a.client.Tags.Create(cmd.Context(), models.TagInput{Name: args[0], Color: c})
			if err != nil {
				return err
			}
			notify.Success(cmd.Context(), a.notifier, fmt.Sprintf("Created tag %q (#%d)", t.Name, t.ID))
			return nil
		},
	}, router.PathTags)
	add.Flags().StringVar(&color, "color", "", "tag color, #rgb or #rrggbb")

	var newName, newColor string
	edit := withRoute(&cobra.Command{
		Use:   "edit <id>",
		Short: "Rename or recolor a tag.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := tagColor(newColor)
			if err != nil {
				return err
			}
			t, err := a.client.Tags.Update(cmd.Context(), id, models.TagInput{Name: newName, Color: c})
			if err != nil {
				return err
			}
			notify.Success(cmd.Context(), a.notifier, fmt.Sprintf("Saved tag %q", t.Name))
			return nil
		},
	}, router.PathTags)
	edit.Flags().StringVar(&newName, "name", "", "new name")
	edit.Flags().StringVar(&newColor, "color", "", "new color")

	var yes bool
	del := withRoute(&cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a tag and remove it from notes.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ok, err := a.confirm(yes, fmt.Sprintf("Delete tag #%d?", id))
			if err != nil || !ok {
				return err
			}
			if err := a.client.Tags.Delete(cmd.Context(), id); err != nil {
				return err
			}
			notify.Success(cmd.Context(), a.notifier, fmt.Sprintf("Deleted tag #%d", id))
			return nil
		},
	}, router.PathTags)
	del.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(add, edit, del)
	root.AddCommand(cmd)
}
