package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/notify"
	"github.com/dmitrijs2005/notekeeper/internal/client/router"
	"github.com/dmitrijs2005/notekeeper/internal/client/services"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const defaultPageSize = 20

// noteFields are the editable note flags shared by new and edit.
type noteFields struct {
	title      string
	content    string
	categoryID int64
	tagIDs     []int64
	favorite   bool
}

func (f *noteFields) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "note title")
	fs.StringVar(&f.content, "content", "", "note content (HTML)")
	fs.Int64Var(&f.categoryID, "category", 0, "category id")
	fs.Int64SliceVar(&f.tagIDs, "tag", nil, "tag id, repeatable")
	fs.BoolVar(&f.favorite, "favorite", false, "mark as favorite")
}

func (a *App) addNotes(root *cobra.Command) {
	notes := withRoute(&cobra.Command{
		Use:     "notes",
		Aliases: []string{"n"},
		Short:   "List and manage notes.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listNotes(cmd.Context(), models.NoteFilter{Page: 1, PageSize: defaultPageSize})
		},
	}, router.PathNotes)

	notes.AddCommand(
		a.newListNotesCmd(),
		a.newSearchCmd(),
		a.newShowNoteCmd(),
		a.newCreateNoteCmd(),
		a.newEditNoteCmd(),
		a.newDeleteNoteCmd(),
		a.newFavoriteCmd(),
	)
	root.AddCommand(notes, a.newFavoritesCmd())
}

func (a *App) newListNotesCmd() *cobra.Command {
	var (
		page, size    int
		category, tag int64
		favorite      bool
		keyword       string
	)
	cmd := withRoute(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "l"},
		Short:   "List notes, newest first.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := models.NoteFilter{Page: page, PageSize: size, Keyword: keyword}
			flags := cmd.Flags()
			if flags.Changed("category") {
				f.CategoryID = &category
			}
			if flags.Changed("tag") {
				f.TagID = &tag
			}
			if flags.Changed("favorite") {
				f.IsFavorite = &favorite
			}
			return a.listNotes(cmd.Context(), f)
		},
	}, router.PathNotes)

	fs := cmd.Flags()
	fs.IntVar(&page, "page", 1, "page number")
	fs.IntVar(&size, "size", defaultPageSize, "notes per page")
	fs.Int64Var(&category, "category", 0, "only notes in this category id")
	fs.Int64Var(&tag, "tag", 0, "only notes with this tag id")
	fs.BoolVar(&favorite, "favorite", false, "only favorites (or non-favorites with --favorite=false)")
	fs.StringVarP(&keyword, "keyword", "k", "", "match title or content")
	return cmd
}

func (a *App) listNotes(ctx context.Context, f models.NoteFilter) error {
	p, err := a.client.Notes.List(ctx, f)
	if err != nil {
		return err
	}
	printNotes(a.out, a.styles(), p.Items)
	printPageFooter(a.out, a.styles(), p)
	return nil
}

func (a *App) newSearchCmd() *cobra.Command {
	return withRoute(&cobra.Command{
		Use:   "search <keyword>...",
		Short: "Search titles and content.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client.Notes.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			printNotes(a.out, a.styles(), res.Results)
			fmt.Fprintln(a.out, a.styles().Muted.Render(fmt.Sprintf("%d matches", res.Total)))
			return nil
		},
	}, router.PathNotes)
}

func (a *App) newShowNoteCmd() *cobra.Command {
	var render bool
	cmd := withRoute(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one note.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			n, err := a.client.Notes.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.printNote(n, render)
			return nil
		},
	}, router.PathNote)
	cmd.Flags().BoolVarP(&render, "render", "r", false, "render the content for reading")
	return cmd
}

// printNote prints the note's content verbatim unless render is set.
func (a *App) printNote(n *models.Note, render bool) {
	st := a.styles()
	fmt.Fprintln(a.out, st.Title.Render(n.Title))
	printFields(a.out, st,
		"ID", strconv.FormatInt(n.ID, 10),
		"Category", categoryName(*n),
		"Tags", tagNames(n.Tags),
		"Favorite", strconv.FormatBool(n.IsFavorite),
		"Views", strconv.Itoa(n.ViewCount),
		"Created", formatTime(n.CreatedAt),
		"Updated", formatTime(n.UpdatedAt),
	)
	if render {
		fmt.Fprintln(a.out, renderContent(n.Content, a.theme.State().IsDark))
		return
	}
	fmt.Fprintln(a.out, n.Content)
}

func (a *App) newCreateNoteCmd() *cobra.Command {
	var f noteFields
	cmd := withRoute(&cobra.Command{
		Use:   "new",
		Short: "Create a note.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.createNote(cmd.Context(), cmd.Flags(), f)
		},
	}, router.PathNewNote)
	f.bind(cmd.Flags())
	return cmd
}

func (a *App) createNote(ctx context.Context, fs *pflag.FlagSet, f noteFields) error {
	var err error
	if f.title == "" {
		if f.title, err = a.ask("Title"); err != nil {
			return err
		}
	}
	if f.title == "" {
		return fmt.Errorf("%w: title is required", services.ErrInvalidInput)
	}
	if !fs.Changed("content") {
		if f.content, err = GetMultiline(a.reader, "Content", a.out); err != nil {
			return err
		}
	}

	in := models.NoteCreate{
		Title:      f.title,
		Content:    f.content,
		TagIDs:     append([]int64{}, f.tagIDs...),
		IsFavorite: f.favorite,
	}
	if fs.Changed("category") {
		in.CategoryID = &f.categoryID
	}

	n, err := a.client.Notes.Create(ctx, in)
	if err != nil {
		return err
	}
	notify.Success(ctx, a.notifier, fmt.Sprintf("Created note #%d", n.ID))
	return nil
}

func (a *App) newEditNoteCmd() *cobra.Command {
	var f noteFields
	cmd := withRoute(&cobra.Command{
		Use:   "edit <id>",
		Short: "Change a note. Without flags, prompts for title and content.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.editNote(cmd.Context(), id, cmd.Flags(), f)
		},
	}, router.PathNote)
	f.bind(cmd.Flags())
	return cmd
}

func (a *App) editNote(ctx context.Context, id int64, fs *pflag.FlagSet, f noteFields) error {
	var in models.NoteUpdate
	if fs.Changed("title") {
		in.Title = &f.title
	}
	if fs.Changed("content") {
		in.Content = &f.content
	}
	if fs.Changed("category") {
		in.CategoryID = &f.categoryID
	}
	if fs.Changed("tag") {
		in.TagIDs = &f.tagIDs
	}
	if fs.Changed("favorite") {
		in.IsFavorite = &f.favorite
	}

	if fs.NFlag() == 0 {
		title, err := a.ask("New title (empty to keep)")
		if err != nil {
			return err
		}
		if title != "" {
			in.Title = &title
		}
		content, err := GetMultiline(a.reader, "New content (empty to keep)", a.out)
		if err != nil {
			return err
		}
		if content != "" {
			in.Content = &content
		}
	}

	n, err := a.client.Notes.Update(ctx, id, in)
	if err != nil {
		return err
	}
	notify.Success(ctx, a.notifier, fmt.Sprintf("Saved note #%d", n.ID))
	return nil
}

func (a *App) newDeleteNoteCmd() *cobra.Command {
	var yes bool
	cmd := withRoute(&cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a note.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ok, err := a.confirm(yes, fmt.Sprintf("Delete note #%d?", id))
			if err != nil || !ok {
				return err
			}
			if err := a.client.Notes.Delete(cmd.Context(), id); err != nil {
				return err
			}
			notify.Success(cmd.Context(), a.notifier, fmt.Sprintf("Deleted note #%d", id))
			return nil
		},
	}, router.PathNote)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *App) newFavoriteCmd() *cobra.Command {
	var off bool
	cmd := withRoute(&cobra.Command{
		Use:   "fav <id>",
		Short: "Mark a note as favorite.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			n, err := a.notes.SetFavorite(cmd.Context(), id, !off)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Added #%d to favorites", n.ID)
			if !n.IsFavorite {
				msg = fmt.Sprintf("Removed #%d from favorites", n.ID)
			}
			notify.Success(cmd.Context(), a.notifier, msg)
			return nil
		},
	}, router.PathNote)
	cmd.Flags().BoolVar(&off, "off", false, "remove from favorites instead")
	return cmd
}

func (a *App) newFavoritesCmd() *cobra.Command {
	var page, size int
	cmd := withRoute(&cobra.Command{
		Use:   "favorites",
		Short: "List favorite notes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.notes.Favorites(cmd.Context(), page, size)
			if err != nil {
				return err
			}
			printNotes(a.out, a.styles(), p.Items)
			printPageFooter(a.out, a.styles(), p)
			return nil
		},
	}, router.PathFavorites)
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&size, "size", defaultPageSize, "notes per page")
	return cmd
}

func (a *App) confirm(yes bool, question string) (bool, error) {
	if yes {
		return true, nil
	}
	return Confirm(a.reader, question, a.out)
}
