package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/theme"
	"github.com/gosuri/uitable"
)

const (
	maxColWidth = 40
	timeLayout  = "2006-01-02 15:04"
)

func newTable(st theme.Styles, headers ...any) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = maxColWidth
	for i, h := range headers {
		headers[i] = st.Title.Render(fmt.Sprint(h))
	}
	tbl.AddRow(headers...)
	return tbl
}

func formatTime(t models.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func star(on bool) string {
	if on {
		return "★"
	}
	return ""
}

func tagNames(tags []models.Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}

func categoryName(n models.Note) string {
	if n.Category != nil {
		return n.Category.Name
	}
	return ""
}

func printNotes(w io.Writer, st theme.Styles, notes []models.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(w, st.Muted.Render("No notes."))
		return
	}
	tbl := newTable(st, "ID", "TITLE", "CATEGORY", "TAGS", "FAV", "VIEWS", "UPDATED")
	tbl.RightAlign(0)
	for _, n := range notes {
		tbl.AddRow(n.ID, n.Title, categoryName(n), tagNames(n.Tags), star(n.IsFavorite), n.ViewCount, formatTime(n.UpdatedAt))
	}
	fmt.Fprintln(w, tbl)
}

func printPageFooter(w io.Writer, st theme.Styles, p *models.Page[models.Note]) {
	pages := 1
	if p.PageSize > 0 {
		pages = max(1, (p.Total+p.PageSize-1)/p.PageSize)
	}
	fmt.Fprintln(w, st.Muted.Render(fmt.Sprintf("page %d of %d, %d notes", p.Page, pages, p.Total)))
}

func printCategories(w io.Writer, st theme.Styles, cats []models.Category) {
	if len(cats) == 0 {
		fmt.Fprintln(w, st.Muted.Render("No categories."))
		return
	}
	tbl := newTable(st, "ID", "NAME", "DESCRIPTION", "CREATED")
	tbl.RightAlign(0)
	for _, c := range cats {
		tbl.AddRow(c.ID, c.Name, c.Description, formatTime(c.CreatedAt))
	}
	fmt.Fprintln(w, tbl)
}

func printTags(w io.Writer, st theme.Styles, tags []models.Tag) {
	if len(tags) == 0 {
		fmt.Fprintln(w, st.Muted.Render("No tags."))
		return
	}
	tbl := newTable(st, "ID", "NAME", "COLOR", "CREATED")
	tbl.RightAlign(0)
	for _, t := range tags {
		color := t.Color
		if normalized, err := theme.NormalizeColor(t.Color); err == nil {
			color = theme.Swatch(normalized) + " " + normalized
		}
		tbl.AddRow(t.ID, t.Name, color, formatTime(t.CreatedAt))
	}
	fmt.Fprintln(w, tbl)
}

// printFields prints label/value pairs as an aligned two-column table.
func printFields(w io.Writer, st theme.Styles, pairs ...string) {
	tbl := uitable.New()
	tbl.Separator = "  "
	for i := 0; i+1 < len(pairs); i += 2 {
		tbl.AddRow(st.Muted.Render(pairs[i]), pairs[i+1])
	}
	fmt.Fprintln(w, tbl)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
