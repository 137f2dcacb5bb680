package apitest

import (
	"cmp"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/gin-gonic/gin"
)

// viewLocked renders a note with its category and tags resolved.
func (b *Backend) viewLocked(n *note) models.Note {
	out := n.Note
	out.Category = nil
	if n.CategoryID != nil {
		if cat, ok := b.categories[*n.CategoryID]; ok {
			c := cat.Category
			out.Category = &c
		}
	}
	out.Tags = []models.Tag{}
	for _, id := range n.tagIDs {
		if t, ok := b.tags[id]; ok {
			out.Tags = append(out.Tags, t.Tag)
		}
	}
	return out
}

// ownTagIDsLocked keeps the ids of tags that belong to uid.
func (b *Backend) ownTagIDsLocked(uid int64, ids []int64) []int64 {
	out := []int64{}
	for _, id := range ids {
		if t, ok := b.tags[id]; ok && t.userID == uid && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// sortedNotesLocked returns uid's notes, most recently updated first.
func (b *Backend) sortedNotesLocked(uid int64, keep func(*note) bool) []*note {
	var out []*note
	for _, n := range b.notes {
		if n.userID == uid && keep(n) {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(x, y *note) int {
		if c := y.UpdatedAt.Compare(x.UpdatedAt.Time); c != 0 {
			return c
		}
		return cmp.Compare(y.ID, x.ID)
	})
	return out
}

func matchesKeyword(n *note, keyword string) bool {
	return strings.Contains(n.Title, keyword) || strings.Contains(n.Content, keyword)
}

func (b *Backend) listNotes(c *gin.Context) {
	page, ok := queryInt(c, "page", 1, 1, 0)
	if !ok {
		return
	}
	size, ok := queryInt(c, "page_size", 20, 1, 100)
	if !ok {
		return
	}

	var (
		categoryID, tagID *int64
		favorite          *bool
	)
	for name, dst := range map[string]**int64{"category_id": &categoryID, "tag_id": &tagID} {
		if raw, set := c.GetQuery(name); set {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				invalid(c, []issue{{Loc: []string{"query", name}, Msg: "Input should be a valid integer", Type: "int_parsing"}})
				return
			}
			*dst = &v
		}
	}
	if raw, set := c.GetQuery("is_favorite"); set {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid(c, []issue{{Loc: []string{"query", "is_favorite"}, Msg: "Input should be a valid boolean", Type: "bool_parsing"}})
			return
		}
		favorite = &v
	}
	keyword := c.Query("keyword")

	b.mu.Lock()
	defer b.mu.Unlock()
	all := b.sortedNotesLocked(currentUser(c), func(n *note) bool {
		switch {
		case categoryID != nil && (n.CategoryID == nil || *n.CategoryID != *categoryID):
			return false
		case tagID != nil && !slices.Contains(n.tagIDs, *tagID):
			return false
		case favorite != nil && n.IsFavorite != *favorite:
			return false
		case keyword != "" && !matchesKeyword(n, keyword):
			return false
		}
		return true
	})

	items := []models.Note{}
	for _, n := range window(all, (page-1)*size, size) {
		items = append(items, b.viewLocked(n))
	}
	c.JSON(http.StatusOK, models.Page[models.Note]{Items: items, Total: len(all), Page: page, PageSize: size})
}

func (b *Backend) searchNotes(c *gin.Context) {
	keyword := c.Query("keyword")
	if invalid(c, lengthIssue("keyword", keyword, 1, 0)) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	results := []models.Note{}
	for _, n := range b.sortedNotesLocked(currentUser(c), func(n *note) bool { return matchesKeyword(n, keyword) }) {
		results = append(results, b.viewLocked(n))
	}
	c.JSON(http.StatusOK, models.SearchResult{Results: results, Total: len(results)})
}

func (b *Backend) createNote(c *gin.Context) {
	var in models.NoteCreate
	if !bindJSON(c, &in) {
		return
	}
	if invalid(c, lengthIssue("title", in.Title, 1, 200)) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	uid := currentUser(c)
	now := models.Time{Time: b.clock()}
	n := &note{userID: uid, tagIDs: b.ownTagIDsLocked(uid, in.TagIDs), Note: models.Note{
		ID:         b.nextIDLocked(),
		Title:      in.Title,
		Content:    in.Content,
		CategoryID: in.CategoryID,
		IsFavorite: in.IsFavorite,
		CreatedAt:  now,
		UpdatedAt:  now,
	}}
	b.notes[n.ID] = n
	c.JSON(http.StatusCreated, b.viewLocked(n))
}

func (b *Backend) getNote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.ownNoteLocked(c, id)
	if n == nil {
		return
	}
	n.ViewCount++
	c.JSON(http.StatusOK, b.viewLocked(n))
}

func (b *Backend) updateNote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.NoteUpdate
	if !bindJSON(c, &in) {
		return
	}
	if in.Title != nil && invalid(c, lengthIssue("title", *in.Title, 1, 200)) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.ownNoteLocked(c, id)
	if n == nil {
		return
	}
	if in.Title != nil {
		n.Title = *in.Title
	}
	if in.Content != nil {
		n.Content = *in.Content
	}
	if in.CategoryID != nil {
		n.CategoryID = in.CategoryID
	}
	if in.IsFavorite != nil {
		n.IsFavorite = *in.IsFavorite
	}
	if in.TagIDs != nil {
		n.tagIDs = b.ownTagIDsLocked(n.userID, *in.TagIDs)
	}
	n.UpdatedAt = models.Time{Time: b.clock()}
	c.JSON(http.StatusOK, b.viewLocked(n))
}

func (b *Backend) deleteNote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ownNoteLocked(c, id) == nil {
		return
	}
	delete(b.notes, id)
	c.Status(http.StatusNoContent)
}

func (b *Backend) ownNoteLocked(c *gin.Context, id int64) *note {
	n, ok := b.notes[id]
	if !ok || n.userID != currentUser(c) {
		abort(c, http.StatusNotFound, "Note not found")
		return nil
	}
	return n
}
