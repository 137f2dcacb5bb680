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

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		invalid(c, []issue{{Loc: []string{"path", "id"}, Msg: "Input should be a valid integer", Type: "int_parsing"}})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def, minV, maxV int) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < minV || (maxV > 0 && v > maxV) {
		invalid(c, []issue{{Loc: []string{"query", name}, Msg: "Input should be a valid integer in range", Type: "int_parsing"}})
		return 0, false
	}
	return v, true
}

// window applies skip and limit to an id-ordered slice.
func window[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (b *Backend) listCategories(c *gin.Context) {
	skip, ok := queryInt(c, "skip", 0, 0, 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 100, 1, 100)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Category{}
	for _, cat := range b.categories {
		if cat.userID == currentUser(c) {
			out = append(out, cat.Category)
		}
	}
	slices.SortFunc(out, func(x, y models.Category) int { return cmp.Compare(x.ID, y.ID) })
	c.JSON(http.StatusOK, window(out, skip, limit))
}

func (b *Backend) createCategory(c *gin.Context) {
	var in models.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	if invalid(c, lengthIssue("name", strings.TrimSpace(in.Name), 1, 50)) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	uid := currentUser(c)
	if b.categoryNamedLocked(uid, in.Name) != nil {
		abort(c, http.StatusBadRequest, "Category name already exists")
		return
	}
	cat := &category{userID: uid, Category: models.Category{
		ID:        b.nextIDLocked(),
		Name:      in.Name,
		CreatedAt: models.Time{Time: b.clock()},
	}}
	if in.Description != nil {
		cat.Description = *in.Description
	}
	b.categories[cat.ID] = cat
	c.JSON(http.StatusCreated, cat.Category)
}

func (b *Backend) getCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	cat := b.ownCategoryLocked(c, id)
	if cat == nil {
		return
	}
	c.JSON(http.StatusOK, cat.Category)
}

func (b *Backend) updateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.CategoryInput
	if !bindJSON(c, &in) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	cat := b.ownCategoryLocked(c, id)
	if cat == nil {
		return
	}
	if in.Name != "" {
		cat.Name = in.Name
	}
	if in.Description != nil {
		cat.Description = *in.Description
	}
	c.JSON(http.StatusOK, cat.Category)
}

func (b *Backend) deleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ownCategoryLocked(c, id) == nil {
		return
	}
	delete(b.categories, id)
	for _, n := range b.notes {
		if n.CategoryID != nil && *n.CategoryID == id {
			n.CategoryID = nil
		}
	}
	c.Status(http.StatusNoContent)
}

func (b *Backend) categoryNamedLocked(uid int64, name string) *category {
	for _, cat := range b.categories {
		if cat.userID == uid && cat.Name == name {
			return cat
		}
	}
	return nil
}

func (b *Backend) ownCategoryLocked(c *gin.Context, id int64) *category {
	cat, ok := b.categories[id]
	if !ok || cat.userID != currentUser(c) {
		abort(c, http.StatusNotFound, "Category not found")
		return nil
	}
	return cat
}

func (b *Backend) listTags(c *gin.Context) {
	skip, ok := queryInt(c, "skip", 0, 0, 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 100, 1, 100)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Tag{}
	for _, t := range b.tags {
		if t.userID == currentUser(c) {
			out = append(out, t.Tag)
		}
	}
	slices.SortFunc(out, func(x, y models.Tag) int { return cmp.Compare(x.ID, y.ID) })
	c.JSON(http.StatusOK, window(out, skip, limit))
}

func (b *Backend) createTag(c *gin.Context) {
	var in models.TagInput
	if !bindJSON(c, &in) {
		return
	}
	if invalid(c, lengthIssue("name", strings.TrimSpace(in.Name), 1, 30)) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	uid := currentUser(c)
	for _, t := range b.tags {
		if t.userID == uid && t.Name == in.Name {
			abort(c, http.StatusBadRequest, "Tag name already exists")
			return
		}
	}
	t := &tag{userID: uid, Tag: models.Tag{
		ID:        b.nextIDLocked(),
		Name:      in.Name,
		Color:     in.Color,
		CreatedAt: models.Time{Time: b.clock()},
	}}
	if t.Color == "" {
		t.Color = "#1890ff"
	}
	b.tags[t.ID] = t
	c.JSON(http.StatusCreated, t.Tag)
}

func (b *Backend) getTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.ownTagLocked(c, id)
	if t == nil {
		return
	}
	c.JSON(http.StatusOK, t.Tag)
}

func (b *Backend) updateTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.TagInput
	if !bindJSON(c, &in) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.ownTagLocked(c, id)
	if t == nil {
		return
	}
	if in.Name != "" {
		t.Name = in.Name
	}
	if in.Color != "" {
		t.Color = in.Color
	}
	c.JSON(http.StatusOK, t.Tag)
}

func (b *Backend) deleteTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ownTagLocked(c, id) == nil {
		return
	}
	delete(b.tags, id)
	for _, n := range b.notes {
		n.tagIDs = slices.DeleteFunc(n.tagIDs, func(t int64) bool { return t == id })
	}
	c.Status(http.StatusNoContent)
}

func (b *Backend) ownTagLocked(c *gin.Context, id int64) *tag {
	t, ok := b.tags[id]
	if !ok || t.userID != currentUser(c) {
		abort(c, http.StatusNotFound, "Tag not found")
		return nil
	}
	return t
}
