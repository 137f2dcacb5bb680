package apitest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type detail struct {
	Detail json.RawMessage `json:"detail"`
}

func (d detail) text() string {
	var s string
	_ = json.Unmarshal(d.Detail, &s)
	return s
}

func setup(t *testing.T, opts ...Option) (*Backend, *resty.Client) {
	t.Helper()
	b := New(opts...)
	return b, resty.New().SetBaseURL(b.Start(t))
}

func login(t *testing.T, c *resty.Client, user, pass string) string {
	t.Helper()
	var tok models.Token
	resp, err := c.R().SetBody(models.LoginRequest{Username: user, Password: pass}).SetResult(&tok).Post("/api/auth/login")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())
	return tok.AccessToken
}

func TestRegisterAndLogin(t *testing.T) {
	_, c := setup(t)

	var profile models.UserProfile
	resp, err := c.R().
		SetBody(models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"}).
		SetResult(&profile).
		Post("/api/auth/register")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())
	assert.Equal(t, "alice", profile.Username)

	var d detail
	resp, err = c.R().
		SetBody(models.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret1"}).
		SetError(&d).
		Post("/api/auth/register")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Equal(t, "Username already registered", d.text())

	tok := login(t, c, "alice", "secret1")
	assert.NotEmpty(t, tok)

	resp, err = c.R().SetBody(models.LoginRequest{Username: "alice", Password: "nope"}).SetError(&d).Post("/api/auth/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	assert.Equal(t, DetailBadCredentials, d.text())
}

func TestRegisterValidation(t *testing.T) {
	_, c := setup(t)

	var d struct {
		Detail []issue `json:"detail"`
	}
	resp, err := c.R().
		SetBody(models.RegisterRequest{Username: "al", Email: "nope", Password: "123"}).
		SetError(&d).
		Post("/api/auth/register")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode())
	require.Len(t, d.Detail, 3)
	assert.Equal(t, []string{"body", "username"}, d.Detail[0].Loc)
	assert.Equal(t, []string{"body", "email"}, d.Detail[1].Loc)
	assert.Equal(t, []string{"body", "password"}, d.Detail[2].Loc)
}

func TestProtectedRoutes(t *testing.T) {
	b, c := setup(t)
	b.AddUser("bob", "bob@example.com", "secret1")

	var d detail
	resp, err := c.R().SetError(&d).Get("/api/notes")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	assert.Equal(t, DetailNotAuth, d.text())

	resp, err = c.R().SetAuthToken("garbage").SetError(&d).Get("/api/notes")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	assert.Equal(t, DetailInvalidToken, d.text())

	tok := login(t, c, "bob", "secret1")
	resp, err = c.R().SetAuthToken(tok).Get("/api/auth/profile")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	b.ExpireSessions()
	resp, err = c.R().SetAuthToken(tok).SetError(&d).Get("/api/auth/profile")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	assert.Equal(t, DetailTokenExpired, d.text())

	last, ok := b.LastRequest(http.MethodGet, "/api/auth/profile")
	require.True(t, ok)
	assert.Equal(t, "Bearer "+tok, last.Authorization)
}

func TestExpiredTTL(t *testing.T) {
	b, c := setup(t, WithTokenTTL(-time.Minute))
	id := b.AddUser("carol", "carol@example.com", "secret1")
	tok, err := b.Token(id)
	require.NoError(t, err)

	resp, err := c.R().SetAuthToken(tok).Get("/api/auth/profile")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
}

func TestChangePassword(t *testing.T) {
	b, c := setup(t)
	b.AddUser("dave", "dave@example.com", "secret1")
	tok := login(t, c, "dave", "secret1")

	var d detail
	resp, err := c.R().SetAuthToken(tok).SetError(&d).
		SetBody(models.PasswordChange{OldPassword: "wrong1", NewPassword: "newpass"}).
		Post("/api/auth/change-password")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Equal(t, "Old password is incorrect", d.text())

	resp, err = c.R().SetAuthToken(tok).SetError(&d).
		SetBody(models.PasswordChange{OldPassword: "secret1", NewPassword: "abc"}).
		Post("/api/auth/change-password")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

	resp, err = c.R().SetAuthToken(tok).
		SetBody(models.PasswordChange{OldPassword: "secret1", NewPassword: "newpass"}).
		Post("/api/auth/change-password")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	login(t, c, "dave", "newpass")
}

func TestUploadAvatar(t *testing.T) {
	b, c := setup(t)
	b.AddUser("erin", "erin@example.com", "secret1")
	tok := login(t, c, "erin", "secret1")

	var out models.AvatarUpload
	resp, err := c.R().SetAuthToken(tok).
		SetFileReader("file", "me.png", strings.NewReader("\x89PNG\r\n\x1a\nrest")).
		SetResult(&out).
		Post("/api/auth/upload-avatar")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())
	assert.True(t, strings.HasPrefix(out.AvatarURL, "/uploads/avatars/avatar_1_"))
	assert.True(t, strings.HasSuffix(out.AvatarURL, ".png"))

	var profile models.UserProfile
	_, err = c.R().SetAuthToken(tok).SetResult(&profile).Get("/api/auth/profile")
	require.NoError(t, err)
	assert.Equal(t, out.AvatarURL, profile.AvatarURL)

	resp, err = c.R().SetAuthToken(tok).
		SetFileReader("file", "notes.txt", strings.NewReader("plain text")).
		Post("/api/auth/upload-avatar")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
}

func TestNotesListing(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	b, c := setup(t, WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}))
	b.AddUser("frank", "frank@example.com", "secret1")
	tok := login(t, c, "frank", "secret1")
	r := func() *resty.Request { return c.R().SetAuthToken(tok) }

	var cat models.Category
	_, err := r().SetBody(models.CategoryInput{Name: "Work"}).SetResult(&cat).Post("/api/categories")
	require.NoError(t, err)
	var tg models.Tag
	_, err = r().SetBody(models.TagInput{Name: "go"}).SetResult(&tg).Post("/api/tags")
	require.NoError(t, err)

	for i, in := range []models.NoteCreate{
		{Title: "first", Content: "alpha", CategoryID: &cat.ID},
		{Title: "second", Content: "beta", TagIDs: []int64{tg.ID, 999}, IsFavorite: true},
		{Title: "third", Content: "alpha beta"},
	} {
		resp, err := r().SetBody(in).Post("/api/notes")
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode(), i)
	}

	var page models.Page[models.Note]
	_, err = r().SetResult(&page).Get("/api/notes")
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "third", page.Items[0].Title)
	assert.Equal(t, "first", page.Items[2].Title)
	require.NotNil(t, page.Items[2].Category)
	assert.Equal(t, "Work", page.Items[2].Category.Name)
	assert.Equal(t, []models.Tag{tg}, page.Items[1].Tags)

	_, err = r().SetQueryParam("is_favorite", "true").SetResult(&page).Get("/api/notes")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "second", page.Items[0].Title)

	_, err = r().SetQueryParams(map[string]string{"page": "2", "page_size": "2"}).SetResult(&page).Get("/api/notes")
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 1)

	var found models.SearchResult
	_, err = r().SetQueryParam("keyword", "alpha").SetResult(&found).Get("/api/notes/search")
	require.NoError(t, err)
	assert.Equal(t, 2, found.Total)

	resp, err := r().SetQueryParam("page_size", "101").Get("/api/notes")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode())
}

func TestNoteLifecycle(t *testing.T) {
	b, c := setup(t)
	b.AddUser("gina", "gina@example.com", "secret1")
	tok := login(t, c, "gina", "secret1")
	r := func() *resty.Request { return c.R().SetAuthToken(tok) }

	var n models.Note
	_, err := r().SetBody(models.NoteCreate{Title: "draft"}).SetResult(&n).Post("/api/notes")
	require.NoError(t, err)

	_, err = r().SetResult(&n).Get("/api/notes/" + itoa(n.ID))
	require.NoError(t, err)
	_, err = r().SetResult(&n).Get("/api/notes/" + itoa(n.ID))
	require.NoError(t, err)
	assert.Equal(t, 2, n.ViewCount)

	fav := true
	_, err = r().SetBody(models.NoteUpdate{IsFavorite: &fav}).SetResult(&n).Put("/api/notes/" + itoa(n.ID))
	require.NoError(t, err)
	assert.True(t, n.IsFavorite)
	assert.Equal(t, "draft", n.Title)

	resp, err := r().Delete("/api/notes/" + itoa(n.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())

	var d detail
	resp, err = r().SetError(&d).Get("/api/notes/" + itoa(n.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	assert.Equal(t, "Note not found", d.text())
}

func TestNotesAreScopedToOwner(t *testing.T) {
	b, c := setup(t)
	b.AddUser("hank", "hank@example.com", "secret1")
	b.AddUser("ivy", "ivy@example.com", "secret1")
	hank := login(t, c, "hank", "secret1")
	ivy := login(t, c, "ivy", "secret1")

	var n models.Note
	_, err := c.R().SetAuthToken(hank).SetBody(models.NoteCreate{Title: "private"}).SetResult(&n).Post("/api/notes")
	require.NoError(t, err)

	resp, err := c.R().SetAuthToken(ivy).Get("/api/notes/" + itoa(n.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
}

func TestDuplicateCategory(t *testing.T) {
	b, c := setup(t)
	b.AddUser("jane", "jane@example.com", "secret1")
	tok := login(t, c, "jane", "secret1")

	resp, err := c.R().SetAuthToken(tok).SetBody(models.CategoryInput{Name: "Ideas"}).Post("/api/categories")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	var d detail
	resp, err = c.R().SetAuthToken(tok).SetBody(models.CategoryInput{Name: "Ideas"}).SetError(&d).Post("/api/categories")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Equal(t, "Category name already exists", d.text())
}

func TestFailNext(t *testing.T) {
	b, c := setup(t)
	b.AddUser("kim", "kim@example.com", "secret1")
	tok := login(t, c, "kim", "secret1")

	b.FailNext(http.MethodGet, "/api/tags", http.StatusInternalServerError, "database down")

	var d detail
	resp, err := c.R().SetAuthToken(tok).SetError(&d).Get("/api/tags")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
	assert.Equal(t, "database down", d.text())

	resp, err = c.R().SetAuthToken(tok).Get("/api/tags")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
