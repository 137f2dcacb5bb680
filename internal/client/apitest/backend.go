// Package apitest runs an in-memory knowledge-base backend for tests. It
// speaks the same JSON API as the real server: bearer tokens, paginated
// notes and FastAPI-style {"detail": ...} errors.
package apitest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/gin-gonic/gin"
)

const (
	DetailBadCredentials = "Incorrect username or password"
	DetailNotAuth        = "Not authenticated"
	DetailInvalidToken   = "Could not validate credentials"
	DetailTokenExpired   = "token expired"
)

// Request is one call seen by the backend.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
}

type failure struct {
	method string
	path   string
	status int
	detail string
}

type user struct {
	models.UserProfile
	password passwordHash
}

type note struct {
	models.Note
	userID int64
	tagIDs []int64
}

type category struct {
	models.Category
	userID int64
}

type tag struct {
	models.Tag
	userID int64
}

type Backend struct {
	engine *gin.Engine
	secret []byte
	ttl    time.Duration

	mu         sync.Mutex
	generation int
	lastID     int64
	users      map[int64]*user
	notes      map[int64]*note
	categories map[int64]*category
	tags       map[int64]*tag
	requests   []Request
	failures   []failure
	clock      func() time.Time
}

type Option func(*Backend)

// WithTokenTTL sets the lifetime of issued tokens.
func WithTokenTTL(ttl time.Duration) Option {
	return func(b *Backend) { b.ttl = ttl }
}

// WithClock replaces time.Now for created_at and updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.clock = now }
}

func New(opts ...Option) *Backend {
	gin.SetMode(gin.TestMode)

	b := &Backend{
		secret:     []byte("apitest-secret"),
		ttl:        30 * time.Minute,
		users:      map[int64]*user{},
		notes:      map[int64]*note{},
		categories: map[int64]*category{},
		tags:       map[int64]*tag{},
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.engine = b.routes()
	return b
}

func (b *Backend) Handler() http.Handler {
	return b.engine
}

// Start serves the backend on a loopback port until the test ends and
// returns its base URL.
func (b *Backend) Start(tb testing.TB) string {
	tb.Helper()
	srv := httptest.NewServer(b.engine)
	tb.Cleanup(srv.Close)
	return srv.URL
}

func (b *Backend) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), b.record, b.injectFailures)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", b.register)
		auth.POST("/login", b.login)

		private := auth.Group("", b.requireUser)
		private.GET("/profile", b.profile)
		private.PUT("/profile", b.updateProfile)
		private.POST("/change-password", b.changePassword)
		private.POST("/upload-avatar", b.uploadAvatar)
		private.POST("/logout", b.logout)
	}

	categories := r.Group("/api/categories", b.requireUser)
	{
		categories.GET("", b.listCategories)
		categories.POST("", b.createCategory)
		categories.GET("/:id", b.getCategory)
		categories.PUT("/:id", b.updateCategory)
		categories.DELETE("/:id", b.deleteCategory)
	}

	tags := r.Group("/api/tags", b.requireUser)
	{
		tags.GET("", b.listTags)
		tags.POST("", b.createTag)
		tags.GET("/:id", b.getTag)
		tags.PUT("/:id", b.updateTag)
		tags.DELETE("/:id", b.deleteTag)
	}

	notes := r.Group("/api/notes", b.requireUser)
	{
		notes.GET("", b.listNotes)
		notes.GET("/search", b.searchNotes)
		notes.POST("", b.createNote)
		notes.GET("/:id", b.getNote)
		notes.PUT("/:id", b.updateNote)
		notes.DELETE("/:id", b.deleteNote)
	}
	return r
}

// Requests returns every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// LastRequest returns the most recent request matching method and path.
func (b *Backend) LastRequest(method, path string) (Request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		r := b.requests[i]
		if r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Request{}, false
}

// ExpireSessions invalidates every token issued so far. Later requests
// carrying one get a 401 with DetailTokenExpired.
func (b *Backend) ExpireSessions() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generation++
}

// FailNext makes the next request to method and path fail with status and
// detail. An empty detail sends no body.
func (b *Backend) FailNext(method, path string, status int, detail string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = append(b.failures, failure{method: method, path: path, status: status, detail: detail})
}

// AddUser creates an account directly and returns its id.
func (b *Backend) AddUser(username, email, password string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(username, email, password).ID
}

// Token issues a valid token for an existing user.
func (b *Backend) Token(userID int64) (string, error) {
	b.mu.Lock()
	gen := b.generation
	b.mu.Unlock()
	return issueToken(userID, gen, b.secret, b.ttl)
}

func (b *Backend) addUserLocked(username, email, password string) *user {
	now := b.clock()
	u := &user{
		UserProfile: models.UserProfile{
			ID:              b.nextIDLocked(),
			Username:        username,
			Email:           email,
			ThemePreference: "light",
			PrimaryColor:    "#1890ff",
			CreatedAt:       models.Time{Time: now},
			UpdatedAt:       models.Time{Time: now},
		},
		password: hashPassword(password),
	}
	b.users[u.ID] = u
	return u
}

func (b *Backend) nextIDLocked() int64 {
	b.lastID++
	return b.lastID
}

func (b *Backend) record(c *gin.Context) {
	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Query:         c.Request.URL.RawQuery,
		Authorization: c.GetHeader("Authorization"),
	})
	b.mu.Unlock()
	c.Next()
}

func (b *Backend) injectFailures(c *gin.Context) {
	b.mu.Lock()
	var f *failure
	for i := range b.failures {
		if b.failures[i].method == c.Request.Method && b.failures[i].path == c.Request.URL.Path {
			hit := b.failures[i]
			f = &hit
			b.failures = append(b.failures[:i], b.failures[i+1:]...)
			break
		}
	}
	b.mu.Unlock()

	if f == nil {
		c.Next()
		return
	}
	if f.detail == "" {
		c.AbortWithStatus(f.status)
		return
	}
	abort(c, f.status, f.detail)
}

const userIDKey = "apitest.user"

func (b *Backend) requireUser(c *gin.Context) {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		abort(c, http.StatusUnauthorized, DetailNotAuth)
		return
	}

	b.mu.Lock()
	gen := b.generation
	b.mu.Unlock()

	id, err := parseToken(token, gen, b.secret)
	switch {
	case errors.Is(err, errRevoked):
		abort(c, http.StatusUnauthorized, DetailTokenExpired)
		return
	case err != nil:
		abort(c, http.StatusUnauthorized, DetailInvalidToken)
		return
	}

	b.mu.Lock()
	_, exists := b.users[id]
	b.mu.Unlock()
	if !exists {
		abort(c, http.StatusUnauthorized, DetailInvalidToken)
		return
	}

	c.Set(userIDKey, id)
	c.Next()
}

func currentUser(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
