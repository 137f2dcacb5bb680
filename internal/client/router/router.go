// Package router maps view paths to protection levels and guards navigation:
// a protected view is reachable only while a session token is stored.
package router

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

const (
	PathHome       = "/"
	PathLogin      = "/login"
	PathRegister   = "/register"
	PathDashboard  = "/dashboard"
	PathNotes      = "/notes"
	PathNewNote    = "/notes/new"
	PathNote       = "/notes/:id"
	PathFavorites  = "/favorites"
	PathTags       = "/tags"
	PathCategories = "/categories"
	PathSettings   = "/settings"
	PathProfile    = "/profile"
)

type Route struct {
	Pattern   string
	Protected bool
}

// routes is ordered: static patterns come before parameterised ones that
// could also match them.
var routes = []Route{
	{Pattern: PathHome},
	{Pattern: PathLogin},
	{Pattern: PathRegister},
	{Pattern: PathDashboard, Protected: true},
	{Pattern: PathNotes, Protected: true},
	{Pattern: PathNewNote, Protected: true},
	{Pattern: PathNote, Protected: true},
	{Pattern: PathFavorites, Protected: true},
	{Pattern: PathTags, Protected: true},
	{Pattern: PathCategories, Protected: true},
	{Pattern: PathSettings, Protected: true},
	{Pattern: PathProfile, Protected: true},
}

// Routes returns the route table.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

func segments(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Match finds the route for path. ":name" segments match any non-empty
// segment.
func Match(path string) (Route, bool) {
	got := segments(path)
	for _, r := range routes {
		want := segments(r.Pattern)
		if len(want) != len(got) {
			continue
		}
		ok := true
		for i := range want {
			if strings.HasPrefix(want[i], ":") {
				continue
			}
			if want[i] != got[i] {
				ok = false
				break
			}
		}
		if ok {
			return r, true
		}
	}
	return Route{}, false
}

// IsAuthView reports whether path is the login or registration view.
func IsAuthView(path string) bool {
	r, ok := Match(path)
	return ok && (r.Pattern == PathLogin || r.Pattern == PathRegister)
}

type TokenReader interface {
	Token(ctx context.Context) (string, bool, error)
}

// Router tracks the current view. It is safe for concurrent use.
type Router struct {
	store TokenReader
	log   logging.Logger

	mu      sync.RWMutex
	current string
}

func New(store TokenReader, log logging.Logger) *Router {
	return &Router{store: store, log: log, current: PathHome}
}

// Resolve decides where a navigation to path lands, reading the store every
// time: unknown paths go home, protected paths without a token go to the
// login view. When the store cannot be read the login view is returned along
// with the error.
func (r *Router) Resolve(ctx context.Context, path string) (string, error) {
	route, ok := Match(path)
	if !ok {
		return PathHome, nil
	}
	if !route.Protected {
		return path, nil
	}
	_, hasToken, err := r.store.Token(ctx)
	if err != nil {
		return PathLogin, err
	}
	if !hasToken {
		return PathLogin, nil
	}
	return path, nil
}

// Navigate resolves path and makes the result the current view.
func (r *Router) Navigate(ctx context.Context, path string) (string, error) {
	landed, err := r.Resolve(ctx, path)
	if err != nil {
		r.log.Warn(ctx, "route guard", "path", path, "error", err)
	}
	if landed != path {
		r.log.Debug(ctx, "navigation redirected", "from", path, "to", landed)
	}

	r.mu.Lock()
	r.current = landed
	r.mu.Unlock()
	return landed, err
}

func (r *Router) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// RedirectToLogin makes the login view current unless the login or register
// view already is. The check and the switch happen under one lock, so
// concurrent callers redirect at most once.
func (r *Router) RedirectToLogin(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if IsAuthView(r.current) {
		return false
	}
	r.log.Debug(ctx, "redirect to login", "from", r.current)
	r.current = PathLogin
	return true
}

// Redirect navigates without reporting the outcome.
func (r *Router) Redirect(ctx context.Context, path string) {
	_, _ = r.Navigate(ctx, path)
}
