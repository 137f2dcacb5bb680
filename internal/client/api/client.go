// Package api is the HTTP client for the knowledge-base backend.
//
// Every request goes through one resty client whose middleware attaches the
// stored bearer token and classifies failures. A 401 from anywhere but the
// login and register endpoints ends the session: the token and username are
// removed from the store, the user is told, and the router is sent to the
// login view. Other failures produce one notification each. Callers always
// get the error back; see Error.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/notify"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// SessionStore is the part of the session store the core needs.
type SessionStore interface {
	Token(ctx context.Context) (string, bool, error)
	Expire(ctx context.Context) error
}

// Navigator moves the UI to another view. RedirectToLogin switches to the
// login view unless an auth view is already current, in one step, and
// reports whether it moved.
type Navigator interface {
	RedirectToLogin(ctx context.Context) bool
}

type Options struct {
	BaseURL string
	Timeout time.Duration

	// Transport replaces the default round tripper; tests use it to inject
	// network failures.
	Transport http.RoundTripper
}

// RequestContext describes one call. It is created by Do, travels with the
// request through the middleware and is dropped when Do returns.
type RequestContext struct {
	Method     string
	Path       string
	RequestID  string
	Authorized bool
}

type requestContextKey struct{}

func requestContextFrom(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(requestContextKey{}).(*RequestContext)
	return rc
}

// RequestOption adjusts a request before it is sent.
type RequestOption func(*resty.Request)

type Client struct {
	http     *resty.Client
	store    SessionStore
	notifier notify.Notifier
	nav      Navigator
	log      logging.Logger

	Auth       *AuthAPI
	Categories *CategoryAPI
	Tags       *TagAPI
	Notes      *NoteAPI
}

func New(opts Options, store SessionStore, notifier notify.Notifier, nav Navigator, log logging.Logger) *Client {
	c := &Client{store: store, notifier: notifier, nav: nav, log: log}

	h := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{log: log})
	if opts.Transport != nil {
		h.SetTransport(opts.Transport)
	}
	h.OnBeforeRequest(c.attachToken)
	h.OnAfterResponse(c.checkResponse)
	c.http = h

	c.Auth = &AuthAPI{c: c}
	c.Categories = &CategoryAPI{c: c}
	c.Tags = &TagAPI{c: c}
	c.Notes = &NoteAPI{c: c}
	return c
}

// Do sends one request. body, when not nil, is sent as JSON; a successful
// response is decoded into out when out is not nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	rc := &RequestContext{Method: method, Path: path, RequestID: uuid.NewString()}

	req := c.http.R().SetContext(context.WithValue(ctx, requestContextKey{}, rc))
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := req.Execute(method, path)
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if resp != nil && resp.RawResponse != nil && ctx.Err() == nil {
		return c.undecodable(ctx, rc, resp.StatusCode(), err)
	}
	return c.noResponse(ctx, rc, err)
}

// attachToken runs before every request. The token is read from the store
// on each call, so a session ended by another view or process is noticed
// immediately.
func (c *Client) attachToken(_ *resty.Client, r *resty.Request) error {
	ctx := r.Context()
	rc := requestContextFrom(ctx)
	if rc == nil {
		rc = &RequestContext{Method: r.Method, Path: r.URL, RequestID: uuid.NewString()}
	}

	token, ok, err := c.store.Token(ctx)
	if err != nil {
		return fmt.Errorf("read session token: %w", err)
	}
	if ok {
		r.SetHeader(common.AuthorizationHeader, common.BearerPrefix+token)
	} else {
		r.Header.Del(common.AuthorizationHeader)
	}
	rc.Authorized = ok
	r.SetHeader(common.RequestIDHeader, rc.RequestID)

	c.log.Debug(ctx, "request", "method", rc.Method, "path", rc.Path,
		"request_id", rc.RequestID, "authorized", rc.Authorized)
	return nil
}

// checkResponse runs after every response. A non-nil return becomes the
// error returned by Execute.
func (c *Client) checkResponse(_ *resty.Client, resp *resty.Response) error {
	ctx := resp.Request.Context()
	rc := requestContextFrom(ctx)
	if rc == nil {
		rc = &RequestContext{Method: resp.Request.Method, Path: resp.Request.URL}
	}

	if !resp.IsError() {
		c.log.Debug(ctx, "response", "method", rc.Method, "path", rc.Path,
			"request_id", rc.RequestID, "status", resp.StatusCode(), "elapsed", resp.Time())
		return nil
	}

	e := &Error{
		Kind:      classify(resp.StatusCode(), rc.Path),
		Status:    resp.StatusCode(),
		Detail:    parseDetail(resp.Body()),
		Method:    rc.Method,
		Path:      rc.Path,
		RequestID: rc.RequestID,
	}
	c.log.Warn(ctx, "request failed", "method", e.Method, "path", e.Path,
		"request_id", e.RequestID, "status", e.Status, "kind", e.Kind)
	c.handleFailure(ctx, e)
	return e
}

func (c *Client) handleFailure(ctx context.Context, e *Error) {
	switch e.Kind {
	case ErrBadCredentials:
		// reported by the login or register view
	case ErrSessionExpired:
		if err := c.store.Expire(ctx); err != nil {
			c.log.Error(ctx, "clear expired session", "error", err)
		}
		notify.Error(ctx, c.notifier, e.Message(msgSessionExpired))
		c.nav.RedirectToLogin(ctx)
	default:
		notify.Error(ctx, c.notifier, e.Message(msgRequestFailed))
	}
}

// noResponse handles calls that ended without a response. A cancelled or
// expired caller context is returned as is, without a notification.
func (c *Client) noResponse(ctx context.Context, rc *RequestContext, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s %s: %w", rc.Method, rc.Path, ctxErr)
	}

	c.log.Warn(ctx, "request not completed", "method", rc.Method, "path", rc.Path,
		"request_id", rc.RequestID, "error", err)
	notify.Error(ctx, c.notifier, msgRequestFailed)
	return &Error{
		Kind:      ErrUnavailable,
		Method:    rc.Method,
		Path:      rc.Path,
		RequestID: rc.RequestID,
		cause:     err,
	}
}

// undecodable handles a successful status whose body could not be read into
// the caller's result.
func (c *Client) undecodable(ctx context.Context, rc *RequestContext, status int, err error) error {
	c.log.Warn(ctx, "undecodable response", "method", rc.Method, "path", rc.Path,
		"request_id", rc.RequestID, "status", status, "error", err)
	notify.Error(ctx, c.notifier, msgRequestFailed)
	return &Error{
		Kind:      ErrRequestFailed,
		Status:    status,
		Method:    rc.Method,
		Path:      rc.Path,
		RequestID: rc.RequestID,
		cause:     err,
	}
}

type restyLogger struct {
	log logging.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.log.Error(context.Background(), fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.log.Warn(context.Background(), fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.log.Debug(context.Background(), fmt.Sprintf(format, v...))
}
