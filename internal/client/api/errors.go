package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrBadCredentials is a 401 from the login or register endpoint. The
	// caller reports it next to the form; the core does nothing else.
	ErrBadCredentials = errors.New("invalid username or password")

	// ErrSessionExpired is a 401 from any other endpoint. The stored session
	// has been cleared by the time the caller sees it.
	ErrSessionExpired = errors.New("session expired")

	// ErrRequestFailed covers every other non-2xx response.
	ErrRequestFailed = errors.New("request failed")

	// ErrNotFound and ErrValidation refine ErrRequestFailed.
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable means no response was received.
	ErrUnavailable = errors.New("server unavailable")
)

const (
	msgSessionExpired = "Session expired, please log in again"
	msgRequestFailed  = "Request failed, please try again later"
)

// Error is returned for every failed call. It matches exactly one class
// sentinel with errors.Is; ErrNotFound and ErrValidation errors also match
// ErrRequestFailed.
type Error struct {
	Kind      error
	Status    int
	Detail    string
	Method    string
	Path      string
	RequestID string

	cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Method, e.Path)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": %d", e.Status)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	} else if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Kind == ErrNotFound || e.Kind == ErrValidation {
		errs = append(errs, ErrRequestFailed)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// Message is the text shown to the user: the server's detail when present,
// otherwise fallback.
func (e *Error) Message(fallback string) string {
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// classify maps a failed status to its class. path is the request path as
// given by the caller.
func classify(status int, path string) error {
	switch {
	case status == http.StatusUnauthorized && isCredentialEndpoint(path):
		return ErrBadCredentials
	case status == http.StatusUnauthorized:
		return ErrSessionExpired
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrRequestFailed
	}
}

var credentialEndpoints = []string{pathLogin, pathRegister}

func isCredentialEndpoint(path string) bool {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimRight(path, "/")
	for _, p := range credentialEndpoints {
		if strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}

// parseDetail extracts the backend's "detail" field, which is either a
// string or a list of validation issues with "msg" fields.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var issues []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, i := range issues {
			if i.Msg != "" {
				msgs = append(msgs, i.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
