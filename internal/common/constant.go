// Package common holds wire constants shared by the HTTP client and the
// test backend, plus a few byte helpers.
package common

const (
	// AuthorizationHeader carries the bearer token on outbound requests.
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "

	// RequestIDHeader correlates a client log line with a backend one.
	RequestIDHeader = "X-Request-ID"
)
