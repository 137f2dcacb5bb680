// Package storage is the durable key-value store behind the session and the
// UI preferences. It survives restarts and is shared by every notekeeper
// process using the same data directory.
package storage

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by Open when the database cannot be opened or
// migrated. Callers treat it as fatal.
var ErrUnavailable = errors.New("storage unavailable")

// Repository is a string key-value store. A missing key is reported with
// ok=false, never as an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error

	// Update runs fn against a transactional view of the store; all writes
	// made through tx are applied together or not at all.
	Update(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error
}
