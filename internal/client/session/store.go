package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/notekeeper/internal/client/events"
	"github.com/dmitrijs2005/notekeeper/internal/client/storage"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

var ErrEmptyToken = errors.New("empty token")

// Store is the Persisted Session Store. It is safe for concurrent use.
type Store struct {
	repo storage.Repository
	log  logging.Logger

	changes events.Bus[Change]
	avatar  events.Bus[AvatarUpdated]

	// snapshot mirrors the repository while Watch runs, so that writes made
	// by this process are not reported back as external. mu is held across
	// each write and its snapshot update.
	mu       sync.Mutex
	snapshot map[string]string
}

func NewStore(repo storage.Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log}
}

// OnChange subscribes fn to every write, local or external.
func (s *Store) OnChange(fn func(Change)) (unsubscribe func()) {
	return s.changes.Subscribe(fn)
}

// OnAvatarUpdated subscribes fn to avatar changes.
func (s *Store) OnAvatarUpdated(fn func(AvatarUpdated)) (unsubscribe func()) {
	return s.avatar.Subscribe(fn)
}

func (s *Store) Get(ctx context.Context, key Key) (string, bool, error) {
	v, ok, err := s.repo.Get(ctx, string(key))
	if err != nil {
		return "", false, fmt.Errorf("session get %s: %w", key, err)
	}
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key Key, value string) error {
	err := s.write([]Change{{Key: key, Value: value}}, func() error {
		return s.repo.Set(ctx, string(key), value)
	})
	if err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key Key) error {
	return s.remove(ctx, key)
}

// Token returns the stored bearer token. An empty stored value counts as
// absent.
func (s *Store) Token(ctx context.Context) (string, bool, error) {
	v, ok, err := s.Get(ctx, KeyToken)
	if err != nil || !ok || v == "" {
		return "", false, err
	}
	return v, true, nil
}

// Current reads the session from the store on every call.
func (s *Store) Current(ctx context.Context) (Session, error) {
	token, ok, err := s.Token(ctx)
	if err != nil {
		return LoggedOut{}, err
	}
	if !ok {
		return LoggedOut{}, nil
	}
	username, _, err := s.Get(ctx, KeyUsername)
	if err != nil {
		return LoggedOut{}, err
	}
	return LoggedIn{Token: token, Username: username}, nil
}

// SignIn stores the token and username together.
func (s *Store) SignIn(ctx context.Context, token, username string) error {
	if token == "" {
		return ErrEmptyToken
	}
	changes := []Change{
		{Key: KeyToken, Value: token},
		{Key: KeyUsername, Value: username},
	}
	err := s.write(changes, func() error {
		return s.repo.Update(ctx, func(ctx context.Context, tx storage.Repository) error {
			if err := tx.Set(ctx, string(KeyToken), token); err != nil {
				return err
			}
			return tx.Set(ctx, string(KeyUsername), username)
		})
	})
	if err != nil {
		return fmt.Errorf("session sign in: %w", err)
	}
	return nil
}

// Expire drops the token and username after the server rejected the token.
// The avatar is kept.
func (s *Store) Expire(ctx context.Context) error {
	return s.remove(ctx, KeyToken, KeyUsername)
}

// SignOut drops the token, username and avatar.
func (s *Store) SignOut(ctx context.Context) error {
	return s.remove(ctx, KeyToken, KeyUsername, KeyAvatar)
}

func (s *Store) remove(ctx context.Context, keys ...Key) error {
	changes := make([]Change, 0, len(keys))
	for _, k := range keys {
		changes = append(changes, Change{Key: k, Removed: true})
	}
	err := s.write(changes, func() error {
		return s.repo.Update(ctx, func(ctx context.Context, tx storage.Repository) error {
			for _, k := range keys {
				if err := tx.Delete(ctx, string(k)); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("session remove: %w", err)
	}
	return nil
}

// write applies fn and, when it succeeds, records changes in the watch
// snapshot and broadcasts them. Subscribers run after the lock is released.
func (s *Store) write(changes []Change, fn func() error) error {
	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.snapshot != nil {
		for _, c := range changes {
			if c.Removed {
				delete(s.snapshot, string(c.Key))
			} else {
				s.snapshot[string(c.Key)] = c.Value
			}
		}
	}
	s.mu.Unlock()

	s.broadcast(changes)
	return nil
}

func (s *Store) broadcast(changes []Change) {
	for _, c := range changes {
		s.changes.Publish(c)
		if c.Key == KeyAvatar {
			s.avatar.Publish(AvatarUpdated{URL: c.Value, External: c.External})
		}
	}
}
