package theme

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/notekeeper/internal/client/events"
	"github.com/dmitrijs2005/notekeeper/internal/client/notify"
	"github.com/dmitrijs2005/notekeeper/internal/client/session"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

// PreferenceStore is the part of the session store the controller uses.
type PreferenceStore interface {
	Get(ctx context.Context, key session.Key) (string, bool, error)
	Set(ctx context.Context, key session.Key, value string) error
	OnChange(fn func(session.Change)) (unsubscribe func())
}

type Controller struct {
	store  PreferenceStore
	signal DarkSignal
	log    logging.Logger

	// opMu serialises mutations; mu guards state.
	opMu  sync.Mutex
	mu    sync.RWMutex
	state State

	subs     events.Bus[State]
	unsubs   []func()
	closeOne sync.Once
}

// New loads the persisted preference, falling back to system mode and the
// default accent, and starts following signal and external store writes.
func New(ctx context.Context, store PreferenceStore, signal DarkSignal, log logging.Logger) (*Controller, error) {
	c := &Controller{store: store, signal: signal, log: log}

	mode := ModeSystem
	raw, ok, err := store.Get(ctx, session.KeyThemeMode)
	if err != nil {
		return nil, fmt.Errorf("load theme mode: %w", err)
	}
	if ok {
		if m, err := ParseMode(raw); err == nil {
			mode = m
		} else {
			log.Warn(ctx, "ignoring stored theme mode", "value", raw)
		}
	}

	accent := DefaultAccentColor
	raw, ok, err = store.Get(ctx, session.KeyPrimaryColor)
	if err != nil {
		return nil, fmt.Errorf("load accent color: %w", err)
	}
	if ok {
		if color, err := NormalizeColor(raw); err == nil {
			accent = color
		} else {
			log.Warn(ctx, "ignoring stored accent color", "value", raw)
		}
	}

	c.state = State{Mode: mode, IsDark: c.resolve(mode), AccentColor: accent}
	c.unsubs = append(c.unsubs,
		signal.Subscribe(c.onSignal),
		store.OnChange(func(ch session.Change) { c.onStoreChange(ctx, ch) }),
	)
	return c, nil
}

// Close stops following the OS signal and the store.
func (c *Controller) Close() {
	c.closeOne.Do(func() {
		for _, u := range c.unsubs {
			u()
		}
	})
}

func (c *Controller) resolve(mode Mode) bool {
	switch mode {
	case ModeDark:
		return true
	case ModeLight:
		return false
	default:
		return c.signal.IsDark()
	}
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) Tokens() Tokens {
	return c.State().Tokens()
}

func (c *Controller) Styles() Styles {
	return c.State().Styles()
}

// NotificationStyle implements notify.Palette with the current state.
func (c *Controller) NotificationStyle(level notify.Level) lipgloss.Style {
	return c.State().NotificationStyle(level)
}

// Subscribe registers fn for state changes. fn runs synchronously inside the
// mutating call, after the new value has been persisted.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	return c.subs.Subscribe(fn)
}

// SetMode persists mode and applies it. Light and dark are literal; system
// resolves from the OS signal now and on every later change.
func (c *Controller) SetMode(ctx context.Context, mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.store.Set(ctx, session.KeyThemeMode, string(mode)); err != nil {
		return fmt.Errorf("save theme mode: %w", err)
	}
	c.update(func(s *State) {
		s.Mode = mode
		s.IsDark = c.resolve(mode)
	})
	return nil
}

// Toggle switches to light when currently dark, otherwise to dark.
func (c *Controller) Toggle(ctx context.Context) error {
	if c.State().IsDark {
		return c.SetMode(ctx, ModeLight)
	}
	return c.SetMode(ctx, ModeDark)
}

// ChangeAccentColor persists a #rgb or #rrggbb colour.
func (c *Controller) ChangeAccentColor(ctx context.Context, color string) error {
	normalized, err := NormalizeColor(color)
	if err != nil {
		return err
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.store.Set(ctx, session.KeyPrimaryColor, normalized); err != nil {
		return fmt.Errorf("save accent color: %w", err)
	}
	c.update(func(s *State) { s.AccentColor = normalized })
	return nil
}

// update applies fn and notifies subscribers if the state changed.
func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	before := c.state
	fn(&c.state)
	after := c.state
	c.mu.Unlock()

	if after != before {
		c.subs.Publish(after)
	}
}

func (c *Controller) onSignal(dark bool) {
	c.update(func(s *State) {
		if s.Mode == ModeSystem {
			s.IsDark = dark
		}
	})
}

// onStoreChange applies preference writes made by another process. Local
// writes were already applied by the mutating call.
func (c *Controller) onStoreChange(ctx context.Context, ch session.Change) {
	if !ch.External {
		return
	}

	switch ch.Key {
	case session.KeyThemeMode:
		mode := ModeSystem
		if !ch.Removed {
			m, err := ParseMode(ch.Value)
			if err != nil {
				c.log.Warn(ctx, "ignoring external theme mode", "value", ch.Value)
				return
			}
			mode = m
		}
		c.update(func(s *State) {
			s.Mode = mode
			s.IsDark = c.resolve(mode)
		})

	case session.KeyPrimaryColor:
		color := DefaultAccentColor
		if !ch.Removed {
			normalized, err := NormalizeColor(ch.Value)
			if err != nil {
				c.log.Warn(ctx, "ignoring external accent color", "value", ch.Value)
				return
			}
			color = normalized
		}
		c.update(func(s *State) { s.AccentColor = color })
	}
}
