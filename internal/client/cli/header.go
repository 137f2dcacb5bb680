package cli

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/notekeeper/internal/client/session"
	"github.com/dmitrijs2005/notekeeper/internal/client/theme"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

// HeaderSource is the part of the session store the header follows.
type HeaderSource interface {
	Get(ctx context.Context, key session.Key) (string, bool, error)
	OnChange(fn func(session.Change)) (unsubscribe func())
	OnAvatarUpdated(fn func(session.AvatarUpdated)) (unsubscribe func())
}

// Header is the shell's status line. It keeps its own copy of the username
// and avatar and refreshes them from store broadcasts.
type Header struct {
	mu       sync.RWMutex
	username string
	avatar   string

	unsubs []func()
	once   sync.Once
}

func NewHeader(ctx context.Context, src HeaderSource, log logging.Logger) *Header {
	h := &Header{}
	if v, _, err := src.Get(ctx, session.KeyUsername); err == nil {
		h.username = v
	} else {
		log.Warn(ctx, "header: read username", "error", err)
	}
	if v, _, err := src.Get(ctx, session.KeyAvatar); err == nil {
		h.avatar = v
	} else {
		log.Warn(ctx, "header: read avatar", "error", err)
	}

	h.unsubs = append(h.unsubs,
		src.OnAvatarUpdated(func(e session.AvatarUpdated) {
			h.mu.Lock()
			h.avatar = e.URL
			h.mu.Unlock()
		}),
		src.OnChange(func(ch session.Change) {
			if ch.Key != session.KeyUsername {
				return
			}
			h.mu.Lock()
			h.username = ch.Value
			if ch.Removed {
				h.username = ""
			}
			h.mu.Unlock()
		}),
	)
	return h
}

func (h *Header) Username() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.username
}

func (h *Header) Avatar() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.avatar
}

// Render draws the avatar marker, the username and the theme marker.
func (h *Header) Render(state theme.State) string {
	st := state.Styles()
	username, avatar := h.Username(), h.Avatar()

	marker := st.Muted.Render("○")
	if avatar != "" {
		marker = st.Accent.Render("●")
	}
	name := st.Muted.Render("guest")
	if username != "" {
		name = st.Title.Render(username)
	}
	mode := "☀"
	if state.IsDark {
		mode = "☾"
	}
	return marker + " " + name + " " + st.Muted.Render(mode)
}

func (h *Header) Close() {
	h.once.Do(func() {
		for _, u := range h.unsubs {
			u()
		}
	})
}
