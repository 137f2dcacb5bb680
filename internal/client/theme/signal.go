package theme

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/events"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/muesli/termenv"
)

// DarkSignal reports whether the OS currently prefers a dark appearance and
// notifies subscribers when that changes.
type DarkSignal interface {
	IsDark() bool
	Subscribe(fn func(dark bool)) (unsubscribe func())
}

// StaticSignal is a DarkSignal whose value is set explicitly.
type StaticSignal struct {
	mu   sync.RWMutex
	dark bool
	bus  events.Bus[bool]
}

func NewStaticSignal(dark bool) *StaticSignal {
	return &StaticSignal{dark: dark}
}

func (s *StaticSignal) IsDark() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dark
}

// Set changes the value and notifies subscribers if it differs.
func (s *StaticSignal) Set(dark bool) {
	s.mu.Lock()
	if s.dark == dark {
		s.mu.Unlock()
		return
	}
	s.dark = dark
	s.mu.Unlock()
	s.bus.Publish(dark)
}

func (s *StaticSignal) Subscribe(fn func(bool)) func() {
	return s.bus.Subscribe(fn)
}

// Probe asks the OS for its appearance. ok is false when the platform gives
// no answer.
type Probe func(ctx context.Context) (dark bool, ok bool)

// SystemSignal polls the OS appearance setting.
type SystemSignal struct {
	StaticSignal
}

// NewSystemSignal samples probe immediately and then every interval until ctx
// is done. When the first sample gives no answer the terminal background is
// used instead, and polling still continues in case the OS starts answering.
// A nil probe selects the one for the current platform.
func NewSystemSignal(ctx context.Context, probe Probe, interval time.Duration, log logging.Logger) *SystemSignal {
	if probe == nil {
		probe = platformProbe()
	}
	dark, ok := probe(ctx)
	if !ok {
		dark = terminalIsDark()
		log.Debug(ctx, "no OS appearance signal, using terminal background", "dark", dark)
	}
	s := &SystemSignal{StaticSignal: StaticSignal{dark: dark}}

	if interval > 0 {
		go s.poll(ctx, probe, interval)
	}
	return s
}

func (s *SystemSignal) poll(ctx context.Context, probe Probe, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dark, ok := probe(ctx); ok {
				s.Set(dark)
			}
		}
	}
}

// terminalIsDark is a test seam.
var terminalIsDark = func() bool {
	return termenv.NewOutput(os.Stdout).HasDarkBackground()
}

func platformProbe() Probe {
	switch runtime.GOOS {
	case "darwin":
		return macOSProbe
	case "linux":
		return gnomeProbe
	default:
		return func(context.Context) (bool, bool) { return false, false }
	}
}

// runCommand is a test seam for exec.
var runCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, name, args...).Output()
}

// macOSProbe reads AppleInterfaceStyle, which only exists in dark mode.
func macOSProbe(ctx context.Context) (bool, bool) {
	out, err := runCommand(ctx, "defaults", "read", "-g", "AppleInterfaceStyle")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, true
		}
		return false, false
	}
	return bytes.Contains(bytes.ToLower(out), []byte("dark")), true
}

// gnomeProbe reads the freedesktop colour-scheme preference.
func gnomeProbe(ctx context.Context) (bool, bool) {
	out, err := runCommand(ctx, "gsettings", "get", "org.gnome.desktop.interface", "color-scheme")
	if err != nil {
		return false, false
	}
	out = bytes.Trim(bytes.TrimSpace(out), "'")
	switch string(out) {
	case "prefer-dark":
		return true, true
	case "default", "prefer-light":
		return false, true
	default:
		return false, false
	}
}
