// Package theme owns the light/dark preference and the accent colour.
//
// In system mode the resolved darkness follows the OS appearance signal for
// as long as the controller lives; in light or dark mode the signal is
// ignored. Every change is persisted first and then pushed to subscribers.
package theme

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type Mode string

const (
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
	ModeSystem Mode = "system"
)

// DefaultAccentColor is used until the user picks another one.
const DefaultAccentColor = "#1890ff"

var (
	ErrInvalidMode  = errors.New("invalid theme mode")
	ErrInvalidColor = errors.New("invalid accent color")
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeLight, ModeDark, ModeSystem:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-f]{3}|[0-9a-f]{6})$`)

// NormalizeColor lower-cases a #rgb or #rrggbb colour and rejects anything
// else.
func NormalizeColor(s string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(s))
	if !hexColor.MatchString(c) {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c, nil
}

// State is the resolved preference handed to subscribers.
type State struct {
	Mode        Mode
	IsDark      bool
	AccentColor string
}

type Algorithm string

const (
	AlgorithmDefault Algorithm = "default"
	AlgorithmDark    Algorithm = "dark"
)

// Tokens are the design tokens derived from a State.
type Tokens struct {
	Algorithm    Algorithm
	ColorPrimary string
	BorderRadius int
}

func (s State) Tokens() Tokens {
	algo := AlgorithmDefault
	if s.IsDark {
		algo = AlgorithmDark
	}
	return Tokens{Algorithm: algo, ColorPrimary: s.AccentColor, BorderRadius: 6}
}
