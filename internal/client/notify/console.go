package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Palette supplies the styles used for each level. The theme controller
// implements it, so messages follow the current light/dark mode.
type Palette interface {
	NotificationStyle(level Level) lipgloss.Style
}

// Console writes one styled line per notification.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	palette Palette
}

func NewConsole(w io.Writer, palette Palette) *Console {
	return &Console{w: w, palette: palette}
}

var symbols = map[Level]string{
	LevelInfo:    "i",
	LevelSuccess: "✓",
	LevelWarning: "!",
	LevelError:   "✗",
}

func (c *Console) Notify(_ context.Context, n Notification) {
	line := fmt.Sprintf("%s %s", symbols[n.Level], n.Message)
	if c.palette != nil {
		line = c.palette.NotificationStyle(n.Level).Render(line)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, line)
}
