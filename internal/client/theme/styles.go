package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/notekeeper/internal/client/notify"
)

// Styles are the terminal renderings of a State's tokens.
type Styles struct {
	Accent  lipgloss.Style
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Box     lipgloss.Style
}

type palette struct {
	text, muted, success, warning, danger lipgloss.Color
}

var (
	lightPalette = palette{text: "#1f1f1f", muted: "#8c8c8c", success: "#389e0d", warning: "#d48806", danger: "#cf1322"}
	darkPalette  = palette{text: "#e8e8e8", muted: "#8c8c8c", success: "#73d13d", warning: "#ffc53d", danger: "#ff4d4f"}
)

func (s State) Styles() Styles {
	p := lightPalette
	if s.IsDark {
		p = darkPalette
	}
	accent := lipgloss.Color(s.AccentColor)
	radius := lipgloss.NormalBorder()
	if s.Tokens().BorderRadius > 0 {
		radius = lipgloss.RoundedBorder()
	}

	return Styles{
		Accent:  lipgloss.NewStyle().Foreground(accent),
		Title:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(p.muted),
		Success: lipgloss.NewStyle().Foreground(p.success),
		Warning: lipgloss.NewStyle().Foreground(p.warning),
		Error:   lipgloss.NewStyle().Foreground(p.danger),
		Box:     lipgloss.NewStyle().Foreground(p.text).Border(radius).BorderForeground(accent).Padding(0, 1),
	}
}

// NotificationStyle implements notify.Palette.
func (s State) NotificationStyle(level notify.Level) lipgloss.Style {
	st := s.Styles()
	switch level {
	case notify.LevelSuccess:
		return st.Success
	case notify.LevelWarning:
		return st.Warning
	case notify.LevelError:
		return st.Error
	default:
		return st.Accent
	}
}

// Swatch renders a small block in color, for showing tag and accent colors.
func Swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("■")
}
