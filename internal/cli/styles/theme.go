// Package styles renders CLI output with lipgloss.
package styles

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the colors and styles used by the CLI.
type Theme struct {
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Border  lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color

	Title        lipgloss.Style
	Subtle       lipgloss.Style
	Highlight    lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	SuccessStyle lipgloss.Style
	Header       lipgloss.Style
	Cell         lipgloss.Style
	ActiveCell   lipgloss.Style

	renderer *lipgloss.Renderer
}

// NewTheme creates the dark theme bound to w, so color is only emitted
// when w is a terminal.
func NewTheme(w io.Writer) *Theme {
	t := &Theme{
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#909090"),
		Accent:   lipgloss.Color("#4ade80"),
		Border:   lipgloss.Color("#333333"),
		Error:    lipgloss.Color("#ef4444"),
		Warning:  lipgloss.Color("#f59e0b"),
		renderer: lipgloss.NewRenderer(w),
	}
	t.buildStyles()
	return t
}

func (t *Theme) buildStyles() {
	r := t.renderer

	t.Title = r.NewStyle().Foreground(t.Text).Bold(true)
	t.Subtle = r.NewStyle().Foreground(t.Muted)
	t.Highlight = r.NewStyle().Foreground(t.Accent).Bold(true)
	t.ErrorStyle = r.NewStyle().Foreground(t.Error)
	t.WarningStyle = r.NewStyle().Foreground(t.Warning)
	t.SuccessStyle = r.NewStyle().Foreground(t.Accent)

	t.Header = r.NewStyle().Foreground(t.Accent).Bold(true).Padding(0, 1)
	t.Cell = r.NewStyle().Foreground(t.Text).Padding(0, 1)
	t.ActiveCell = t.Cell.Foreground(t.Accent).Bold(true)
}

// Renderer returns the renderer the theme's styles are bound to.
func (t *Theme) Renderer() *lipgloss.Renderer {
	return t.renderer
}
