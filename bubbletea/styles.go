package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/relay"
)

// Styles maps a Theme to lipgloss styles for the prompt and the REPL's own
// messages.
type Styles struct {
	UserMsg lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
}

// NewStyles creates Styles from a Theme using the default renderer.
func NewStyles(t relay.Theme) Styles {
	return NewStylesWithRenderer(lipgloss.DefaultRenderer(), t)
}

// NewStylesWithRenderer creates Styles from a Theme using r.
func NewStylesWithRenderer(r *lipgloss.Renderer, t relay.Theme) Styles {
	return Styles{
		UserMsg: r.NewStyle().Foreground(ansiColor(t.UserMsg)).Bold(true),
		Error:   r.NewStyle().Foreground(ansiColor(t.Error)),
		Muted:   r.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:  r.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
