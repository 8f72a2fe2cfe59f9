// Package goldmark renders complete markdown documents and saved sessions to
// ANSI-styled terminal output using goldmark for parsing and lipgloss for
// styling.
package goldmark

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/relay"
)

// Option configures rendering.
type Option func(*options)

type options struct {
	code     relay.CodeFormatter
	renderer *lipgloss.Renderer
}

// WithCodeFormatter highlights fenced code blocks with f.
func WithCodeFormatter(f relay.CodeFormatter) Option {
	return func(o *options) {
		o.code = f
	}
}

// WithRenderer sets the lipgloss renderer styles are created with.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

func newOptions(opts []Option) options {
	o := options{renderer: lipgloss.DefaultRenderer()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width. Code blocks are
// rendered at full width without reflow.
func Render(source string, width int, theme relay.Theme, opts ...Option) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme, newOptions(opts))
	return r.render([]byte(source), width)
}
