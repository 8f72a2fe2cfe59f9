package goldmark

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/relay"
)

// Transcript writes a saved session to w: a header line, then every turn.
// User turns are shown after a prompt marker; assistant turns are rendered
// as markdown.
func Transcript(w io.Writer, s relay.Session, width int, theme relay.Theme, opts ...Option) error {
	if width <= 0 {
		width = 80
	}
	o := newOptions(opts)
	r := newRenderer(theme, o)
	user := o.renderer.NewStyle().Foreground(ansiColor(theme.UserMsg)).Bold(true)

	var b strings.Builder
	b.WriteString(r.accent.Render(s.ID))
	b.WriteString(r.muted.Render(header(s)))
	b.WriteString("\n")

	for _, t := range s.Turns {
		b.WriteString("\n")
		switch t.Role {
		case relay.RoleUser:
			b.WriteString(user.Render("› "))
			b.WriteString(t.Content)
		default:
			if strings.TrimSpace(t.Content) == "" {
				b.WriteString(r.muted.Render("(no reply)"))
			} else {
				b.WriteString(r.render([]byte(t.Content), width))
			}
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func header(s relay.Session) string {
	var parts []string
	if s.Model != "" {
		parts = append(parts, s.Model)
	}
	if !s.CreatedAt.IsZero() {
		parts = append(parts, s.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	parts = append(parts,
		fmt.Sprintf("%d turns", len(s.Turns)),
		fmt.Sprintf("in %d · out %d tokens", s.Usage.InputTokens, s.Usage.OutputTokens),
	)
	return " · " + strings.Join(parts, " · ")
}
