// Package markdown styles single lines of streamed prose for the terminal.
//
// Unlike the goldmark package, which parses whole documents, the formatter
// here sees one line at a time and never looks back or ahead. It applies a
// fixed sequence of regular-expression substitutions, each over the output of
// the one before. This is an approximation of markdown, not a parser:
// adversarial input (asterisks inside inline code, say) may be styled twice.
package markdown

import (
	"regexp"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/relay"
)

var (
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	boldRe       = regexp.MustCompile(`\*\*([^*\s][^*]*)\*\*`)
	italicRe     = regexp.MustCompile(`\*([^*\s][^*]*)\*`)
	headingRe    = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	bulletRe     = regexp.MustCompile(`^(\s*)[-*+]\s+`)
)

// Formatter implements [relay.ProseFormatter].
type Formatter struct {
	code   lipgloss.Style
	bold   lipgloss.Style
	italic lipgloss.Style
	h1     lipgloss.Style
	h2     lipgloss.Style
	minor  lipgloss.Style
	bullet string
}

// Option configures a Formatter.
type Option func(*options)

type options struct {
	renderer *lipgloss.Renderer
}

// WithRenderer sets the lipgloss renderer styles are created with. Tests use
// it to pin the color profile.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// New returns a Formatter styled from theme.
func New(theme relay.Theme, opts ...Option) *Formatter {
	o := options{renderer: lipgloss.DefaultRenderer()}
	for _, opt := range opts {
		opt(&o)
	}
	r := o.renderer
	return &Formatter{
		code:   r.NewStyle().Foreground(ansiColor(theme.InlineCode)).Background(ansiColor(theme.CodeBg)),
		bold:   r.NewStyle().Bold(true),
		italic: r.NewStyle().Italic(true),
		h1:     r.NewStyle().Foreground(ansiColor(theme.Heading)).Bold(true).Underline(true),
		h2:     r.NewStyle().Foreground(ansiColor(theme.Subheading)).Bold(true),
		minor:  r.NewStyle().Foreground(ansiColor(theme.Minor)),
		bullet: r.NewStyle().Foreground(ansiColor(theme.Bullet)).Render("•"),
	}
}

// FormatLine styles one line of prose. Lines without markup come back
// unchanged.
func (f *Formatter) FormatLine(line string) string {
	line = replaceSpans(inlineCodeRe, line, f.code)
	line = replaceSpans(boldRe, line, f.bold)
	line = replaceSpans(italicRe, line, f.italic)
	// Heading text may already hold styled spans. Their reset sequences end
	// the heading style early, so text after a span loses the heading color.
	if m := headingRe.FindStringSubmatch(line); m != nil {
		return f.heading(len(m[1])).Render(m[2])
	}
	return bulletRe.ReplaceAllString(line, "${1}"+f.bullet+" ")
}

func (f *Formatter) heading(level int) lipgloss.Style {
	switch level {
	case 1:
		return f.h1
	case 2:
		return f.h2
	default:
		return f.minor
	}
}

// replaceSpans renders the first capture group of every match with style.
func replaceSpans(re *regexp.Regexp, line string, style lipgloss.Style) string {
	return re.ReplaceAllStringFunc(line, func(match string) string {
		return style.Render(re.FindStringSubmatch(match)[1])
	})
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

// Interface compliance check.
var _ relay.ProseFormatter = (*Formatter)(nil)
