// Package chroma implements relay.CodeFormatter with the chroma syntax
// highlighter.
package chroma

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/fwojciec/relay"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "monokai"

// aliases maps fence tags chroma has no lexer for, or picks a poor lexer for,
// to one that highlights the content sensibly.
var aliases = map[string]string{
	"conf":       "ini",
	"cfg":        "ini",
	"properties": "ini",
	"env":        "bash",
	"dotenv":     "bash",
	"jsonc":      "json",
	"tsx":        "typescript",
	"jsx":        "javascript",
	"sh":         "bash",
	"zsh":        "bash",
	"shell":      "bash",
	"console":    "bash",
	"txt":        "plaintext",
}

// Highlighter implements [relay.CodeFormatter].
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithStyle selects a chroma style by name. Unknown names use chroma's
// fallback style.
func WithStyle(name string) Option {
	return func(h *Highlighter) {
		h.style = styles.Get(name)
	}
}

// WithFormatter replaces the terminal formatter.
func WithFormatter(f chroma.Formatter) Option {
	return func(h *Highlighter) {
		h.formatter = f
	}
}

// New returns a Highlighter that writes 256-color terminal output.
func New(opts ...Option) *Highlighter {
	h := &Highlighter{
		style:     styles.Get(DefaultStyle),
		formatter: formatters.TTY256,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// FormatCode highlights code as language. On any failure, including a panic
// inside a lexer or formatter, it returns code unchanged.
func (h *Highlighter) FormatCode(code, language string) (out string) {
	defer func() {
		if recover() != nil {
			out = code
		}
	}()

	it, err := Lexer(language).Tokenise(nil, code)
	if err != nil {
		return code
	}
	tokens := it.Tokens()
	if !strings.HasSuffix(code, "\n") {
		tokens = trimNewline(tokens)
	}

	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, chroma.Literator(tokens...)); err != nil {
		return code
	}
	return b.String()
}

// Lexer returns the lexer for a fence tag. Only the first word of the tag
// counts, aliases are resolved, and unknown tags get the plain-text lexer.
func Lexer(language string) chroma.Lexer {
	name := ""
	if fields := strings.Fields(strings.ToLower(language)); len(fields) > 0 {
		name = fields[0]
	}
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	lexer := lexers.Get(name)
	if name == "" || lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// trimNewline drops the newline most lexers append to their input.
func trimNewline(tokens []chroma.Token) []chroma.Token {
	n := len(tokens)
	if n == 0 {
		return tokens
	}
	last := &tokens[n-1]
	last.Value = strings.TrimSuffix(last.Value, "\n")
	if last.Value == "" {
		return tokens[:n-1]
	}
	return tokens
}

// Interface compliance check.
var _ relay.CodeFormatter = (*Highlighter)(nil)
