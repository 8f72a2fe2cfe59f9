package mock

import "github.com/fwojciec/relay"

// Interface compliance checks.
var (
	_ relay.CodeFormatter  = (*CodeFormatter)(nil)
	_ relay.ProseFormatter = (*ProseFormatter)(nil)
)

// CodeFormatter is a test double for relay.CodeFormatter.
// Set FormatCodeFn before calling FormatCode.
type CodeFormatter struct {
	FormatCodeFn func(code, language string) string
}

// FormatCode delegates to FormatCodeFn.
func (f *CodeFormatter) FormatCode(code, language string) string {
	return f.FormatCodeFn(code, language)
}

// ProseFormatter is a test double for relay.ProseFormatter.
// Set FormatLineFn before calling FormatLine.
type ProseFormatter struct {
	FormatLineFn func(line string) string
}

// FormatLine delegates to FormatLineFn.
func (f *ProseFormatter) FormatLine(line string) string {
	return f.FormatLineFn(line)
}
