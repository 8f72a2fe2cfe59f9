package relay

// CodeFormatter highlights a complete code block. Implementations must not
// fail: on any internal error they return code unchanged.
type CodeFormatter interface {
	FormatCode(code, language string) string
}

// ProseFormatter styles a single line of prose. It sees one line at a time
// and keeps no state between calls.
type ProseFormatter interface {
	FormatLine(line string) string
}
