package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize strips ANSI escape sequences and control characters from one line
// of model output so it cannot drive the terminal. Tabs survive. A trailing
// CR (from CRLF line endings) is dropped, and a lone CR overwrites from the
// start of the line the way a terminal would.
func Sanitize(line string) string {
	line = ansi.Strip(line)
	line = strings.TrimSuffix(line, "\r")

	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		if r == '\t' || r == '\r' || (r > 0x1F && r != 0x7F) {
			b.WriteRune(r)
		}
	}
	line = b.String()
	if strings.ContainsRune(line, '\r') {
		line = resolveCarriageReturns(line)
	}
	return line
}

// resolveCarriageReturns simulates terminal CR behavior within a single line.
// Each \r resets the write position to 0; subsequent characters overwrite.
func resolveCarriageReturns(line string) string {
	segments := strings.Split(line, "\r")
	buf := []rune(segments[0])
	for _, seg := range segments[1:] {
		for j, r := range []rune(seg) {
			if j < len(buf) {
				buf[j] = r
			} else {
				buf = append(buf, r)
			}
		}
	}
	return string(buf)
}
