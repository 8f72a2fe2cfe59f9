package render

import "strings"

// Segmenter accumulates text deltas into completed lines. A trailing partial
// line is carried over to the next Push. The zero value is ready to use.
type Segmenter struct {
	pending strings.Builder
}

// Push appends text and returns every line it completed, without their
// newline characters, in order.
func (s *Segmenter) Push(text string) []string {
	var lines []string
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			s.pending.WriteString(text)
			return lines
		}
		s.pending.WriteString(text[:i])
		lines = append(lines, s.pending.String())
		s.pending.Reset()
		text = text[i+1:]
	}
}

// Pending returns the unterminated tail. It never contains a newline.
func (s *Segmenter) Pending() string {
	return s.pending.String()
}

// Take returns the unterminated tail and clears it.
func (s *Segmenter) Take() string {
	p := s.pending.String()
	s.pending.Reset()
	return p
}
