package relay

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme. A negative index means no color.
type Theme struct {
	UserMsg    int // User prompt accent
	Heading    int // Level 1 headings
	Subheading int // Level 2 headings
	Minor      int // Levels 3-6
	InlineCode int // Inline code spans
	Bullet     int // Normalized bullet glyph
	Error      int // Diagnostics
	Muted      int // Usage line, labels, placeholders
	CodeBg     int // Inline code background
	Accent     int // Links, session ids
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:    4,
		Heading:    5,
		Subheading: 6,
		Minor:      4,
		InlineCode: 3,
		Bullet:     6,
		Error:      1,
		Muted:      8,
		CodeBg:     0,
		Accent:     5,
	}
}
