// Package render turns a stream of text deltas into formatted terminal output
// as early as the output is known.
//
// Text is split into lines by a [Segmenter]. Each completed line goes through
// a [Fence], a two-state machine that decides whether the line is prose (emit
// now), the start or end of a fenced code block, or code to hold back until
// the block closes. A [Renderer] drives both for exactly one assistant turn.
package render

// Mode is the state of a [Fence].
type Mode int

const (
	ModeProse Mode = iota // Outside any code block.
	ModeCode              // Between an opening and a closing fence.
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeProse:
		return "prose"
	case ModeCode:
		return "code"
	default:
		return "unknown"
	}
}

// fenceMarker opens and closes code blocks.
const fenceMarker = "```"
