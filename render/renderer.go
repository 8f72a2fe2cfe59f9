package render

import (
	"io"
	"strings"

	"github.com/fwojciec/relay"
)

// State is a snapshot of a [Renderer]'s per-turn state.
type State struct {
	Pending  string      // unterminated tail since the last newline
	Mode     Mode        // prose or inside a code block
	Code     string      // raw lines buffered for the open block
	Language string      // tag of the open block
	Text     string      // the complete reply so far, unmodified
	Usage    relay.Usage // latest token accounting
	Skipped  int         // records the decoder could not parse
	Done     bool        // the server signalled the end of the reply
}

// Renderer writes one assistant turn to a terminal as it streams in. Prose
// lines are written as soon as their newline arrives; code blocks are held
// until their closing fence so the highlighter sees the whole block.
// A Renderer must not be reused across turns.
type Renderer struct {
	w     io.Writer
	code  relay.CodeFormatter
	prose relay.ProseFormatter

	seg   Segmenter
	fence Fence

	text    strings.Builder
	usage   relay.Usage
	skipped int
	done    bool
}

// New returns a Renderer writing to w. Nil formatters fall back to the
// plain formatters, which leave text unchanged.
func New(w io.Writer, code relay.CodeFormatter, prose relay.ProseFormatter) *Renderer {
	if code == nil {
		code = PlainCode{}
	}
	if prose == nil {
		prose = PlainProse{}
	}
	return &Renderer{w: w, code: code, prose: prose}
}

// Apply consumes one decoded event.
func (r *Renderer) Apply(evt relay.Event) error {
	switch e := evt.(type) {
	case relay.EventTextDelta:
		return r.Write(e.Delta)
	case relay.EventUsage:
		r.usage = r.usage.Merge(e.Usage)
	case relay.EventSkipped:
		r.skipped++
	case relay.EventDone:
		r.done = true
	}
	return nil
}

// Write consumes a text delta and writes any output it completes.
func (r *Renderer) Write(delta string) error {
	r.text.WriteString(delta)
	for _, line := range r.seg.Push(delta) {
		if err := r.dispatch(line); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes whatever the stream left unfinished. In prose mode a final
// line without a newline goes to the prose formatter, even if it looks like
// an opening fence. In code mode it is dispatched like any other line, so a
// closing fence at the very end still closes its block. A block that never
// closed is written raw.
func (r *Renderer) Flush() error {
	pending := r.seg.Take()
	if pending != "" && r.fence.Mode() == ModeProse {
		return r.emit(r.prose.FormatLine(Sanitize(pending)) + "\n")
	}
	if pending != "" {
		if err := r.dispatch(pending); err != nil {
			return err
		}
	}
	if r.fence.Mode() == ModeCode {
		if raw := r.fence.Drain(); raw != "" {
			return r.emit(raw)
		}
	}
	return nil
}

// Text returns the complete reply received so far.
func (r *Renderer) Text() string {
	return r.text.String()
}

// State returns a snapshot of the per-turn state.
func (r *Renderer) State() State {
	return State{
		Pending:  r.seg.Pending(),
		Mode:     r.fence.Mode(),
		Code:     r.fence.Buffered(),
		Language: r.fence.Language(),
		Text:     r.text.String(),
		Usage:    r.usage,
		Skipped:  r.skipped,
		Done:     r.done,
	}
}

func (r *Renderer) dispatch(line string) error {
	step := r.fence.Step(Sanitize(line))
	switch step.Kind {
	case StepProse:
		return r.emit(r.prose.FormatLine(step.Text) + "\n")
	case StepClose:
		return r.emit(r.code.FormatCode(step.Text, step.Language) + "\n")
	default:
		return nil
	}
}

func (r *Renderer) emit(s string) error {
	_, err := io.WriteString(r.w, s)
	return err
}

// PlainCode is a [relay.CodeFormatter] that returns code unchanged.
type PlainCode struct{}

// FormatCode returns code.
func (PlainCode) FormatCode(code, _ string) string { return code }

// PlainProse is a [relay.ProseFormatter] that returns lines unchanged.
type PlainProse struct{}

// FormatLine returns line.
func (PlainProse) FormatLine(line string) string { return line }

// Interface compliance checks.
var (
	_ relay.CodeFormatter  = PlainCode{}
	_ relay.ProseFormatter = PlainProse{}
)
