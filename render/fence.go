package render

import "strings"

// StepKind says what a [Fence] did with a line.
type StepKind int

const (
	StepProse  StepKind = iota // Line is prose; Step.Text holds it.
	StepOpen                   // Line opened a block; Step.Language holds the tag.
	StepBuffer                 // Line was added to the open block.
	StepClose                  // Line closed a block; Step.Text holds the code.
)

// Step is the outcome of feeding one completed line to a [Fence].
type Step struct {
	Kind     StepKind
	Text     string
	Language string
}

// Fence tracks whether completed lines are prose or part of a fenced code
// block. The zero value starts in [ModeProse].
//
// The code buffer is non-empty only in [ModeCode] and is reset whenever a
// block opens or closes.
type Fence struct {
	mode     Mode
	language string
	code     strings.Builder
}

// Step consumes one completed line.
func (f *Fence) Step(line string) Step {
	trimmed := strings.TrimSpace(line)
	switch f.mode {
	case ModeCode:
		if trimmed == fenceMarker {
			step := Step{Kind: StepClose, Text: f.block(), Language: f.language}
			f.reset(ModeProse)
			return step
		}
		f.code.WriteString(line)
		f.code.WriteByte('\n')
		return Step{Kind: StepBuffer}
	default:
		if lang, ok := strings.CutPrefix(trimmed, fenceMarker); ok {
			f.reset(ModeCode)
			f.language = strings.TrimSpace(lang)
			return Step{Kind: StepOpen, Language: f.language}
		}
		return Step{Kind: StepProse, Text: line}
	}
}

// Mode returns the current mode.
func (f *Fence) Mode() Mode { return f.mode }

// Language returns the tag of the open block, if any.
func (f *Fence) Language() string { return f.language }

// Buffered returns the raw lines of the open block, each newline-terminated.
func (f *Fence) Buffered() string { return f.code.String() }

// Drain returns the raw lines of an unterminated block and returns the
// fence to [ModeProse].
func (f *Fence) Drain() string {
	raw := f.code.String()
	f.reset(ModeProse)
	return raw
}

// block returns the buffered lines joined by newlines.
func (f *Fence) block() string {
	return strings.TrimSuffix(f.code.String(), "\n")
}

func (f *Fence) reset(m Mode) {
	f.mode = m
	f.language = ""
	f.code.Reset()
}
