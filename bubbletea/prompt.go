package bubbletea

import (
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/relay"
)

var _ tea.Model = Prompt{}

// promptMarker precedes the input line.
const promptMarker = "› "

type outcome int

const (
	editing outcome = iota
	submitted
	interrupted
	eof
)

// Prompt is a single-line input model with history recall.
type Prompt struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model

	styles  Styles
	history []string
	pos     int    // index into history; len(history) is the draft
	draft   string // what was typed before walking the history
	outcome outcome
}

// NewPrompt returns a focused Prompt. history holds earlier inputs, oldest
// first.
func NewPrompt(history []string, theme relay.Theme) Prompt {
	ti := textinput.New()
	ti.Placeholder = "Send a message (/help for commands)"
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	return Prompt{
		Input:   ti,
		styles:  NewStyles(theme),
		history: history,
		pos:     len(history),
	}
}

// Result returns the submitted line, io.EOF, or ErrInterrupted.
func (m Prompt) Result() (string, error) {
	switch m.outcome {
	case submitted:
		return m.Input.Value(), nil
	case interrupted:
		return "", ErrInterrupted
	default:
		return "", io.EOF
	}
}

// Init implements tea.Model.
func (m Prompt) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Prompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Input.Width = max(msg.Width-len([]rune(promptMarker))-1, 1)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.outcome = submitted
			m.Input.Blur()
			return m, tea.Quit
		case tea.KeyCtrlC:
			m.outcome = interrupted
			return m, tea.Quit
		case tea.KeyCtrlD:
			if m.Input.Value() == "" {
				m.outcome = eof
				return m, tea.Quit
			}
		case tea.KeyUp:
			return m.recall(m.pos - 1), nil
		case tea.KeyDown:
			return m.recall(m.pos + 1), nil
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// recall moves to history entry pos, saving the draft when leaving it.
func (m Prompt) recall(pos int) Prompt {
	if pos < 0 || pos > len(m.history) || pos == m.pos {
		return m
	}
	if m.pos == len(m.history) {
		m.draft = m.Input.Value()
	}
	m.pos = pos
	if pos == len(m.history) {
		m.Input.SetValue(m.draft)
	} else {
		m.Input.SetValue(m.history[pos])
	}
	m.Input.CursorEnd()
	return m
}

// View implements tea.Model. Once the line is submitted the prompt stays on
// screen without the cursor so the transcript shows what was sent.
func (m Prompt) View() string {
	marker := m.styles.UserMsg.Render(promptMarker)
	switch m.outcome {
	case submitted:
		return marker + m.Input.Value() + "\n"
	case editing:
		return marker + m.Input.View()
	default:
		return ""
	}
}
