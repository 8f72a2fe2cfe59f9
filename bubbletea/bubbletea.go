// Package bubbletea reads user input with a small inline Bubble Tea program.
// The program takes over only the prompt line; replies are written to the
// terminal by the caller between prompts.
package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/relay"
)

// ErrInterrupted is returned by [ReadLine] when the user presses Ctrl+C.
var ErrInterrupted = errors.New("interrupted")

// ReadLine shows a prompt on out, reads keys from in and returns the
// submitted line. history holds earlier inputs, oldest first. It returns
// io.EOF when the user presses Ctrl+D on an empty line and ErrInterrupted
// on Ctrl+C.
func ReadLine(ctx context.Context, in io.Reader, out io.Writer, history []string, theme relay.Theme) (string, error) {
	p := tea.NewProgram(NewPrompt(history, theme),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("prompt: %w", err)
	}
	m, ok := final.(Prompt)
	if !ok {
		return "", fmt.Errorf("prompt: unexpected model %T", final)
	}
	return m.Result()
}
