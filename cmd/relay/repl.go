package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/relay"
	bt "github.com/fwojciec/relay/bubbletea"
	"github.com/fwojciec/relay/chat"
)

// lineReader returns the next line of user input. history holds earlier
// inputs, oldest first.
type lineReader func(ctx context.Context, history []string) (string, error)

// lineReader picks the Bubble Tea prompt for terminals and plain line
// scanning otherwise.
func (a *app) lineReader() lineReader {
	if isTerminal(a.stdin) && isTerminal(a.stdout) {
		return func(ctx context.Context, history []string) (string, error) {
			return bt.ReadLine(ctx, a.stdin, a.stdout, history, a.theme)
		}
	}
	return scanLines(a.stdin)
}

func scanLines(r io.Reader) lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return func(ctx context.Context, _ []string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return sc.Text(), nil
	}
}

// repl is one interactive session.
type repl struct {
	app    *app
	loop   *chat.Loop
	file   *sessionFile
	read   lineReader
	styles bt.Styles
}

func (a *app) runREPL(ctx context.Context) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	file, resumed, err := a.openSession(store)
	if err != nil {
		return err
	}
	loop, err := a.newLoop(isTerminal(a.stdout))
	if err != nil {
		return err
	}
	r := &repl{
		app:    a,
		loop:   loop,
		file:   file,
		read:   a.lineReader(),
		styles: bt.NewStyles(a.theme),
	}
	if resumed {
		r.muted("resumed %s · %d turns", file.session.ID, len(file.session.Turns))
	}
	return r.run(ctx)
}

func (r *repl) run(ctx context.Context) error {
	for {
		line, err := r.read(ctx, r.file.session.UserInputs())
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, bt.ErrInterrupted), ctx.Err() != nil:
			return r.exit()
		case err != nil:
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if r.command(line) {
				return r.exit()
			}
			continue
		}

		r.turn(ctx, line)
		if ctx.Err() != nil {
			return r.exit()
		}
	}
}

// turn runs one exchange and saves the session whatever the outcome.
func (r *repl) turn(ctx context.Context, input string) {
	res, err := r.loop.Turn(ctx, &r.file.session, input, r.app.stdout)
	if err != nil {
		fmt.Fprintln(r.app.stdout)
		if ctx.Err() == nil {
			r.printErr(err)
		}
	} else {
		if !strings.HasSuffix(res.Text, "\n") {
			fmt.Fprintln(r.app.stdout)
		}
		r.muted("%s", usageLine(res.Usage))
	}
	if err := r.file.save(); err != nil {
		r.printErr(err)
	}
}

// command handles a slash command and reports whether to quit.
func (r *repl) command(line string) bool {
	name, _, _ := strings.Cut(line, " ")
	switch name {
	case "/exit", "/quit":
		return true
	case "/clear":
		if err := r.file.save(); err != nil {
			r.printErr(err)
		}
		r.file = &sessionFile{session: r.app.newSession(), store: r.file.store}
		r.muted("new session %s", r.file.session.ID)
	case "/usage":
		u := r.file.session.Usage
		r.muted("%s · %d total", usageLine(u), u.Total())
	case "/save":
		if len(r.file.session.Turns) == 0 {
			r.muted("nothing to save")
			break
		}
		if err := r.file.save(); err != nil {
			r.printErr(err)
			break
		}
		r.muted("saved %s", r.file.location())
	case "/help":
		fmt.Fprint(r.app.stdout, helpText)
	default:
		r.printErr(fmt.Errorf("unknown command %s (try /help)", name))
	}
	return false
}

func (r *repl) exit() error {
	if err := r.file.save(); err != nil {
		return err
	}
	if len(r.file.session.Turns) > 0 {
		fmt.Fprintf(r.app.stderr, "Session saved to %s\n", r.file.location())
	}
	return nil
}

func (r *repl) muted(format string, args ...any) {
	fmt.Fprintln(r.app.stdout, r.styles.Muted.Render(fmt.Sprintf(format, args...)))
}

func (r *repl) printErr(err error) {
	fmt.Fprintln(r.app.stderr, r.styles.Error.Render("error: "+err.Error()))
}

func usageLine(u relay.Usage) string {
	return fmt.Sprintf("in %d · out %d tokens", u.InputTokens, u.OutputTokens)
}

const helpText = `/help    list commands
/usage   token totals for this session
/save    save the session now
/clear   start a new session
/exit    leave (also /quit, Ctrl+D)
`
