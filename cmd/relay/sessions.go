package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/fwojciec/relay/chroma"
	"github.com/fwojciec/relay/goldmark"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

const previewWidth = 48

func newSessionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List saved sessions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.runSessions()
		},
	}
}

func (a *app) runSessions() error {
	store, err := a.store()
	if err != nil {
		return err
	}
	list, err := store.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintf(a.stdout, "no sessions in %s\n", store.Dir)
		return nil
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUPDATED\tTURNS\tTOKENS\tPREVIEW")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			s.ID,
			s.UpdatedAt.Local().Format("2006-01-02 15:04"),
			s.Turns,
			s.Usage.Total(),
			preview(s.Preview),
		)
	}
	return tw.Flush()
}

// preview flattens text to one line no wider than previewWidth cells.
func preview(text string) string {
	var b []rune
	space := false
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r == ' ' {
			space = len(b) > 0
			continue
		}
		if space {
			b = append(b, ' ')
			space = false
		}
		b = append(b, r)
	}
	return runewidth.Truncate(string(b), previewWidth, "...")
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|path>",
		Short: "Render a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runShow(args[0])
		},
	}
}

func (a *app) runShow(ref string) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	sess, err := store.Load(ref)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	var opts []goldmark.Option
	if isTerminal(a.stdout) {
		opts = append(opts, goldmark.WithCodeFormatter(a.highlighter()))
	} else {
		opts = append(opts, goldmark.WithCodeFormatter(chroma.New(chroma.WithFormatter(formatters.NoOp))))
	}
	return goldmark.Transcript(a.stdout, sess, terminalWidth(a.stdout), a.theme, opts...)
}
