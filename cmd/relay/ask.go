package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/relay"
	"github.com/spf13/cobra"
)

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Send one prompt and print the reply",
		Long: `ask sends a single prompt and streams the reply to stdout. With no
arguments the prompt is read from stdin. The exchange is saved only when
--session is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAsk(cmd, args)
		},
	}
}

func (a *app) runAsk(cmd *cobra.Command, args []string) error {
	prompt := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return fmt.Errorf("read prompt: %w", err)
		}
		prompt = string(data)
	}
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("no prompt given: %w", relay.ErrEmptyInput)
	}

	store, err := a.store()
	if err != nil {
		return err
	}
	file, _, err := a.openSession(store)
	if err != nil {
		return err
	}
	loop, err := a.newLoop(isTerminal(a.stdout))
	if err != nil {
		return err
	}

	res, turnErr := loop.Turn(cmd.Context(), &file.session, strings.TrimSpace(prompt), a.stdout)
	if turnErr == nil && !strings.HasSuffix(res.Text, "\n") {
		fmt.Fprintln(a.stdout)
	}
	if a.flags.session != "" {
		if err := file.save(); err != nil {
			return err
		}
	}
	return turnErr
}
