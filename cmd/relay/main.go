// Command relay is an interactive terminal chat client that renders replies
// as they stream in.
//
// Usage:
//
//	ANTHROPIC_API_KEY=sk-... relay [flags]           interactive session
//	relay ask "question"                              one-shot reply
//	relay sessions                                    list saved sessions
//	relay show <id|path>                              render a saved session
//
// Settings are read from $XDG_CONFIG_HOME/relay/config.toml and a .env file
// in the working directory; flags override both.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/config"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	err := a.execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "relay: %v\n", err)
		os.Exit(1)
	}
}

// app holds what every command needs once flags and config are resolved.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// getenv overrides the environment lookup; nil reads the process
	// environment with .env as a fallback.
	getenv func(string) string
	// newProvider overrides provider construction.
	newProvider func(apiKey, baseURL string) (relay.Provider, error)

	flags    flags
	cfg      config.Config
	theme    relay.Theme
	logger   *slog.Logger
	closeLog func() error
}

type flags struct {
	configPath   string
	model        string
	systemPrompt string
	maxTokens    int
	temperature  float64
	apiKey       string
	baseURL      string
	session      string
	logFile      string
	verbose      bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "relay",
		Short: "Chat with Claude in the terminal",
		Long: `relay is an interactive chat client. Replies stream in as they are
generated: prose is styled line by line and fenced code blocks are
syntax-highlighted once they close.

Running without a subcommand starts an interactive session.

Slash commands inside a session:
  /help    list commands
  /usage   token totals for this session
  /save    save the session now
  /clear   start a new session
  /exit    leave (also /quit, Ctrl+D)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runREPL(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/relay/config.toml)")
	pf.StringVar(&a.flags.model, "model", "", "model ID (default: provider default)")
	pf.StringVar(&a.flags.systemPrompt, "system-prompt", "", "system prompt for new sessions")
	pf.IntVar(&a.flags.maxTokens, "max-tokens", 0, "reply token limit (default: provider default)")
	pf.Float64Var(&a.flags.temperature, "temperature", 0, "sampling temperature in [0, 1]")
	pf.StringVar(&a.flags.apiKey, "api-key", "", "API key (overrides ANTHROPIC_API_KEY)")
	pf.StringVar(&a.flags.baseURL, "base-url", "", "API base URL")
	pf.StringVar(&a.flags.session, "session", "", "session ID or file to resume")
	pf.StringVar(&a.flags.logFile, "log-file", "", "write logs to this file")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log stream diagnostics")

	root.AddCommand(newAskCmd(a), newSessionsCmd(a), newShowCmd(a))
	return root
}

// setup resolves configuration: file, then environment, then flags.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}
	getenv := a.getenv
	if getenv == nil {
		if getenv, err = config.Env(".env"); err != nil {
			return err
		}
	}
	cfg.ApplyEnv(getenv)
	a.applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.theme = cfg.Theme.Apply(relay.DefaultTheme())

	logPath, err := cfg.LogPath()
	if err != nil {
		return err
	}
	a.logger, a.closeLog, err = openLogger(logPath, a.flags.verbose)
	return err
}

func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("model") {
		cfg.Model = a.flags.model
	}
	if changed("system-prompt") {
		cfg.SystemPrompt = a.flags.systemPrompt
	}
	if changed("max-tokens") {
		cfg.MaxTokens = a.flags.maxTokens
	}
	if changed("temperature") {
		t := a.flags.temperature
		cfg.Temperature = &t
	}
	if changed("api-key") {
		cfg.APIKey = a.flags.apiKey
	}
	if changed("base-url") {
		cfg.BaseURL = a.flags.baseURL
	}
	if changed("log-file") {
		cfg.LogFile = a.flags.logFile
	}
}

// execute runs the command line args and releases what setup opened,
// whether or not the command succeeded.
func (a *app) execute(ctx context.Context, args []string) error {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if cerr := a.teardown(); err == nil {
		err = cerr
	}
	return err
}

func (a *app) teardown() error {
	if a.closeLog == nil {
		return nil
	}
	closeLog := a.closeLog
	a.closeLog = nil
	return closeLog()
}
