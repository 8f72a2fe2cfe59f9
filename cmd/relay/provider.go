package main

import (
	"errors"
	"fmt"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/anthropic"
	"github.com/fwojciec/relay/chat"
	"github.com/fwojciec/relay/chroma"
	"github.com/fwojciec/relay/markdown"
)

// resolveProvider constructs the Anthropic client. The key and base URL are
// passed in already resolved from flags, environment and config.
func resolveProvider(apiKey, baseURL string) (relay.Provider, error) {
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not set (use --api-key flag, environment variable or .env)")
	}
	var opts []anthropic.Option
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return anthropic.New(apiKey, opts...), nil
}

// newLoop wires the provider, decoder and formatters into a chat loop.
// styled selects terminal formatting; piped output stays plain.
func (a *app) newLoop(styled bool) (*chat.Loop, error) {
	newProvider := a.newProvider
	if newProvider == nil {
		newProvider = resolveProvider
	}
	provider, err := newProvider(a.cfg.APIKey, a.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("provider: %w", err)
	}

	opts := []chat.Option{
		chat.WithLogger(a.logger),
		chat.WithModel(a.cfg.Model),
		chat.WithMaxTokens(a.cfg.MaxTokens),
	}
	if a.cfg.Temperature != nil {
		opts = append(opts, chat.WithTemperature(*a.cfg.Temperature))
	}
	if styled {
		opts = append(opts, chat.WithFormatters(a.highlighter(), markdown.New(a.theme)))
	}
	return chat.New(provider, func() relay.Decoder { return anthropic.NewDecoder() }, opts...), nil
}

func (a *app) highlighter() *chroma.Highlighter {
	if a.cfg.CodeStyle == "" {
		return chroma.New()
	}
	return chroma.New(chroma.WithStyle(a.cfg.CodeStyle))
}
