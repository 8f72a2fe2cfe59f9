// Package chat drives one conversation turn at a time: it sends the session
// to a Provider, renders the streamed reply as it arrives and records the
// turns on the session.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/render"
)

// Result summarizes a completed turn.
type Result struct {
	Text    string      // the assistant reply, unmodified
	Usage   relay.Usage // tokens reported for this turn
	Skipped int         // stream records that could not be decoded
}

// Loop orchestrates turns between a Provider and a terminal. It allows one
// turn in flight at a time.
type Loop struct {
	provider   relay.Provider
	newDecoder func() relay.Decoder

	code   relay.CodeFormatter
	prose  relay.ProseFormatter
	logger *slog.Logger

	model       string
	maxTokens   int
	temperature *float64

	inFlight atomic.Bool
}

// Option configures a Loop.
type Option func(*Loop)

// WithFormatters sets the formatters replies are rendered with. Nil
// formatters leave text unchanged.
func WithFormatters(code relay.CodeFormatter, prose relay.ProseFormatter) Option {
	return func(l *Loop) {
		l.code = code
		l.prose = prose
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithModel sets the model used when the session does not name one.
// Empty string means the provider uses its default model.
func WithModel(model string) Option {
	return func(l *Loop) {
		l.model = model
	}
}

// WithMaxTokens sets the reply token limit. Zero means the provider default.
func WithMaxTokens(n int) Option {
	return func(l *Loop) {
		l.maxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(l *Loop) {
		l.temperature = &t
	}
}

// New returns a Loop streaming from provider. newDecoder is called once per
// turn because decoders carry state between chunks.
func New(provider relay.Provider, newDecoder func() relay.Decoder, opts ...Option) *Loop {
	l := &Loop{
		provider:   provider,
		newDecoder: newDecoder,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Turn sends input as a user turn and writes the streamed reply to w.
//
// The user turn is appended before the request is made and stays on the
// session whatever happens next. The assistant turn is appended only when
// the stream ends normally. A failed connection or a stream that breaks
// midway returns an error wrapping [relay.ErrTransport]; a cancelled ctx
// returns the context error. Output already written is not retracted.
func (l *Loop) Turn(ctx context.Context, session *relay.Session, input string, w io.Writer) (Result, error) {
	if strings.TrimSpace(input) == "" {
		return Result{}, relay.ErrEmptyInput
	}
	if !l.inFlight.CompareAndSwap(false, true) {
		return Result{}, relay.ErrTurnInFlight
	}
	defer l.inFlight.Store(false)

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	session.Append(relay.UserTurn(input))
	req := relay.Request{
		Model:        l.modelFor(session),
		SystemPrompt: session.SystemPrompt,
		Turns:        session.Turns,
		MaxTokens:    l.maxTokens,
		Temperature:  l.temperature,
	}
	log := l.logger.With("session", session.ID, "turn", len(session.Turns))
	log.Info("turn started", "model", req.Model)

	stream, err := l.provider.Stream(ctx, req)
	if err != nil {
		log.Error("turn failed", "error", err)
		return Result{}, l.streamError(ctx, err)
	}
	defer stream.Close()

	r := render.New(w, l.code, l.prose)
	if err := l.consume(ctx, stream, r, log); err != nil {
		log.Error("turn abandoned", "error", err)
		return Result{}, err
	}
	if err := r.Flush(); err != nil {
		return Result{}, err
	}

	state := r.State()
	session.Append(relay.AssistantTurn(state.Text))
	session.Usage = session.Usage.Add(state.Usage)
	log.Info("turn finished",
		"input_tokens", state.Usage.InputTokens,
		"output_tokens", state.Usage.OutputTokens,
		"skipped", state.Skipped,
		"done", state.Done,
	)
	return Result{Text: state.Text, Usage: state.Usage, Skipped: state.Skipped}, nil
}

// consume pulls chunks until the stream ends or the server signals the end
// of the reply. Each chunk is decoded and rendered before the next is pulled.
func (l *Loop) consume(ctx context.Context, stream relay.Stream, r *render.Renderer, log *slog.Logger) error {
	dec := l.newDecoder()
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			return l.apply(r, dec.Flush(), log)
		}
		if err != nil {
			return l.streamError(ctx, err)
		}
		if err := l.apply(r, dec.Decode(chunk), log); err != nil {
			return err
		}
		if r.State().Done {
			return nil
		}
	}
}

// apply feeds events to r, stopping at the first EventDone.
func (l *Loop) apply(r *render.Renderer, events []relay.Event, log *slog.Logger) error {
	for _, evt := range events {
		if s, ok := evt.(relay.EventSkipped); ok {
			log.Debug("skipped stream record", "record", s.Record, "error", s.Err)
		}
		if err := r.Apply(evt); err != nil {
			return err
		}
		if _, ok := evt.(relay.EventDone); ok {
			return nil
		}
	}
	return nil
}

// streamError classifies a provider or stream failure. Validation errors and
// cancellation are not transport failures.
func (l *Loop) streamError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, relay.ErrValidation):
		return err
	case ctx.Err() != nil:
		return fmt.Errorf("chat: %w", ctx.Err())
	default:
		return fmt.Errorf("%w: %w", relay.ErrTransport, err)
	}
}

func (l *Loop) modelFor(session *relay.Session) string {
	if session.Model != "" {
		return session.Model
	}
	return l.model
}
