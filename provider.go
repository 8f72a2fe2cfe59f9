package relay

import "context"

// Provider opens streamed completions against a language-model API.
type Provider interface {
	Stream(ctx context.Context, req Request) (Stream, error)
}
