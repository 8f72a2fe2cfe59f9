package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fwojciec/relay"
)

// Interface compliance checks.
var (
	_ relay.Provider = (*Client)(nil)
	_ relay.Stream   = (*stream)(nil)
)

// Client implements [relay.Provider] for the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	chunkSize  int
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithChunkSize sets the maximum number of bytes returned by one Next call.
func WithChunkSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// New creates a new Anthropic [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		chunkSize:  defaultChunkSize,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stream sends a streaming request to the Anthropic Messages API and returns
// a [relay.Stream] of raw response chunks.
func (c *Client) Stream(ctx context.Context, req relay.Request) (relay.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}
	body, err := c.buildRequestBody(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}

	return &stream{ctx: ctx, body: resp.Body, buf: make([]byte, c.chunkSize)}, nil
}

func (c *Client) buildRequestBody(req relay.Request) ([]byte, error) {
	model := req.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	apiReq := apiRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Stream:      true,
		System:      req.SystemPrompt,
		Messages:    convertTurns(req.Turns),
		Temperature: req.Temperature,
	}
	return json.Marshal(apiReq)
}

// convertTurns maps turns to API messages. The API requires roles to
// alternate and assistant content to be non-empty, but a session keeps the
// user turn of an abandoned exchange, so consecutive same-role turns are
// merged and empty assistant turns dropped.
func convertTurns(turns []relay.Turn) []apiMessage {
	var result []apiMessage
	for _, t := range turns {
		if t.Role == relay.RoleAssistant && t.Content == "" {
			continue
		}
		role := string(t.Role)
		if n := len(result); n > 0 && result[n-1].Role == role {
			result[n-1].Content += "\n\n" + t.Content
			continue
		}
		result = append(result, apiMessage{Role: role, Content: t.Content})
	}
	return result
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anthropic: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Type == "" {
		return fmt.Errorf("anthropic: HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return fmt.Errorf("anthropic: HTTP %d: %s: %s", resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
}

// stream implements [relay.Stream] over an HTTP response body. Each Next
// returns whatever a single Read produced, so chunk boundaries follow the
// network rather than the SSE framing.
type stream struct {
	ctx    context.Context
	body   io.ReadCloser
	buf    []byte
	err    error // terminal error, delivered after any data read with it
	closed bool
}

// Next returns the next raw chunk. It returns io.EOF when the body ends.
func (s *stream) Next() ([]byte, error) {
	if s.closed {
		return nil, relay.ErrStreamClosed
	}
	if s.err != nil {
		return nil, s.err
	}
	for {
		n, err := s.body.Read(s.buf)
		if err != nil {
			s.err = s.wrap(err)
		}
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, s.buf[:n])
			return chunk, nil
		}
		if s.err != nil {
			return nil, s.err
		}
	}
}

// Close closes the underlying HTTP response body.
func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

func (s *stream) wrap(err error) error {
	if err == io.EOF {
		return io.EOF
	}
	if ctxErr := s.ctx.Err(); ctxErr != nil {
		return fmt.Errorf("anthropic: %w", ctxErr)
	}
	return fmt.Errorf("anthropic: %w", err)
}
