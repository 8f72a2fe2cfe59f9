// Package anthropic implements [relay.Provider] for the Anthropic Messages API
// and decodes its server-sent events into [relay.Event] values.
//
// The client does no parsing of its own: it hands the raw body chunks to the
// caller exactly as they arrive, and the [Decoder] turns those chunks into
// events. Keeping the two apart lets the renderer be driven by any chunking of
// the same byte stream.
package anthropic

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 8192
	defaultChunkSize = 4096
	apiVersion       = "2023-06-01"
	messagesPath     = "/v1/messages"
)

// apiRequest is the JSON body sent to the Anthropic Messages API.
type apiRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	Stream      bool         `json:"stream"`
	System      string       `json:"system,omitempty"`
	Messages    []apiMessage `json:"messages"`
	Temperature *float64     `json:"temperature,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// sseRecord is the union of the record shapes the decoder understands.
// Fields absent from a given record type stay nil.
type sseRecord struct {
	Type    string      `json:"type"`
	Delta   *sseDelta   `json:"delta"`
	Usage   *sseUsage   `json:"usage"`
	Message *sseMessage `json:"message"`
}

type sseDelta struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type sseMessage struct {
	Usage *sseUsage `json:"usage"`
}

type sseUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type sseErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// apiErrorResponse is the JSON body returned on non-200 HTTP responses.
type apiErrorResponse struct {
	Type  string         `json:"type"`
	Error sseErrorDetail `json:"error"`
}
