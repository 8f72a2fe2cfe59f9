package anthropic_test

import (
	"testing"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecord(t *testing.T) {
	t.Parallel()

	t.Run("text delta", func(t *testing.T) {
		t.Parallel()
		evt, ok := anthropic.DecodeRecord(`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hi"}}`)
		require.True(t, ok)
		assert.Equal(t, relay.EventTextDelta{Delta: "Hi"}, evt)
	})

	t.Run("text delta without delta type", func(t *testing.T) {
		t.Parallel()
		evt, ok := anthropic.DecodeRecord(`data: {"type":"content_block_delta","delta":{"text":"Hi"}}`)
		require.True(t, ok)
		assert.Equal(t, relay.EventTextDelta{Delta: "Hi"}, evt)
	})

	t.Run("prefix without space", func(t *testing.T) {
		t.Parallel()
		evt, ok := anthropic.DecodeRecord(`data:{"type":"content_block_delta","delta":{"text":"x"}}`)
		require.True(t, ok)
		assert.Equal(t, relay.EventTextDelta{Delta: "x"}, evt)
	})

	t.Run("carriage return is tolerated", func(t *testing.T) {
		t.Parallel()
		evt, ok := anthropic.DecodeRecord("data: {\"type\":\"content_block_delta\",\"delta\":{\"text\":\"x\"}}\r")
		require.True(t, ok)
		assert.Equal(t, relay.EventTextDelta{Delta: "x"}, evt)
	})

	t.Run("usage from message_delta", func(t *testing.T) {
		t.Parallel()
		evt, ok := anthropic.DecodeRecord(`data: {"type":"message_delta","delta":{"stop_reason":"end_turn"},"usage":{"input_tokens":3,"output_tokens":42}}`)
		require.True(t, ok)
		assert.Equal(t, relay.EventUsage{Usage: relay.Usage{InputTokens: 3, OutputTokens: 42}}, evt)
	})

	t.Run("usage from message_start", func(t *testing.T) {
		t.Parallel()
		evt, ok := anthropic.DecodeRecord(`data: {"type":"message_start","message":{"id":"msg_1","usage":{"input_tokens":10,"output_tokens":1}}}`)
		require.True(t, ok)
		assert.Equal(t, relay.EventUsage{Usage: relay.Usage{InputTokens: 10, OutputTokens: 1}}, evt)
	})

	t.Run("done sentinel", func(t *testing.T) {
		t.Parallel()
		evt, ok := anthropic.DecodeRecord("data: [DONE]")
		require.True(t, ok)
		assert.Equal(t, relay.EventDone{}, evt)
	})

	t.Run("message_stop", func(t *testing.T) {
		t.Parallel()
		evt, ok := anthropic.DecodeRecord(`data: {"type":"message_stop"}`)
		require.True(t, ok)
		assert.Equal(t, relay.EventDone{}, evt)
	})

	t.Run("malformed JSON is skipped explicitly", func(t *testing.T) {
		t.Parallel()
		evt, ok := anthropic.DecodeRecord(`data: {"type":"content_block_del`)
		require.True(t, ok)
		skipped, isSkipped := evt.(relay.EventSkipped)
		require.True(t, isSkipped)
		assert.Equal(t, `{"type":"content_block_del`, skipped.Record)
		assert.Error(t, skipped.Err)
	})

	ignored := map[string]string{
		"event line":          "event: content_block_delta",
		"blank line":          "",
		"comment":             ": keep-alive",
		"empty data":          "data: ",
		"ping":                `data: {"type":"ping"}`,
		"error event":         `data: {"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`,
		"tool input delta":    `data: {"type":"content_block_delta","delta":{"type":"input_json_delta","partial_json":"{}"}}`,
		"thinking delta":      `data: {"type":"content_block_delta","delta":{"type":"thinking_delta","thinking":"hmm"}}`,
		"block start":         `data: {"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`,
		"delta without usage": `data: {"type":"message_delta","delta":{"stop_reason":"end_turn"}}`,
		"unknown type":        `data: {"type":"something_new"}`,
	}
	for name, line := range ignored {
		t.Run("ignores "+name, func(t *testing.T) {
			t.Parallel()
			evt, ok := anthropic.DecodeRecord(line)
			assert.False(t, ok)
			assert.Nil(t, evt)
		})
	}
}

func TestDecodeChunk(t *testing.T) {
	t.Parallel()

	t.Run("many records in one chunk", func(t *testing.T) {
		t.Parallel()
		chunk := "event: content_block_delta\n" +
			"data: {\"type\":\"content_block_delta\",\"delta\":{\"text\":\"a\"}}\n\n" +
			"event: content_block_delta\n" +
			"data: {\"type\":\"content_block_delta\",\"delta\":{\"text\":\"b\"}}\n\n"
		events := anthropic.DecodeChunk([]byte(chunk))
		assert.Equal(t, []relay.Event{
			relay.EventTextDelta{Delta: "a"},
			relay.EventTextDelta{Delta: "b"},
		}, events)
	})

	t.Run("malformed record does not interrupt later records", func(t *testing.T) {
		t.Parallel()
		chunk := "data: {\"type\":\"content_block_delta\",\"delta\":{\"text\":\"a\"}}\n" +
			"data: {not json}\n" +
			"data: {\"type\":\"content_block_delta\",\"delta\":{\"text\":\"b\"}}\n"
		events := anthropic.DecodeChunk([]byte(chunk))
		require.Len(t, events, 3)
		assert.Equal(t, relay.EventTextDelta{Delta: "a"}, events[0])
		assert.IsType(t, relay.EventSkipped{}, events[1])
		assert.Equal(t, relay.EventTextDelta{Delta: "b"}, events[2])
	})

	t.Run("split record yields skipped fragments", func(t *testing.T) {
		t.Parallel()
		first := anthropic.DecodeChunk([]byte(`data: {"type":"content_block_delta","del`))
		require.Len(t, first, 1)
		assert.IsType(t, relay.EventSkipped{}, first[0])

		second := anthropic.DecodeChunk([]byte("ta\":{\"text\":\"x\"}}\n"))
		assert.Empty(t, second)
	})

	t.Run("empty chunk", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, anthropic.DecodeChunk(nil))
	})
}

func TestDecoder(t *testing.T) {
	t.Parallel()

	t.Run("reassembles a record split across chunks", func(t *testing.T) {
		t.Parallel()
		d := anthropic.NewDecoder()
		assert.Empty(t, d.Decode([]byte(`data: {"type":"content_block_delta","del`)))
		assert.Empty(t, d.Decode([]byte(`ta":{"text":"hel`)))
		events := d.Decode([]byte("lo\"}}\n\ndata: {\"type\":\"message_stop\"}\n"))
		assert.Equal(t, []relay.Event{
			relay.EventTextDelta{Delta: "hello"},
			relay.EventDone{},
		}, events)
		assert.Empty(t, d.Flush())
	})

	t.Run("byte-at-a-time delivery", func(t *testing.T) {
		t.Parallel()
		stream := "data: {\"type\":\"content_block_delta\",\"delta\":{\"text\":\"one\"}}\n" +
			"data: {broken\n" +
			"data: {\"type\":\"content_block_delta\",\"delta\":{\"text\":\" two\"}}\n" +
			"data: {\"type\":\"message_delta\",\"usage\":{\"output_tokens\":7}}\n"
		d := anthropic.NewDecoder()
		var events []relay.Event
		for i := 0; i < len(stream); i++ {
			events = append(events, d.Decode([]byte{stream[i]})...)
		}
		require.Len(t, events, 4)
		assert.Equal(t, relay.EventTextDelta{Delta: "one"}, events[0])
		assert.IsType(t, relay.EventSkipped{}, events[1])
		assert.Equal(t, relay.EventTextDelta{Delta: " two"}, events[2])
		assert.Equal(t, relay.EventUsage{Usage: relay.Usage{OutputTokens: 7}}, events[3])
	})

	t.Run("flush decodes an unterminated final record", func(t *testing.T) {
		t.Parallel()
		d := anthropic.NewDecoder()
		assert.Empty(t, d.Decode([]byte(`data: {"type":"content_block_delta","delta":{"text":"tail"}}`)))
		assert.Equal(t, []relay.Event{relay.EventTextDelta{Delta: "tail"}}, d.Flush())
		assert.Empty(t, d.Flush())
	})

	t.Run("zero value is usable", func(t *testing.T) {
		t.Parallel()
		var d anthropic.Decoder
		events := d.Decode([]byte("data: [DONE]\n"))
		assert.Equal(t, []relay.Event{relay.EventDone{}}, events)
	})
}
