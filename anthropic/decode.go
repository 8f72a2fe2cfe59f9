package anthropic

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/fwojciec/relay"
)

const (
	dataPrefix = "data:"
	doneMarker = "[DONE]"
)

// Interface compliance check.
var _ relay.Decoder = (*Decoder)(nil)

// Decoder turns raw SSE chunks into events. It carries an unterminated
// trailing record over to the next chunk, so a record split by a chunk
// boundary is decoded once its newline arrives. The zero value is ready to use.
type Decoder struct {
	tail []byte
}

// NewDecoder returns an empty [Decoder].
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode returns the events of every record completed by chunk.
func (d *Decoder) Decode(chunk []byte) []relay.Event {
	buf := append(d.tail, chunk...)
	i := bytes.LastIndexByte(buf, '\n')
	if i < 0 {
		d.tail = buf
		return nil
	}
	d.tail = append([]byte(nil), buf[i+1:]...)
	return decodeLines(string(buf[:i]))
}

// Flush decodes whatever unterminated record is left and resets the decoder.
func (d *Decoder) Flush() []relay.Event {
	tail := d.tail
	d.tail = nil
	return decodeLines(string(tail))
}

// DecodeChunk decodes a single chunk on its own, with no memory of earlier
// chunks. A record cut by the chunk boundary fails to parse and comes back
// as [relay.EventSkipped].
func DecodeChunk(chunk []byte) []relay.Event {
	return decodeLines(string(chunk))
}

func decodeLines(s string) []relay.Event {
	var events []relay.Event
	for _, line := range strings.Split(s, "\n") {
		if evt, ok := DecodeRecord(line); ok {
			events = append(events, evt)
		}
	}
	return events
}

// DecodeRecord classifies one SSE line. ok is false for lines that carry no
// event: non-data fields, blank lines, and record types nobody consumes.
// Payloads that are not valid JSON yield [relay.EventSkipped].
func DecodeRecord(line string) (evt relay.Event, ok bool) {
	payload, found := strings.CutPrefix(strings.TrimRight(line, "\r"), dataPrefix)
	if !found {
		return nil, false
	}
	payload = strings.TrimSpace(payload)
	switch payload {
	case "":
		return nil, false
	case doneMarker:
		return relay.EventDone{}, true
	}

	var rec sseRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return relay.EventSkipped{Record: payload, Err: err}, true
	}

	switch rec.Type {
	case "content_block_delta":
		if rec.Delta == nil || rec.Delta.Text == "" {
			return nil, false
		}
		// Tool input and thinking deltas are not part of the rendered reply.
		if rec.Delta.Type != "" && rec.Delta.Type != "text_delta" {
			return nil, false
		}
		return relay.EventTextDelta{Delta: rec.Delta.Text}, true
	case "message_delta":
		if rec.Usage == nil {
			return nil, false
		}
		return relay.EventUsage{Usage: rec.Usage.usage()}, true
	case "message_start":
		if rec.Message == nil || rec.Message.Usage == nil {
			return nil, false
		}
		return relay.EventUsage{Usage: rec.Message.Usage.usage()}, true
	case "message_stop":
		return relay.EventDone{}, true
	default:
		// ping, content_block_start/stop, error and unknown types.
		return nil, false
	}
}

func (u sseUsage) usage() relay.Usage {
	return relay.Usage{InputTokens: u.InputTokens, OutputTokens: u.OutputTokens}
}
