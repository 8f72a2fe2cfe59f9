package mock

import (
	"io"

	"github.com/fwojciec/relay"
)

// Interface compliance check.
var _ relay.Stream = (*Stream)(nil)

// Stream is a test double for relay.Stream.
// NextFn panics when nil to catch missing setup. CloseFn is nil-safe (no-op)
// because code under test commonly calls defer stream.Close().
type Stream struct {
	NextFn  func() ([]byte, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() ([]byte, error) {
	return s.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// ChunkStream returns a Stream that yields chunks in order and then io.EOF.
func ChunkStream(chunks ...string) *Stream {
	return FailingStream(nil, chunks...)
}

// FailingStream returns a Stream that yields chunks in order and then err.
// A nil err behaves like io.EOF.
func FailingStream(err error, chunks ...string) *Stream {
	if err == nil {
		err = io.EOF
	}
	i := 0
	return &Stream{
		NextFn: func() ([]byte, error) {
			if i >= len(chunks) {
				return nil, err
			}
			i++
			return []byte(chunks[i-1]), nil
		},
	}
}
