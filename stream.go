package relay

// Stream uses a pull-based iterator pattern over raw transport chunks.
// Cancellation flows through the context passed to Provider.Stream().
//
// Next returns the next chunk exactly as it arrived from the connection; a
// chunk may hold zero, one or many records and may split a record anywhere.
// Next returns io.EOF when the connection ends normally. Any other error is a
// transport failure. After Close, Next returns ErrStreamClosed.
type Stream interface {
	Next() ([]byte, error)
	Close() error
}

// Decoder turns raw chunks into events. Implementations may carry an
// incomplete trailing record from one chunk to the next; Flush decodes
// whatever is left once the stream has ended.
type Decoder interface {
	Decode(chunk []byte) []Event
	Flush() []Event
}
