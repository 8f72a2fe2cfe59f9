package relay

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request, turn or config failed validation.
	ErrValidation = errors.New("validation error")

	// ErrEmptyInput indicates the user submitted blank input.
	ErrEmptyInput = errors.New("empty input")

	// ErrTurnInFlight indicates a turn was started while another is streaming.
	ErrTurnInFlight = errors.New("a turn is already in flight")

	// ErrTransport indicates the connection failed, returned a non-success
	// status, or dropped mid-stream. The turn is abandoned.
	ErrTransport = errors.New("transport failure")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)
