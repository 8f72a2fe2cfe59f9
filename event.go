package relay

// Event is a sealed interface representing one decoded stream event.
// Events are purely semantic. Transport errors come from Stream.Next's error
// return, never from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventTextDelta represents an incremental fragment of assistant text.
type EventTextDelta struct {
	Delta string
}

func (EventTextDelta) event() {}

// EventUsage carries token accounting reported by the server.
type EventUsage struct {
	Usage Usage
}

func (EventUsage) event() {}

// EventDone signals that the server finished the reply.
type EventDone struct{}

func (EventDone) event() {}

// EventSkipped reports a record that could not be parsed. Chunk boundaries
// and noisy servers produce these routinely; consumers skip and continue.
type EventSkipped struct {
	Record string
	Err    error
}

func (EventSkipped) event() {}

// Interface compliance checks.
var (
	_ Event = EventTextDelta{}
	_ Event = EventUsage{}
	_ Event = EventDone{}
	_ Event = EventSkipped{}
)
