package mover

// LogEventBus is a reference EventBus: an append-only in-memory log,
// grounded on the teacher's plain-slice append-and-drain logging pattern.
// Subscribers read Drain after every mover's Update for the tick has run
// (§6 "append-only from the core's perspective").
type LogEventBus struct {
	events []Event
}

// NewLogEventBus builds an empty event log.
func NewLogEventBus() *LogEventBus {
	return &LogEventBus{}
}

func (b *LogEventBus) Publish(e Event) {
	b.events = append(b.events, e)
}

// Drain returns all events published since the last Drain and clears the
// log, matching the "subscribers run later in the same tick" contract.
func (b *LogEventBus) Drain() []Event {
	out := b.events
	b.events = nil
	return out
}

// Len reports how many undrained events are queued.
func (b *LogEventBus) Len() int { return len(b.events) }
