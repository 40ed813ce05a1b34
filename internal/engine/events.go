package engine

// Event is a notification for presentation collaborators. The engine never
// calls out; events are returned from PlaceBlock and forwarded by the caller.
type Event interface {
	event()
}

// EventScoreUpdate follows every successful placement.
type EventScoreUpdate struct {
	Score      int
	Multiplier int
}

// EventPerfect is a placement within tolerance.
type EventPerfect struct {
	Combo int
}

// EventPlaced is a trimmed placement.
type EventPlaced struct{}

// EventGameOver is emitted exactly once per game over transition.
type EventGameOver struct {
	FinalScore int
}

// EventLightFeedback asks for a short tick (placements).
type EventLightFeedback struct{}

// EventHeavyFeedback asks for a strong pulse (game over).
type EventHeavyFeedback struct{}

func (EventScoreUpdate) event()   {}
func (EventPerfect) event()       {}
func (EventPlaced) event()        {}
func (EventGameOver) event()      {}
func (EventLightFeedback) event() {}
func (EventHeavyFeedback) event() {}

// Sink consumes events.
type Sink interface {
	Handle(Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

func (f SinkFunc) Handle(e Event) { f(e) }

// Dispatch delivers events, in order, to every non-nil sink.
func Dispatch(events []Event, sinks ...Sink) {
	for _, e := range events {
		for _, s := range sinks {
			if s != nil {
				s.Handle(e)
			}
		}
	}
}
