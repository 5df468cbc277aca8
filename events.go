package tagsphere

// Event describes something the user did to the cloud or a state change the
// engine went through. Label and Index are set for label events; X and Y are
// screen coordinates where relevant.
type Event struct {
	Type   EventType
	Label  Label
	Index  int
	X, Y   float64
	DeltaX float64
	DeltaY float64
	Scale  float64 // camera scale after wheel or pinch
}

// EventSink receives engine events. Set one with Engine.SetEventSink to
// forward events into an ECS world.
type EventSink interface {
	EmitEvent(event Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// EmitEvent calls f(event).
func (f EventSinkFunc) EmitEvent(event Event) { f(event) }

// SetEventSink routes all engine events to sink. Pass nil to disable.
func (e *Engine) SetEventSink(sink EventSink) {
	e.sink = sink
}

func (e *Engine) emit(ev Event) {
	if e.sink != nil && !e.disposed {
		e.sink.EmitEvent(ev)
	}
}
