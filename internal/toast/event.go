package toast

import "github.com/jmylchreest/toastui/internal/model"

// EventKind identifies the type of a stack event.
type EventKind string

const (
	// EventShown is emitted once a notification has been rendered.
	EventShown EventKind = "toast-show"
	// EventDismissed is emitted after a notification's exit transition finished
	// and its node was removed.
	EventDismissed EventKind = "toast-dismiss"
)

// DismissReason tells listeners why a notification went away.
type DismissReason string

const (
	// ReasonExpired means the auto-dismiss timer fired.
	ReasonExpired DismissReason = "expired"
	// ReasonDismissed means a caller or the user asked for the dismissal.
	ReasonDismissed DismissReason = "dismissed"
)

// Event describes something that happened on a stack.
// Message and Variant are only set for EventShown, Reason only for EventDismissed.
type Event struct {
	Kind    EventKind
	Stack   string
	ID      model.ID
	Message string
	Variant model.Variant
	Reason  DismissReason
}

// Emitter receives stack events. Emit is called on the event loop and must not block.
type Emitter interface {
	Emit(ev Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(ev Event)

// Emit implements Emitter.
func (f EmitterFunc) Emit(ev Event) { f(ev) }

// Emitters fans an event out to several emitters in order.
type Emitters []Emitter

// Emit implements Emitter.
func (es Emitters) Emit(ev Event) {
	for _, e := range es {
		if e != nil {
			e.Emit(ev)
		}
	}
}
