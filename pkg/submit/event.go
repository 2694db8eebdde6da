package submit

import (
	"sync/atomic"

	"github.com/goliatone/go-formsubmit/pkg/formdata"
)

// Event is a submit event as seen by the handler.
type Event interface {
	// PreventDefault suppresses the native form submission.
	PreventDefault()
	// Form returns the submitted form's entries.
	Form() formdata.Source
}

// StaticEvent is an Event over a fixed set of entries, used outside the
// browser.
type StaticEvent struct {
	source    formdata.Source
	prevented atomic.Bool
}

// NewEvent wraps source in a StaticEvent.
func NewEvent(source formdata.Source) *StaticEvent {
	return &StaticEvent{source: source}
}

// PreventDefault implements Event.
func (e *StaticEvent) PreventDefault() {
	e.prevented.Store(true)
}

// Form implements Event.
func (e *StaticEvent) Form() formdata.Source {
	return e.source
}

// Prevented reports whether PreventDefault was called.
func (e *StaticEvent) Prevented() bool {
	return e.prevented.Load()
}
