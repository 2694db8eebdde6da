package submit

import (
	"github.com/goliatone/go-formsubmit/pkg/dom"
)

type ackState int

const (
	ackArmed ackState = iota
	ackConsumed
)

// acknowledgement is the one-shot clear armed by a failure render. The first
// click on any armed input clears every tracked field and detaches all of
// its listeners.
type acknowledgement struct {
	state    ackState
	releases map[string]func()
	order    []string
}

// arm attaches the clear listener to fields. A still-armed acknowledgement
// is extended so every marked input keeps a listener; each input holds at
// most one. Callers hold h.mu.
func (h *Handler) arm(fields []dom.Field) {
	if len(fields) == 0 {
		return
	}
	if h.ack == nil || h.ack.state != ackArmed {
		h.ack = &acknowledgement{releases: make(map[string]func())}
	}
	ack := h.ack
	for _, field := range fields {
		if _, ok := ack.releases[field.Name]; ok {
			continue
		}
		ack.releases[field.Name] = field.Input.OnClick(func() {
			h.consume(ack)
		})
		ack.order = append(ack.order, field.Name)
	}
}

// consume fires ack once.
func (h *Handler) consume(ack *acknowledgement) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ack == nil || ack.state != ackArmed {
		return false
	}
	ack.state = ackConsumed
	for _, name := range ack.order {
		ack.releases[name]()
	}
	ack.releases = nil
	ack.order = nil

	for _, name := range h.profile.Fields {
		field, err := h.resolver.Resolve(name)
		if err != nil {
			h.logger.Printf("submit: %s: clear %q: %v", h.profile.Name, name, err)
			continue
		}
		field.Input.RemoveClass(h.invalidClass)
		field.Feedback.SetText("")
	}
	return true
}

// Acknowledge fires the armed clear as if an invalid input had been clicked.
// It reports whether anything was armed.
func (h *Handler) Acknowledge() bool {
	h.mu.Lock()
	ack := h.ack
	h.mu.Unlock()
	return h.consume(ack)
}

// Armed reports whether a failure render is waiting for acknowledgement.
func (h *Handler) Armed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ack != nil && h.ack.state == ackArmed
}

// ArmedFields lists the inputs currently holding a clear listener.
func (h *Handler) ArmedFields() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ack == nil || h.ack.state != ackArmed {
		return nil
	}
	return append([]string(nil), h.ack.order...)
}
