package submit

import (
	"github.com/goliatone/go-formsubmit/pkg/dom"
	"github.com/goliatone/go-formsubmit/pkg/envelope"
)

// renderGlobal marks every field invalid with the same text and arms the
// acknowledgement on all of them. Callers hold h.mu.
func (h *Handler) renderGlobal(fields []dom.Field, text string) []string {
	invalid := make([]string, 0, len(fields))
	for _, field := range fields {
		field.Input.AddClass(h.invalidClass)
		field.Feedback.SetText(text)
		invalid = append(invalid, field.Name)
	}
	h.arm(fields)
	return invalid
}

// renderFields paints each tracked field that has a non-empty error list.
// Fields without errors are left untouched. Callers hold h.mu.
func (h *Handler) renderFields(fields []dom.Field, env envelope.Envelope) []string {
	var (
		invalid []string
		marked  []dom.Field
	)
	for _, field := range fields {
		list, ok := env.Errors(field.Name)
		if !ok || len(list) == 0 {
			continue
		}
		field.Input.AddClass(h.invalidClass)
		field.Feedback.SetText(field.Feedback.Text() + envelope.Format(list))
		invalid = append(invalid, field.Name)
		marked = append(marked, field)
	}
	h.arm(marked)
	return invalid
}
