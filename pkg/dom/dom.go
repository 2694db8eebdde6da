package dom

import (
	"errors"
	"fmt"
	"strings"
)

// FeedbackPrefix is prepended to a field name to obtain the id of the element
// that displays its validation feedback.
const FeedbackPrefix = "validation_"

// ErrElementNotFound is returned when a tracked field does not resolve to both
// its input and feedback elements.
var ErrElementNotFound = errors.New("dom: element not found")

// Feedback is the element that displays a field's error text.
type Feedback interface {
	Text() string
	SetText(text string)
}

// Input is the form control a field name refers to.
type Input interface {
	AddClass(name string)
	RemoveClass(name string)
	HasClass(name string) bool
	// OnClick registers fn as a click listener. The returned function detaches
	// it; calling it more than once is a no-op.
	OnClick(fn func()) (release func())
}

// Field pairs the handles that belong to one tracked field.
type Field struct {
	Name     string
	Input    Input
	Feedback Feedback
}

// Resolver maps a field name onto its handles.
type Resolver interface {
	Resolve(name string) (Field, error)
}

// Fields is a Resolver backed by an explicit name → handles map.
type Fields map[string]Field

// Resolve implements Resolver.
func (f Fields) Resolve(name string) (Field, error) {
	field, ok := f[name]
	if !ok || field.Input == nil || field.Feedback == nil {
		return Field{}, NotFound(name)
	}
	if field.Name == "" {
		field.Name = name
	}
	return field, nil
}

// FeedbackID returns the feedback element id for a field using prefix, or
// FeedbackPrefix when prefix is empty.
func FeedbackID(prefix, name string) string {
	if strings.TrimSpace(prefix) == "" {
		prefix = FeedbackPrefix
	}
	return prefix + name
}

// NotFound wraps ErrElementNotFound with the offending id.
func NotFound(id string) error {
	return fmt.Errorf("%w: %q", ErrElementNotFound, id)
}

// ResolveAll resolves names in order and stops at the first failure.
func ResolveAll(r Resolver, names []string) ([]Field, error) {
	if r == nil {
		return nil, errors.New("dom: resolver is nil")
	}
	out := make([]Field, 0, len(names))
	for _, name := range names {
		field, err := r.Resolve(name)
		if err != nil {
			return nil, err
		}
		out = append(out, field)
	}
	return out, nil
}
