// Package memdom is an in-memory implementation of the dom contracts. It backs
// the unit tests and the terminal client, and is safe for concurrent use.
package memdom

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formsubmit/pkg/dom"
)

// Document stores elements by id.
type Document struct {
	mu       sync.RWMutex
	elements map[string]*Element
	prefix   string
}

// Option configures a Document.
type Option func(*Document)

// WithFeedbackPrefix overrides the feedback id prefix (default "validation_").
func WithFeedbackPrefix(prefix string) Option {
	return func(d *Document) {
		if strings.TrimSpace(prefix) != "" {
			d.prefix = prefix
		}
	}
}

// New creates an empty document.
func New(options ...Option) *Document {
	d := &Document{
		elements: make(map[string]*Element),
		prefix:   dom.FeedbackPrefix,
	}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// NewWithFields creates a document holding an input and a feedback element
// for every name.
func NewWithFields(names []string, options ...Option) *Document {
	d := New(options...)
	for _, name := range names {
		d.AddField(name)
	}
	return d
}

// AddField creates (or returns) the input and feedback elements for name.
func (d *Document) AddField(name string) dom.Field {
	return dom.Field{
		Name:     name,
		Input:    d.Element(name),
		Feedback: d.Element(dom.FeedbackID(d.prefix, name)),
	}
}

// Element returns the element with id, creating it when missing.
func (d *Document) Element(id string) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.elements[id]; ok {
		return el
	}
	el := &Element{id: id, classes: make(map[string]struct{})}
	d.elements[id] = el
	return el
}

// Lookup returns the element with id without creating it.
func (d *Document) Lookup(id string) (*Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	el, ok := d.elements[id]
	return el, ok
}

// Remove deletes the element with id.
func (d *Document) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, id)
}

// IDs lists element ids in sorted order.
func (d *Document) IDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, 0, len(d.elements))
	for id := range d.elements {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve implements dom.Resolver.
func (d *Document) Resolve(name string) (dom.Field, error) {
	input, ok := d.Lookup(name)
	if !ok {
		return dom.Field{}, dom.NotFound(name)
	}
	feedbackID := dom.FeedbackID(d.prefix, name)
	feedback, ok := d.Lookup(feedbackID)
	if !ok {
		return dom.Field{}, dom.NotFound(feedbackID)
	}
	return dom.Field{Name: name, Input: input, Feedback: feedback}, nil
}

// Element implements both dom.Input and dom.Feedback.
type Element struct {
	id string

	mu        sync.Mutex
	text      string
	classes   map[string]struct{}
	listeners map[int]func()
	nextID    int
}

var (
	_ dom.Input    = (*Element)(nil)
	_ dom.Feedback = (*Element)(nil)
)

// ID returns the element id.
func (e *Element) ID() string {
	return e.id
}

// Text implements dom.Feedback.
func (e *Element) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

// SetText implements dom.Feedback.
func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
}

// AddClass implements dom.Input.
func (e *Element) AddClass(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.classes[name] = struct{}{}
}

// RemoveClass implements dom.Input.
func (e *Element) RemoveClass(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.classes, name)
}

// HasClass implements dom.Input.
func (e *Element) HasClass(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.classes[name]
	return ok
}

// Classes returns the element classes in sorted order.
func (e *Element) Classes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]string, 0, len(e.classes))
	for name := range e.classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// OnClick implements dom.Input.
func (e *Element) OnClick(fn func()) func() {
	if fn == nil {
		return func() {}
	}

	e.mu.Lock()
	if e.listeners == nil {
		e.listeners = make(map[int]func())
	}
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.listeners, id)
			e.mu.Unlock()
		})
	}
}

// Listeners reports how many click listeners are attached.
func (e *Element) Listeners() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Click dispatches a click to the listeners attached when it starts, in
// registration order.
func (e *Element) Click() {
	e.mu.Lock()
	ids := make([]int, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, e.listeners[id])
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
