//go:build js && wasm

// Package jsdom binds the dom contracts to the browser document through
// syscall/js.
package jsdom

import (
	"strings"
	"sync"
	"syscall/js"

	"github.com/goliatone/go-formsubmit/pkg/dom"
	"github.com/goliatone/go-formsubmit/pkg/formdata"
)

// Document resolves fields with document.getElementById.
type Document struct {
	doc    js.Value
	prefix string
}

// NewDocument wraps the global document. An empty prefix selects
// dom.FeedbackPrefix.
func NewDocument(prefix string) *Document {
	return &Document{
		doc:    js.Global().Get("document"),
		prefix: prefix,
	}
}

// Resolve implements dom.Resolver.
func (d *Document) Resolve(name string) (dom.Field, error) {
	input, err := d.byID(name)
	if err != nil {
		return dom.Field{}, err
	}
	feedback, err := d.byID(dom.FeedbackID(d.prefix, name))
	if err != nil {
		return dom.Field{}, err
	}
	return dom.Field{Name: name, Input: input, Feedback: feedback}, nil
}

// Element returns the element with id.
func (d *Document) Element(id string) (*Element, error) {
	return d.byID(id)
}

func (d *Document) byID(id string) (*Element, error) {
	value := d.doc.Call("getElementById", id)
	if value.IsNull() || value.IsUndefined() {
		return nil, dom.NotFound(id)
	}
	return &Element{value: value}, nil
}

// Element wraps a DOM node.
type Element struct {
	value js.Value
}

var (
	_ dom.Input    = (*Element)(nil)
	_ dom.Feedback = (*Element)(nil)
)

// Text implements dom.Feedback.
func (e *Element) Text() string {
	return e.value.Get("innerText").String()
}

// SetText implements dom.Feedback.
func (e *Element) SetText(text string) {
	e.value.Set("innerText", text)
}

// Attribute returns the named attribute, or "" when it is absent.
func (e *Element) Attribute(name string) string {
	value := e.value.Call("getAttribute", name)
	if value.IsNull() || value.IsUndefined() {
		return ""
	}
	return value.String()
}

// AddClass implements dom.Input.
func (e *Element) AddClass(name string) {
	e.value.Get("classList").Call("add", name)
}

// RemoveClass implements dom.Input.
func (e *Element) RemoveClass(name string) {
	e.value.Get("classList").Call("remove", name)
}

// HasClass implements dom.Input.
func (e *Element) HasClass(name string) bool {
	return e.value.Get("classList").Call("contains", name).Bool()
}

// OnClick implements dom.Input. The listener runs on its own goroutine so it
// never blocks the browser event loop.
func (e *Element) OnClick(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		go fn()
		return nil
	})
	e.value.Call("addEventListener", "click", cb)

	var once sync.Once
	return func() {
		once.Do(func() {
			e.value.Call("removeEventListener", "click", cb)
			cb.Release()
		})
	}
}

// Form collects entries with the browser FormData API.
type Form struct {
	value js.Value
}

// Entries implements formdata.Source.
func (f Form) Entries() []formdata.Entry {
	data := js.Global().Get("FormData").New(f.value)
	iter := data.Call("entries")

	var out []formdata.Entry
	for {
		next := iter.Call("next")
		if next.Get("done").Bool() {
			break
		}
		pair := next.Get("value")
		name := pair.Index(0).String()
		value := pair.Index(1)
		if value.Type() != js.TypeString {
			out = append(out, formdata.Entry{Name: name, File: true})
			continue
		}
		out = append(out, formdata.Entry{Name: name, Value: value.String()})
	}
	return out
}

// Event wraps a submit event.
type Event struct {
	value js.Value
}

// PreventDefault cancels native submission.
func (e Event) PreventDefault() {
	e.value.Call("preventDefault")
}

// Form returns the form that dispatched the event.
func (e Event) Form() formdata.Source {
	return Form{value: e.value.Get("target")}
}

// BindSubmit attaches fn to the submit event of the form with formID. Native
// submission is cancelled synchronously before fn runs on its own goroutine.
// The returned function detaches the listener.
func BindSubmit(formID string, fn func(Event)) (func(), error) {
	form := js.Global().Get("document").Call("getElementById", strings.TrimSpace(formID))
	if form.IsNull() || form.IsUndefined() {
		return nil, dom.NotFound(formID)
	}

	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		ev := Event{value: args[0]}
		ev.PreventDefault()
		go fn(ev)
		return nil
	})
	form.Call("addEventListener", "submit", cb)

	var once sync.Once
	return func() {
		once.Do(func() {
			form.Call("removeEventListener", "submit", cb)
			cb.Release()
		})
	}, nil
}

// Navigate points window.location at target.
func Navigate(target string) {
	if strings.TrimSpace(target) == "" {
		return
	}
	js.Global().Get("window").Get("location").Set("href", target)
}

// Origin returns window.location.origin.
func Origin() string {
	return js.Global().Get("window").Get("location").Get("origin").String()
}
