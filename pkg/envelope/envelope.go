// Package envelope decodes and builds the JSON bodies exchanged with the
// login and register endpoints: a numeric status plus zero or more
// field-error lists keyed by field name, where the reserved key __all__
// carries errors that are not attributable to a single field.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	// GlobalKey marks form-level (cross-field) errors.
	GlobalKey = "__all__"
	// StatusKey holds the response status code.
	StatusKey = "status"
)

// ErrMalformed is returned when a body is not a single JSON object.
var ErrMalformed = errors.New("envelope: malformed response body")

// FieldError is one validation failure. Only Message is rendered; a nil
// Message is skipped by the renderer.
type FieldError struct {
	Code    string         `json:"code,omitempty"`
	Message *string        `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

// Message returns a pointer to text, for building FieldError literals.
func Message(text string) *string {
	return &text
}

// Text returns the message or "" when it is nil.
func (f FieldError) Text() string {
	if f.Message == nil {
		return ""
	}
	return *f.Message
}

// Envelope is a decoded response body.
type Envelope struct {
	// Status is the body's status value, or the transport status when the
	// body carried none (see WithFallbackStatus). A status that is not a bare
	// JSON integer ("200", 200.5, null) decodes as 0 so it never equals a
	// success code.
	Status int
	// HasStatus reports whether the body itself carried a status key.
	HasStatus bool

	keys   []string
	errors map[string][]FieldError
	extra  map[string]json.RawMessage
}

// New creates an envelope carrying status.
func New(status int) *Envelope {
	return &Envelope{Status: status, HasStatus: true}
}

// Decode parses body into an Envelope, keeping the document order of keys.
func Decode(body []byte) (Envelope, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Envelope{}, fmt.Errorf("%w: expected a JSON object", ErrMalformed)
	}

	env := Envelope{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return Envelope{}, fmt.Errorf("%w: key %q: %v", ErrMalformed, key, err)
		}

		if key == StatusKey {
			env.Status = decodeStatus(raw)
			env.HasStatus = true
			continue
		}
		env.put(key, raw)
	}

	if _, err := dec.Token(); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Envelope{}, fmt.Errorf("%w: trailing data after object", ErrMalformed)
	}
	return env, nil
}

// WithFallbackStatus returns a copy that uses status when the body did not
// carry one.
func (e Envelope) WithFallbackStatus(status int) Envelope {
	if !e.HasStatus {
		e.Status = status
	}
	return e
}

// decodeStatus returns raw as an int, or 0 when raw is not a bare JSON
// integer. Quoted numbers are strings, not statuses.
func decodeStatus(raw json.RawMessage) int {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return 0
	}
	num, ok := value.(json.Number)
	if !ok {
		return 0
	}
	status, err := num.Int64()
	if err != nil {
		return 0
	}
	return int(status)
}

func (e *Envelope) put(key string, raw json.RawMessage) {
	if _, exists := e.lookup(key); !exists {
		e.keys = append(e.keys, key)
	}

	var list []FieldError
	if err := json.Unmarshal(raw, &list); err == nil {
		if e.errors == nil {
			e.errors = make(map[string][]FieldError)
		}
		if list == nil {
			list = []FieldError{}
		}
		e.errors[key] = list
		delete(e.extra, key)
		return
	}

	if e.extra == nil {
		e.extra = make(map[string]json.RawMessage)
	}
	e.extra[key] = append(json.RawMessage(nil), raw...)
	delete(e.errors, key)
}

func (e *Envelope) lookup(key string) (any, bool) {
	if list, ok := e.errors[key]; ok {
		return list, true
	}
	if raw, ok := e.extra[key]; ok {
		return raw, true
	}
	return nil, false
}

// Keys returns every key except status, in document order.
func (e Envelope) Keys() []string {
	return append([]string(nil), e.keys...)
}

// Errors returns the error list stored under key. ok is false when the key
// is absent or does not hold a list of error objects.
func (e Envelope) Errors(key string) ([]FieldError, bool) {
	list, ok := e.errors[key]
	return list, ok
}

// Global returns the __all__ list.
func (e Envelope) Global() ([]FieldError, bool) {
	return e.Errors(GlobalKey)
}

// IsGlobal reports whether __all__ is the only key besides status and holds
// at least one error.
func (e Envelope) IsGlobal() bool {
	if len(e.keys) != 1 || e.keys[0] != GlobalKey {
		return false
	}
	list, ok := e.errors[GlobalKey]
	return ok && len(list) > 0
}

// String decodes a non-error key holding a JSON string.
func (e Envelope) String(key string) (string, bool) {
	raw, ok := e.extra[key]
	if !ok {
		return "", false
	}
	var out string
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", false
	}
	return out, true
}

// Add appends errs under key.
func (e *Envelope) Add(key string, errs ...FieldError) *Envelope {
	if _, exists := e.lookup(key); !exists {
		e.keys = append(e.keys, key)
	}
	if e.errors == nil {
		e.errors = make(map[string][]FieldError)
	}
	delete(e.extra, key)
	e.errors[key] = append(e.errors[key], errs...)
	return e
}

// Set stores an arbitrary JSON value under key.
func (e *Envelope) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("envelope: encode %q: %w", key, err)
	}
	if _, exists := e.lookup(key); !exists {
		e.keys = append(e.keys, key)
	}
	delete(e.errors, key)
	if e.extra == nil {
		e.extra = make(map[string]json.RawMessage)
	}
	e.extra[key] = raw
	return nil
}

// Empty reports whether no error lists were recorded.
func (e Envelope) Empty() bool {
	return len(e.errors) == 0
}

// MarshalJSON writes status first, followed by the other keys in order.
func (e Envelope) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	written := 0
	if e.HasStatus {
		fmt.Fprintf(&buf, "%q:%d", StatusKey, e.Status)
		written++
	}
	for _, key := range e.keys {
		var (
			value []byte
			err   error
		)
		if list, ok := e.errors[key]; ok {
			value, err = json.Marshal(list)
			if err != nil {
				return nil, fmt.Errorf("envelope: encode %q: %w", key, err)
			}
		} else if raw, ok := e.extra[key]; ok {
			value = raw
		} else {
			continue
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		if written > 0 {
			buf.WriteByte(',')
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
		written++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
