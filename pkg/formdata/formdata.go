// Package formdata serializes form entries into the flat JSON object the
// submit endpoints expect.
package formdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Entry is a single name/value pair as collected from a form. File controls
// are reported with File set and serialize to an empty object.
type Entry struct {
	Name  string
	Value string
	File  bool
}

// Source yields the entries currently present in a form.
type Source interface {
	Entries() []Entry
}

// Entries adapts a slice to Source.
type Entries []Entry

// Entries implements Source.
func (e Entries) Entries() []Entry {
	return e
}

// Marshal encodes entries as a flat JSON object. Keys keep the position of
// their first appearance while values come from their last one.
func Marshal(entries []Entry) ([]byte, error) {
	order := make([]string, 0, len(entries))
	last := make(map[string]Entry, len(entries))
	for _, entry := range entries {
		if _, seen := last[entry.Name]; !seen {
			order = append(order, entry.Name)
		}
		last[entry.Name] = entry
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("formdata: encode key %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')

		entry := last[name]
		if entry.File {
			buf.WriteString("{}")
			continue
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("formdata: encode value for %q: %w", name, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FromMap builds entries from values in the order given by names. Names
// missing from values are skipped.
func FromMap(names []string, values map[string]string) []Entry {
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		value, ok := values[trimmed]
		if trimmed == "" || !ok {
			continue
		}
		out = append(out, Entry{Name: trimmed, Value: value})
	}
	return out
}
