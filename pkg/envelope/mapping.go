package envelope

import "strings"

// Mapping splits an envelope into messages for tracked fields and messages
// that belong to the form as a whole.
type Mapping struct {
	Fields map[string][]string
	Form   []string
}

// Map walks the error lists of env. Lists stored under a tracked field name
// land in Fields; form-level keys (__all__, non_field_errors, ...) and keys
// that match no tracked field land in Form so messages are not lost. Messages
// are trimmed, nil or blank ones dropped and duplicates removed while
// preserving order.
func Map(env Envelope, tracked []string) Mapping {
	mapping := Mapping{Fields: make(map[string][]string)}

	known := make(map[string]struct{}, len(tracked))
	for _, name := range tracked {
		known[strings.TrimSpace(name)] = struct{}{}
	}

	for _, key := range env.keys {
		list, ok := env.errors[key]
		if !ok {
			continue
		}
		messages := normalizeMessages(texts(list))
		if len(messages) == 0 {
			continue
		}

		name := strings.TrimSpace(key)
		if _, tracked := known[name]; tracked && !isFormLevelKey(name) {
			mapping.Fields[name] = append(mapping.Fields[name], messages...)
			continue
		}
		mapping.Form = append(mapping.Form, messages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// MergeFormErrors concatenates and normalises form-level messages.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func texts(list []FieldError) []string {
	out := make([]string, 0, len(list))
	for _, err := range list {
		if err.Message == nil {
			continue
		}
		out = append(out, *err.Message)
	}
	return out
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", GlobalKey, "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
