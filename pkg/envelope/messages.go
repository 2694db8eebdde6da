package envelope

import "strings"

// NBSP is the non-breaking space that separates rendered messages.
const NBSP = "\u00a0"

// MessageSuffix terminates every rendered message.
const MessageSuffix = "." + NBSP

// Format concatenates the non-nil messages of errs, each followed by
// MessageSuffix, preserving list order.
func Format(errs []FieldError) string {
	var b strings.Builder
	for _, err := range errs {
		if err.Message == nil {
			continue
		}
		b.WriteString(*err.Message)
		b.WriteString(MessageSuffix)
	}
	return b.String()
}

// FormatFirst formats only the first error of errs. It returns "" when the
// list is empty or the first message is nil.
func FormatFirst(errs []FieldError) string {
	if len(errs) == 0 {
		return ""
	}
	return Format(errs[:1])
}
