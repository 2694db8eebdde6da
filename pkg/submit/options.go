package submit

import (
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formsubmit/pkg/envelope"
)

// Logger is the logging surface the handler needs. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger routes transport, decode and stale-response diagnostics to
// logger.
func WithLogger(logger Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithInvalidClass overrides the class added to invalid inputs. It takes
// precedence over WithTheme.
func WithInvalidClass(class string) Option {
	return func(h *Handler) {
		if class = strings.TrimSpace(class); class != "" {
			h.invalidClass = class
		}
	}
}

// WithTheme resolves the invalid class from the forms.invalid_class token of
// the selected theme when the handler is created.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(h *Handler) {
		h.themeSelector = selector
		h.themeName = name
		h.themeVariant = variant
	}
}

// WithDiscardStale drops responses that arrive after a newer submission has
// started. Without it the last response to resolve is rendered.
func WithDiscardStale(enabled bool) Option {
	return func(h *Handler) {
		h.discardStale = enabled
	}
}

// WithTransportErrorMessage renders message on every tracked field when the
// request fails or the response cannot be decoded. Without it such failures
// are only returned and logged.
func WithTransportErrorMessage(message string) Option {
	return func(h *Handler) {
		h.transportMessage = strings.TrimSpace(message)
	}
}

// WithOnSuccess registers fn to receive the envelope of successful responses.
// It runs on the submitting goroutine after the handler lock is released.
func WithOnSuccess(fn func(envelope.Envelope)) Option {
	return func(h *Handler) {
		h.onSuccess = fn
	}
}
