package submit

import "github.com/goliatone/go-formsubmit/pkg/envelope"

// Kind classifies a submission outcome.
type Kind int

const (
	// KindError means the submission failed before a response was rendered.
	KindError Kind = iota
	// KindSuccess means the response status matched the profile.
	KindSuccess
	// KindGlobalFailure means a lone __all__ error was fanned out.
	KindGlobalFailure
	// KindFieldFailure means errors were rendered per field.
	KindFieldFailure
	// KindStale means a newer submission started before this one resolved.
	KindStale
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindGlobalFailure:
		return "global_failure"
	case KindFieldFailure:
		return "field_failure"
	case KindStale:
		return "stale"
	default:
		return "error"
	}
}

// Failed reports whether errors were rendered.
func (k Kind) Failed() bool {
	return k == KindGlobalFailure || k == KindFieldFailure
}

// Result describes one submission.
type Result struct {
	Kind     Kind
	Envelope envelope.Envelope
	// Sequence is the submission's position in the handler's request order.
	Sequence uint64
	// Invalid lists the tracked fields marked invalid, in profile order.
	Invalid []string
}
