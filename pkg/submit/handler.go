package submit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formsubmit/pkg/dom"
	"github.com/goliatone/go-formsubmit/pkg/envelope"
	"github.com/goliatone/go-formsubmit/pkg/formdata"
	"github.com/goliatone/go-formsubmit/pkg/theming"
	"github.com/goliatone/go-formsubmit/pkg/transport"
)

var (
	// ErrNilEvent is returned when Submit receives no event.
	ErrNilEvent = errors.New("submit: event is nil")
	// ErrNoResolver is returned by New when no resolver is supplied.
	ErrNoResolver = errors.New("submit: resolver is required")
	// ErrNoClient is returned by New when no transport client is supplied.
	ErrNoClient = errors.New("submit: transport client is required")
)

// Handler intercepts submissions of one form profile.
type Handler struct {
	profile  Profile
	resolver dom.Resolver
	client   transport.Client
	logger   Logger

	invalidClass     string
	discardStale     bool
	transportMessage string
	onSuccess        func(envelope.Envelope)

	themeSelector theme.ThemeSelector
	themeName     string
	themeVariant  string

	mu  sync.Mutex
	seq uint64
	ack *acknowledgement
}

// New builds a handler for profile that resolves fields through resolver
// and posts through client.
func New(profile Profile, resolver dom.Resolver, client transport.Client, options ...Option) (*Handler, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if resolver == nil {
		return nil, ErrNoResolver
	}
	if client == nil {
		return nil, ErrNoClient
	}

	h := &Handler{
		profile:  profile.Clone(),
		resolver: resolver,
		client:   client,
		logger:   nopLogger{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}

	if h.invalidClass == "" && h.themeSelector != nil {
		class, err := theming.InvalidClass(h.themeSelector, h.themeName, h.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("submit: profile %q: %w", h.profile.Name, err)
		}
		h.invalidClass = class
	}
	if h.invalidClass == "" {
		h.invalidClass = theming.DefaultInvalidClass
	}
	return h, nil
}

// Name returns the profile name.
func (h *Handler) Name() string {
	return h.profile.Name
}

// Profile returns a copy of the handler profile.
func (h *Handler) Profile() Profile {
	return h.profile.Clone()
}

// InvalidClass returns the class added to invalid inputs.
func (h *Handler) InvalidClass() string {
	return h.invalidClass
}

// Submit runs one submission: it prevents the native submit, clears every
// tracked feedback element, posts the form entries as JSON and renders the
// response. Transport and decode failures are returned wrapped; validation
// failures are rendered and reported through Result.Kind.
func (h *Handler) Submit(ctx context.Context, ev Event) (Result, error) {
	if ev == nil {
		return Result{Kind: KindError}, ErrNilEvent
	}
	ev.PreventDefault()
	if ctx == nil {
		ctx = context.Background()
	}

	seq, err := h.begin()
	if err != nil {
		return Result{Kind: KindError}, err
	}

	var entries []formdata.Entry
	if src := ev.Form(); src != nil {
		entries = src.Entries()
	}
	payload, err := formdata.Marshal(entries)
	if err != nil {
		return Result{Kind: KindError, Sequence: seq}, fmt.Errorf("submit: %s: %w", h.profile.Name, err)
	}

	resp, err := h.client.PostJSON(ctx, h.profile.Endpoint, payload)
	if err != nil {
		return h.fail(seq, fmt.Errorf("submit: %s: %w", h.profile.Name, err))
	}

	env, err := envelope.Decode(resp.Body)
	if err != nil {
		return h.fail(seq, fmt.Errorf("submit: %s: status %d: %w", h.profile.Name, resp.StatusCode, err))
	}
	return h.finish(seq, env.WithFallbackStatus(resp.StatusCode))
}

// begin clears the feedback text of every tracked field and allocates the
// submission sequence number.
func (h *Handler) begin() (uint64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fields, err := dom.ResolveAll(h.resolver, h.profile.Fields)
	if err != nil {
		return 0, fmt.Errorf("submit: %s: %w", h.profile.Name, err)
	}
	for _, field := range fields {
		field.Feedback.SetText("")
	}
	h.seq++
	return h.seq, nil
}

func (h *Handler) stale(seq uint64) bool {
	return h.discardStale && seq != h.seq
}

func (h *Handler) finish(seq uint64, env envelope.Envelope) (Result, error) {
	h.mu.Lock()

	result := Result{Envelope: env, Sequence: seq}
	if h.stale(seq) {
		latest := h.seq
		h.mu.Unlock()
		h.logger.Printf("submit: %s: discarding response %d, newer submission %d in flight", h.profile.Name, seq, latest)
		result.Kind = KindStale
		return result, nil
	}

	if env.Status == h.profile.SuccessStatus {
		h.mu.Unlock()
		result.Kind = KindSuccess
		if h.onSuccess != nil {
			h.onSuccess(env)
		}
		return result, nil
	}

	fields, err := dom.ResolveAll(h.resolver, h.profile.Fields)
	if err != nil {
		h.mu.Unlock()
		result.Kind = KindError
		return result, fmt.Errorf("submit: %s: %w", h.profile.Name, err)
	}

	if h.profile.GlobalErrors && env.IsGlobal() {
		global, _ := env.Global()
		result.Kind = KindGlobalFailure
		result.Invalid = h.renderGlobal(fields, envelope.FormatFirst(global))
	} else {
		result.Kind = KindFieldFailure
		result.Invalid = h.renderFields(fields, env)
	}
	h.mu.Unlock()
	return result, nil
}

// fail logs err and, when a transport error message is configured, renders
// it like a global failure.
func (h *Handler) fail(seq uint64, err error) (Result, error) {
	h.logger.Printf("%v", err)
	result := Result{Kind: KindError, Sequence: seq}
	if h.transportMessage == "" {
		return result, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stale(seq) {
		return result, err
	}
	fields, resolveErr := dom.ResolveAll(h.resolver, h.profile.Fields)
	if resolveErr != nil {
		return result, errors.Join(err, resolveErr)
	}
	text := envelope.Format([]envelope.FieldError{{Message: envelope.Message(h.transportMessage)}})
	result.Invalid = h.renderGlobal(fields, text)
	return result, err
}
