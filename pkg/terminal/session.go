// Package terminal drives a submit handler from the command line. Survey
// prompts stand in for the form inputs, an in-memory document receives the
// rendered feedback, and confirming the retry prompt clicks an invalid input
// so the one-shot clear runs exactly as it does in the browser.
package terminal

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-formsubmit/pkg/dom/memdom"
	"github.com/goliatone/go-formsubmit/pkg/envelope"
	"github.com/goliatone/go-formsubmit/pkg/formdata"
	"github.com/goliatone/go-formsubmit/pkg/submit"
)

// Session repeats prompt, submit and feedback until the handler reports
// success.
type Session struct {
	handler     *submit.Handler
	doc         *memdom.Document
	driver      PromptDriver
	labels      map[string]string
	maxAttempts int
	theme       Theme

	values map[string]string
	hints  map[string]string
}

// New creates a session for handler. doc must be the resolver the handler was
// built with.
func New(handler *submit.Handler, doc *memdom.Document, options ...Option) (*Session, error) {
	if handler == nil {
		return nil, fmt.Errorf("terminal: handler is required")
	}
	if doc == nil {
		return nil, fmt.Errorf("terminal: document is required")
	}
	s := &Session{
		handler: handler,
		doc:     doc,
		labels:  make(map[string]string),
		theme:   Theme{ErrorPrefix: "  ✗ ", InfoPrefix: "  "},
		values:  make(map[string]string),
		hints:   make(map[string]string),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver()
	}
	return s, nil
}

// Run prompts for every tracked field and submits until success, abort or
// the attempt limit.
func (s *Session) Run(ctx context.Context) (submit.Result, error) {
	profile := s.handler.Profile()
	failures := 0

	for {
		entries, err := s.collect(ctx, profile.Fields)
		if err != nil {
			return submit.Result{Kind: submit.KindError}, err
		}

		result, submitErr := s.handler.Submit(ctx, submit.NewEvent(entries))
		switch {
		case result.Kind == submit.KindSuccess:
			if err := s.reportSuccess(ctx, profile, result.Envelope); err != nil {
				return result, err
			}
			return result, nil
		}
		if err := s.reportFeedback(ctx, profile.Fields); err != nil {
			return result, err
		}
		if err := s.reportFormErrors(ctx, profile.Fields, result, submitErr); err != nil {
			return result, err
		}

		failures++
		if s.maxAttempts > 0 && failures >= s.maxAttempts {
			if submitErr != nil {
				return result, fmt.Errorf("%w: %w", ErrTooManyAttempts, submitErr)
			}
			return result, ErrTooManyAttempts
		}

		retry, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: "Dismiss the errors and try again?",
			Default: true,
		})
		if err != nil {
			return result, err
		}
		if !retry {
			return result, ErrAborted
		}
		s.dismiss()
	}
}

func (s *Session) collect(ctx context.Context, fields []string) (formdata.Entries, error) {
	collected := make(map[string]string, len(fields))
	for _, name := range fields {
		cfg := InputConfig{
			Message: s.label(name),
			Help:    s.hints[name],
		}

		var (
			value string
			err   error
		)
		if isSecret(name) {
			value, err = s.driver.Password(ctx, cfg)
		} else {
			cfg.Default = s.values[name]
			value, err = s.driver.Input(ctx, cfg)
		}
		if err != nil {
			return nil, err
		}
		if !isSecret(name) {
			s.values[name] = value
		}
		collected[strings.TrimSpace(name)] = value
	}
	return formdata.Entries(formdata.FromMap(fields, collected)), nil
}

func (s *Session) reportSuccess(ctx context.Context, profile submit.Profile, env envelope.Envelope) error {
	msg := fmt.Sprintf("%s succeeded", profile.Name)
	if text, ok := env.String("message"); ok && text != "" {
		msg = text
	}
	if redirect, ok := env.String("redirect"); ok && redirect != "" {
		msg += " (next: " + redirect + ")"
	}
	return s.info(ctx, s.theme.InfoPrefix+msg)
}

// reportFeedback prints the rendered feedback and keeps it as prompt help
// for the next attempt.
func (s *Session) reportFeedback(ctx context.Context, fields []string) error {
	for _, name := range fields {
		text := s.feedback(name)
		s.hints[name] = text
		if text == "" {
			continue
		}
		if err := s.info(ctx, fmt.Sprintf("%s%s: %s", s.theme.ErrorPrefix, s.label(name), text)); err != nil {
			return err
		}
	}
	return nil
}

// reportFormErrors prints messages the page has no element for, such as a
// register __all__ error, followed by the submission error if any.
func (s *Session) reportFormErrors(ctx context.Context, fields []string, result submit.Result, submitErr error) error {
	var messages []string
	if result.Kind == submit.KindFieldFailure {
		messages = envelope.Map(result.Envelope, fields).Form
	}
	if submitErr != nil {
		messages = envelope.MergeFormErrors(messages, submitErr.Error())
	}
	for _, msg := range messages {
		if err := s.info(ctx, s.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
	return nil
}

// dismiss clicks the first armed input, firing the handler's one-shot clear.
func (s *Session) dismiss() {
	armed := s.handler.ArmedFields()
	if len(armed) == 0 {
		return
	}
	if el, ok := s.doc.Lookup(armed[0]); ok {
		el.Click()
	}
}

func (s *Session) feedback(name string) string {
	field, err := s.doc.Resolve(name)
	if err != nil {
		return ""
	}
	text := strings.ReplaceAll(field.Feedback.Text(), envelope.NBSP, " ")
	return strings.TrimSpace(text)
}

func (s *Session) label(name string) string {
	if label, ok := s.labels[name]; ok && label != "" {
		return label
	}
	return Humanize(name)
}

func (s *Session) info(ctx context.Context, msg string) error {
	return s.driver.Info(ctx, msg)
}

// Humanize turns a field name such as confirm_password into
// "Confirm Password".
func Humanize(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func isSecret(name string) bool {
	return strings.Contains(strings.ToLower(name), "password")
}

// ChooseProfile asks which of names to run.
func ChooseProfile(ctx context.Context, driver PromptDriver, names []string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("terminal: no profiles to choose from")
	}
	if len(names) == 1 {
		return names[0], nil
	}
	options := make([]string, len(names))
	for i, name := range names {
		options[i] = Humanize(name)
	}
	idx, err := driver.Select(ctx, SelectConfig{Message: "Which form?", Options: options})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(names) {
		return "", fmt.Errorf("terminal: selection %d out of range", idx)
	}
	return names[idx], nil
}
