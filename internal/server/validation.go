package server

import (
	"context"
	"errors"
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formsubmit/internal/server/store"
	"github.com/goliatone/go-formsubmit/pkg/envelope"
)

const (
	codeLength            = "length"
	codeEmail             = "email"
	codeRegex             = "regex"
	codeMustMatch         = "must_match"
	codeInvalid           = "invalid"
	codeRegistrationError = "registration_error"
)

var (
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	numberPattern  = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`\W`)
	noSpacePattern = regexp.MustCompile(`^[^ ]+$`)
)

// LoginForm is the body of POST /login.
type LoginForm struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// RegisterForm is the body of POST /register.
type RegisterForm struct {
	FirstName       string `json:"first_name" form:"first_name"`
	LastName        string `json:"last_name" form:"last_name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// check reports a failure for value, or ok when the value passes.
type check func(value string) (envelope.FieldError, bool)

// formValidator runs field checks in declaration order and collects failures
// into a 400 envelope.
type formValidator struct {
	env *envelope.Envelope
}

func newFormValidator() *formValidator {
	return &formValidator{}
}

func (v *formValidator) field(name, value string, checks ...check) {
	for _, c := range checks {
		if fe, ok := c(value); !ok {
			v.add(name, fe)
		}
	}
}

func (v *formValidator) add(name string, errs ...envelope.FieldError) {
	if v.env == nil {
		v.env = envelope.New(400)
	}
	v.env.Add(name, errs...)
}

// result returns nil when every check passed.
func (v *formValidator) result() *envelope.Envelope {
	return v.env
}

func params(value string, secret bool, extra map[string]any) map[string]any {
	out := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		out[k] = v
	}
	if !secret {
		out["value"] = value
	}
	return out
}

func minLength(min int, message string, secret bool) check {
	return func(value string) (envelope.FieldError, bool) {
		if utf8.RuneCountInString(value) >= min {
			return envelope.FieldError{}, true
		}
		return envelope.FieldError{
			Code:    codeLength,
			Message: envelope.Message(message),
			Params:  params(value, secret, map[string]any{"min": min}),
		}, false
	}
}

func matches(pattern *regexp.Regexp, message string) check {
	return func(value string) (envelope.FieldError, bool) {
		if pattern.MatchString(value) {
			return envelope.FieldError{}, true
		}
		return envelope.FieldError{
			Code:    codeRegex,
			Message: envelope.Message(message),
			Params:  params(value, true, nil),
		}, false
	}
}

func mustMatch(other, otherValue, message string) check {
	return func(value string) (envelope.FieldError, bool) {
		if value == otherValue {
			return envelope.FieldError{}, true
		}
		return envelope.FieldError{
			Code:    codeMustMatch,
			Message: envelope.Message(message),
			Params:  params(value, true, map[string]any{"other": other}),
		}, false
	}
}

func emailFormat(validate *validator.Validate) check {
	return func(value string) (envelope.FieldError, bool) {
		if validate.Var(value, "email") == nil {
			return envelope.FieldError{}, true
		}
		return envelope.FieldError{
			Code:   codeEmail,
			Params: params(value, false, nil),
		}, false
	}
}

func passwordRules() []check {
	return []check{
		matches(upperPattern, "Password must contain at least one uppercase character"),
		matches(lowerPattern, "Password must contain at least one lowercase character"),
		matches(numberPattern, "Password must contain at least one number"),
		matches(specialPattern, "Password must contain at least one special character"),
		matches(noSpacePattern, "Password must not contain spaces"),
	}
}

// checkLogin validates a login attempt. The credential check always runs,
// also when a field rule already failed.
func (s *Server) checkLogin(ctx context.Context, in LoginForm) (store.User, *envelope.Envelope) {
	v := newFormValidator()
	v.field("email", in.Email,
		minLength(1, "Email required", false),
		emailFormat(s.validate),
	)
	v.field("password", in.Password,
		minLength(1, "Password Required", true),
	)

	user, err := s.store.FindByEmail(ctx, in.Email)
	switch {
	case err == nil && user.CheckPassword(in.Password):
	case err != nil && !errors.Is(err, store.ErrNotFound):
		s.logf("login lookup failed: %v", err)
		fallthrough
	default:
		v.add(envelope.GlobalKey, envelope.FieldError{
			Code:    codeInvalid,
			Message: envelope.Message("Invalid Credentials"),
		})
	}
	return user, v.result()
}

// checkRegistration validates a registration request.
func (s *Server) checkRegistration(ctx context.Context, in RegisterForm) *envelope.Envelope {
	v := newFormValidator()
	v.field("first_name", in.FirstName, minLength(1, "First name required", false))
	v.field("last_name", in.LastName, minLength(1, "Last name required", false))
	v.field("email", in.Email,
		s.uniqueEmail(ctx),
		emailFormat(s.validate),
		minLength(1, "Email required", false),
	)

	passwordChecks := append(passwordRules(),
		mustMatch("confirm_password", in.ConfirmPassword, "Passwords must match"),
		minLength(8, "Password must be at least 8 characters", true),
		minLength(1, "Password required", true),
	)
	v.field("password", in.Password, passwordChecks...)

	confirmChecks := append([]check{
		minLength(1, "Password confirmation required", true),
		minLength(8, "Password must be at least 8 characters", true),
		mustMatch("password", in.Password, "Passwords must match"),
	}, passwordRules()...)
	v.field("confirm_password", in.ConfirmPassword, confirmChecks...)

	return v.result()
}

func (s *Server) uniqueEmail(ctx context.Context) check {
	return func(value string) (envelope.FieldError, bool) {
		count, err := s.store.CountByEmail(ctx, value)
		if err != nil {
			s.logf("email lookup failed: %v", err)
		}
		if err == nil && count == 0 {
			return envelope.FieldError{}, true
		}
		return envelope.FieldError{
			Code:   codeEmail,
			Params: params(value, false, nil),
		}, false
	}
}

func registrationFailed() *envelope.Envelope {
	return envelope.New(400).Add(envelope.GlobalKey, envelope.FieldError{
		Code:    codeRegistrationError,
		Message: envelope.Message("An error occured during registration"),
	})
}
