package parser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formsubmit/pkg/submit"
)

const (
	// GlobalErrorsExtension enables __all__ fan-out for an operation.
	GlobalErrorsExtension = "x-formsubmit-global-errors"
	// ProfileExtension overrides the profile name of an operation.
	ProfileExtension = "x-formsubmit-profile"
	// IgnoreExtension excludes a POST operation from profile extraction.
	IgnoreExtension = "x-formsubmit-ignore"
)

// Options tune document loading.
type Options struct {
	// ResolveReferences allows external $refs and validates the document.
	ResolveReferences bool
	// AllowEmpty returns an empty profile list instead of an error when the
	// document has no usable POST operations.
	AllowEmpty bool
}

// Parser derives submit profiles from OpenAPI documents using kin-openapi.
type Parser struct {
	options Options
}

// New constructs a Parser with the given options.
func New(options Options) *Parser {
	return &Parser{options: options}
}

// Profiles returns one profile per POST operation with a form request body,
// sorted by name.
func (p *Parser) Profiles(ctx context.Context, raw []byte) ([]submit.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ResolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	byName := make(map[string]submit.Profile)
	if spec.Paths != nil {
		for path, item := range spec.Paths.Map() {
			if item == nil || item.Post == nil {
				continue
			}
			profile, ok, err := profileFor(path, item.Post)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if _, exists := byName[profile.Name]; exists {
				return nil, fmt.Errorf("openapi parser: duplicate profile %q (path %s)", profile.Name, path)
			}
			byName[profile.Name] = profile
		}
	}

	if len(byName) == 0 && !p.options.AllowEmpty {
		return nil, errors.New("openapi parser: no form operations extracted")
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	profiles := make([]submit.Profile, 0, len(names))
	for _, name := range names {
		profiles = append(profiles, byName[name])
	}
	return profiles, nil
}

func profileFor(path string, operation *openapi3.Operation) (submit.Profile, bool, error) {
	if flag, _ := operation.Extensions[IgnoreExtension].(bool); flag {
		return submit.Profile{}, false, nil
	}

	fields := requestFields(operation.RequestBody)
	if len(fields) == 0 {
		return submit.Profile{}, false, nil
	}
	status, ok := successStatus(operation.Responses)
	if !ok {
		return submit.Profile{}, false, nil
	}

	profile := submit.Profile{
		Name:          profileName(path, operation),
		Endpoint:      path,
		SuccessStatus: status,
		Fields:        fields,
		GlobalErrors:  boolExtension(operation.Extensions[GlobalErrorsExtension]),
	}
	if err := profile.Validate(); err != nil {
		return submit.Profile{}, false, fmt.Errorf("openapi parser: %s: %w", path, err)
	}
	return profile, true, nil
}

func profileName(path string, operation *openapi3.Operation) string {
	if name, ok := operation.Extensions[ProfileExtension].(string); ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	if operation.OperationID != "" {
		return operation.OperationID
	}
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "root"
	}
	return strings.ReplaceAll(trimmed, "/", "_")
}

// successStatus picks the lowest explicit 2xx response code.
func successStatus(responses *openapi3.Responses) (int, bool) {
	if responses == nil || responses.Len() == 0 {
		return 0, false
	}
	best := 0
	for code := range responses.Map() {
		status, err := strconv.Atoi(code)
		if err != nil {
			continue
		}
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			continue
		}
		if best == 0 || status < best {
			best = status
		}
	}
	return best, best != 0
}

func boolExtension(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && parsed
	default:
		return false
	}
}
