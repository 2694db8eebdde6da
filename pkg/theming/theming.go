// Package theming resolves the CSS hooks the submit handlers apply from
// go-theme manifests, so a page can swap the Bootstrap "is-invalid" class for
// whatever its design system uses.
package theming

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

const (
	// TokenInvalidClass names the class added to invalid inputs.
	TokenInvalidClass = "forms.invalid_class"
	// DefaultInvalidClass is used when no theme overrides it.
	DefaultInvalidClass = "is-invalid"
)

// ErrThemeNotFound is returned when a selector has no manifest for a name.
var ErrThemeNotFound = errors.New("theming: theme not found")

// ManifestSelector is a theme.ThemeSelector over an in-memory manifest set.
type ManifestSelector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests and the defaults used when Select
// receives empty names.
func NewManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{
		manifests:      make(map[string]*theme.Manifest),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if err := s.Register(manifest); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a manifest. Duplicate names return an error.
func (s *ManifestSelector) Register(manifest *theme.Manifest) error {
	if manifest == nil {
		return errors.New("theming: manifest is required")
	}
	name := strings.TrimSpace(manifest.Name)
	if name == "" {
		return errors.New("theming: manifest name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.manifests[name]; exists {
		return fmt.Errorf("theming: manifest %q already registered", name)
	}
	s.manifests[name] = manifest
	return nil
}

// Names lists registered manifests.
func (s *ManifestSelector) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select implements theme.ThemeSelector. Unknown variants fall back to the
// manifest's base tokens.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.defaultVariant
	}

	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}

	return &theme.Selection{
		Theme:    manifest.Name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// Tokens merges the manifest tokens with the selected variant overrides.
func Tokens(selection *theme.Selection) map[string]string {
	out := make(map[string]string)
	if selection == nil || selection.Manifest == nil {
		return out
	}
	for key, value := range selection.Manifest.Tokens {
		out[key] = value
	}
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			out[key] = value
		}
	}
	return out
}

// InvalidClass resolves TokenInvalidClass through selector. A nil selector
// or a blank token yields DefaultInvalidClass.
func InvalidClass(selector theme.ThemeSelector, name, variant string) (string, error) {
	if selector == nil {
		return DefaultInvalidClass, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return "", fmt.Errorf("theming: select %q/%q: %w", name, variant, err)
	}
	if class := strings.TrimSpace(Tokens(selection)[TokenInvalidClass]); class != "" {
		return class, nil
	}
	return DefaultInvalidClass, nil
}
