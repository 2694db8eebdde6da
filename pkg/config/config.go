// Package config loads the client-side configuration of the submit handlers
// from JSON or YAML: endpoint profiles, the API base URL, the stale-response
// guard, the transport error message and the theme tokens.
package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formsubmit/pkg/dom"
	"github.com/goliatone/go-formsubmit/pkg/submit"
	"github.com/goliatone/go-formsubmit/pkg/theming"
)

// Config is a normalised configuration file.
type Config struct {
	Source                string
	BaseURL               string
	DiscardStale          bool
	TransportErrorMessage string
	FeedbackPrefix        string
	// OpenAPI is the path of an OpenAPI document describing the endpoints,
	// relative paths resolved against the config file directory.
	OpenAPI string
	Theme   ThemeConfig

	profiles map[string]submit.Profile
	declared map[string]bool
}

// ThemeConfig declares a single inline theme manifest.
type ThemeConfig struct {
	Name     string                       `json:"name" yaml:"name"`
	Variant  string                       `json:"variant" yaml:"variant"`
	Tokens   map[string]string            `json:"tokens" yaml:"tokens"`
	Variants map[string]map[string]string `json:"variants" yaml:"variants"`
}

type documentFile struct {
	BaseURL               string                 `json:"baseURL" yaml:"baseURL"`
	DiscardStale          bool                   `json:"discardStale" yaml:"discardStale"`
	TransportErrorMessage string                 `json:"transportErrorMessage" yaml:"transportErrorMessage"`
	FeedbackPrefix        string                 `json:"feedbackPrefix" yaml:"feedbackPrefix"`
	OpenAPI               string                 `json:"openapi" yaml:"openapi"`
	Theme                 ThemeConfig            `json:"theme" yaml:"theme"`
	Profiles              map[string]profileFile `json:"profiles" yaml:"profiles"`
}

type profileFile struct {
	Endpoint      string   `json:"endpoint" yaml:"endpoint"`
	SuccessStatus int      `json:"successStatus" yaml:"successStatus"`
	Fields        []string `json:"fields" yaml:"fields"`
	GlobalErrors  *bool    `json:"globalErrors" yaml:"globalErrors"`
}

// Default returns the configuration used when no file is supplied: the
// built-in login and register profiles against a relative base URL.
func Default() Config {
	cfg := Config{
		FeedbackPrefix: dom.FeedbackPrefix,
		profiles:       submit.DefaultProfiles(),
		declared:       map[string]bool{},
	}
	return cfg
}

// Load reads and parses the file at filename.
func Load(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", filename, err)
	}
	cfg, err := Parse(data, filename)
	if err != nil {
		return Config{}, err
	}
	if cfg.OpenAPI != "" && !filepath.IsAbs(cfg.OpenAPI) {
		cfg.OpenAPI = filepath.Join(filepath.Dir(filename), cfg.OpenAPI)
	}
	return cfg, nil
}

// LoadFS reads and parses name from fsys.
func LoadFS(fsys fs.FS, name string) (Config, error) {
	if fsys == nil {
		return Config{}, fmt.Errorf("config: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", name, err)
	}
	cfg, err := Parse(data, name)
	if err != nil {
		return Config{}, err
	}
	if cfg.OpenAPI != "" && !path.IsAbs(cfg.OpenAPI) {
		cfg.OpenAPI = path.Join(path.Dir(name), cfg.OpenAPI)
	}
	return cfg, nil
}

// Parse decodes data as JSON, falling back to YAML.
func Parse(data []byte, source string) (Config, error) {
	doc, err := parseDocument(data, source)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	cfg.Source = source
	cfg.BaseURL = strings.TrimSpace(doc.BaseURL)
	cfg.DiscardStale = doc.DiscardStale
	cfg.TransportErrorMessage = strings.TrimSpace(doc.TransportErrorMessage)
	cfg.OpenAPI = strings.TrimSpace(doc.OpenAPI)
	cfg.Theme = doc.Theme
	if prefix := strings.TrimSpace(doc.FeedbackPrefix); prefix != "" {
		cfg.FeedbackPrefix = prefix
	}

	for key, raw := range doc.Profiles {
		name := strings.TrimSpace(key)
		if name == "" {
			return Config{}, fmt.Errorf("config: file %s defines an empty profile name", source)
		}
		profile := mergeProfile(cfg.profiles[name], name, raw)
		if err := profile.Validate(); err != nil {
			return Config{}, fmt.Errorf("config: file %s: %w", source, err)
		}
		cfg.profiles[name] = profile
		cfg.declared[name] = true
	}
	return cfg, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("config: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("config: parse %s: invalid JSON or YAML", source)
}

// mergeProfile overlays raw onto base; unset values keep the base values.
func mergeProfile(base submit.Profile, name string, raw profileFile) submit.Profile {
	out := base.Clone()
	out.Name = name
	if endpoint := strings.TrimSpace(raw.Endpoint); endpoint != "" {
		out.Endpoint = endpoint
	}
	if raw.SuccessStatus != 0 {
		out.SuccessStatus = raw.SuccessStatus
	}
	if len(raw.Fields) > 0 {
		out.Fields = make([]string, 0, len(raw.Fields))
		for _, field := range raw.Fields {
			out.Fields = append(out.Fields, strings.TrimSpace(field))
		}
	}
	if raw.GlobalErrors != nil {
		out.GlobalErrors = *raw.GlobalErrors
	}
	return out
}

// Profile returns the named profile.
func (c Config) Profile(name string) (submit.Profile, bool) {
	profile, ok := c.profiles[name]
	if !ok {
		return submit.Profile{}, false
	}
	return profile.Clone(), true
}

// Profiles returns every profile sorted by name.
func (c Config) Profiles() []submit.Profile {
	names := make([]string, 0, len(c.profiles))
	for name := range c.profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]submit.Profile, 0, len(names))
	for _, name := range names {
		out = append(out, c.profiles[name].Clone())
	}
	return out
}

// WithBaseProfiles returns a copy whose profiles not declared in the file are
// replaced by base, typically profiles derived from an OpenAPI document.
func (c Config) WithBaseProfiles(base []submit.Profile) Config {
	out := c
	out.profiles = make(map[string]submit.Profile, len(c.profiles)+len(base))
	for name, profile := range c.profiles {
		out.profiles[name] = profile
	}
	for _, profile := range base {
		if c.declared[profile.Name] {
			continue
		}
		out.profiles[profile.Name] = profile.Clone()
	}
	return out
}

// ThemeSelector builds a selector over the inline theme. It returns nil when
// the file declares no theme.
func (c Config) ThemeSelector() (*theming.ManifestSelector, error) {
	name := strings.TrimSpace(c.Theme.Name)
	if name == "" {
		return nil, nil
	}
	manifest := &theme.Manifest{
		Name:     name,
		Tokens:   c.Theme.Tokens,
		Variants: make(map[string]theme.Variant, len(c.Theme.Variants)),
	}
	for variant, tokens := range c.Theme.Variants {
		manifest.Variants[variant] = theme.Variant{Tokens: tokens}
	}
	return theming.NewManifestSelector(name, c.Theme.Variant, manifest)
}

// HandlerOptions translates the configuration into submit options.
func (c Config) HandlerOptions() ([]submit.Option, error) {
	options := []submit.Option{
		submit.WithDiscardStale(c.DiscardStale),
		submit.WithTransportErrorMessage(c.TransportErrorMessage),
	}
	selector, err := c.ThemeSelector()
	if err != nil {
		return nil, err
	}
	if selector != nil {
		options = append(options, submit.WithTheme(selector, c.Theme.Name, c.Theme.Variant))
	}
	return options, nil
}
