package formsubmit

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	internalLoader "github.com/goliatone/go-formsubmit/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formsubmit/internal/openapi/parser"
	"github.com/goliatone/go-formsubmit/pkg/submit"
)

type openAPIConfig struct {
	loader internalLoader.Options
	parser internalParser.Options
}

// OpenAPIOption configures OpenAPI loading and profile extraction.
type OpenAPIOption func(*openAPIConfig)

// WithFileSystem reads documents from fsys instead of the local disk.
func WithFileSystem(fsys fs.FS) OpenAPIOption {
	return func(cfg *openAPIConfig) {
		cfg.loader.FileSystem = fsys
	}
}

// WithHTTPClient fetches http(s) documents with client.
func WithHTTPClient(client *http.Client) OpenAPIOption {
	return func(cfg *openAPIConfig) {
		cfg.loader.HTTPClient = client
	}
}

// WithRequestTimeout bounds HTTP document fetches.
func WithRequestTimeout(timeout time.Duration) OpenAPIOption {
	return func(cfg *openAPIConfig) {
		cfg.loader.RequestTimeout = timeout
	}
}

// WithReferenceResolution allows external $refs and validates the document.
func WithReferenceResolution(enabled bool) OpenAPIOption {
	return func(cfg *openAPIConfig) {
		cfg.parser.ResolveReferences = enabled
	}
}

// WithEmptyDocuments accepts documents without form operations.
func WithEmptyDocuments(enabled bool) OpenAPIOption {
	return func(cfg *openAPIConfig) {
		cfg.parser.AllowEmpty = enabled
	}
}

// ProfilesFromOpenAPI extracts submit profiles from a raw OpenAPI document.
func ProfilesFromOpenAPI(ctx context.Context, raw []byte, options ...OpenAPIOption) ([]submit.Profile, error) {
	cfg := newOpenAPIConfig(options...)
	return internalParser.New(cfg.parser).Profiles(ctx, raw)
}

// LoadOpenAPIProfiles fetches the document at location (file path, fs.FS
// name or http(s) URL) and extracts its submit profiles.
func LoadOpenAPIProfiles(ctx context.Context, location string, options ...OpenAPIOption) ([]submit.Profile, error) {
	cfg := newOpenAPIConfig(options...)
	raw, err := internalLoader.New(cfg.loader).Load(ctx, location)
	if err != nil {
		return nil, err
	}
	return internalParser.New(cfg.parser).Profiles(ctx, raw)
}

func newOpenAPIConfig(options ...OpenAPIOption) openAPIConfig {
	cfg := openAPIConfig{
		loader: internalLoader.Options{AllowHTTP: true},
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
