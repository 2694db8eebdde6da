// Package formsubmit wires the login and register submit handlers: profiles
// from configuration or an OpenAPI document, a DOM resolver, and an HTTP
// transport, collected in a registry keyed by profile name.
package formsubmit

import (
	"fmt"

	"github.com/goliatone/go-formsubmit/pkg/config"
	"github.com/goliatone/go-formsubmit/pkg/dom"
	"github.com/goliatone/go-formsubmit/pkg/submit"
	"github.com/goliatone/go-formsubmit/pkg/transport"
)

// Profile aliases submit.Profile.
type Profile = submit.Profile

// Handler aliases submit.Handler.
type Handler = submit.Handler

// Registry aliases submit.Registry.
type Registry = submit.Registry

// NewHandler exposes the handler constructor from the top-level module.
func NewHandler(profile Profile, resolver dom.Resolver, client transport.Client, options ...submit.Option) (*Handler, error) {
	return submit.New(profile, resolver, client, options...)
}

// NewRegistry builds a handler for every profile in cfg. When client is nil
// an HTTP client against cfg.BaseURL is created. extra options are applied
// after the ones derived from cfg.
func NewRegistry(cfg config.Config, resolver dom.Resolver, client transport.Client, extra ...submit.Option) (*Registry, error) {
	if client == nil {
		httpClient, err := transport.NewHTTPClient(cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		client = httpClient
	}

	options, err := cfg.HandlerOptions()
	if err != nil {
		return nil, err
	}
	options = append(options, extra...)

	registry := submit.NewRegistry()
	for _, profile := range cfg.Profiles() {
		handler, err := submit.New(profile, resolver, client, options...)
		if err != nil {
			return nil, fmt.Errorf("formsubmit: %w", err)
		}
		if err := registry.Register(handler); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
