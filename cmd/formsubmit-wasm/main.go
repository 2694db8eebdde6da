//go:build js && wasm

// Command formsubmit-wasm binds a submit handler to the log in or register
// form of the current page. Build with GOOS=js GOARCH=wasm and start it with
// runtime/formsubmit-loader.js.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"

	formsubmit "github.com/goliatone/go-formsubmit"
	"github.com/goliatone/go-formsubmit/pkg/config"
	"github.com/goliatone/go-formsubmit/pkg/dom/jsdom"
	"github.com/goliatone/go-formsubmit/pkg/envelope"
	"github.com/goliatone/go-formsubmit/pkg/submit"
)

func main() {
	formID := flag.String("form", "logRegForm", "id of the form to intercept")
	profileName := flag.String("profile", "", "profile to bind (default: derived from the form's action)")
	configURL := flag.String("config", "", "URL of a JSON or YAML client configuration")
	flag.Parse()

	logger := log.New(os.Stdout, "formsubmit: ", 0)
	origin := jsdom.Origin()

	cfg := config.Default()
	if *configURL != "" {
		loaded, err := fetchConfig(origin, *configURL)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = origin
	}

	doc := jsdom.NewDocument(cfg.FeedbackPrefix)
	registry, err := formsubmit.NewRegistry(cfg, doc, nil,
		submit.WithLogger(logger),
		submit.WithOnSuccess(func(env envelope.Envelope) {
			if target, ok := env.String("redirect"); ok {
				jsdom.Navigate(target)
			}
		}),
	)
	if err != nil {
		logger.Fatalf("build handlers: %v", err)
	}

	name := *profileName
	if name == "" {
		name = profileFromAction(doc, *formID)
	}
	if !registry.Has(name) {
		logger.Fatalf("unknown profile %q (have %v)", name, registry.List())
	}

	_, err = jsdom.BindSubmit(*formID, func(ev jsdom.Event) {
		if _, err := registry.Submit(context.Background(), name, ev); err != nil {
			logger.Printf("%s: %v", name, err)
		}
	})
	if err != nil {
		logger.Fatalf("bind %s: %v", *formID, err)
	}
	logger.Printf("bound %q to #%s", name, *formID)

	select {}
}

// profileFromAction maps a form action such as "/register" to a profile name.
func profileFromAction(doc *jsdom.Document, formID string) string {
	form, err := doc.Element(formID)
	if err != nil {
		return "login"
	}
	action := form.Attribute("action")
	parsed, err := url.Parse(action)
	if err != nil || parsed.Path == "" {
		return "login"
	}
	return path.Base(parsed.Path)
}

func fetchConfig(origin, location string) (config.Config, error) {
	base, err := url.Parse(origin)
	if err != nil {
		return config.Config{}, err
	}
	ref, err := url.Parse(location)
	if err != nil {
		return config.Config{}, err
	}
	target := base.ResolveReference(ref).String()

	resp, err := http.Get(target)
	if err != nil {
		return config.Config{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return config.Config{}, fmt.Errorf("GET %s: %s", target, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return config.Config{}, err
	}
	return config.Parse(data, location)
}
