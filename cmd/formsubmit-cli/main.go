// Command formsubmit-cli fills in the log in or register form from the
// terminal and submits it to a running server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"time"

	formsubmit "github.com/goliatone/go-formsubmit"
	"github.com/goliatone/go-formsubmit/pkg/config"
	"github.com/goliatone/go-formsubmit/pkg/dom/memdom"
	"github.com/goliatone/go-formsubmit/pkg/submit"
	"github.com/goliatone/go-formsubmit/pkg/terminal"
	"github.com/goliatone/go-formsubmit/pkg/transport"
)

func main() {
	configPath := flag.String("config", "", "JSON or YAML client configuration")
	openAPI := flag.String("openapi", "", "OpenAPI document path or URL to derive profiles from")
	baseURL := flag.String("base-url", "http://localhost:3000", "server base URL")
	profileName := flag.String("profile", "", "profile to run (prompted when empty)")
	maxAttempts := flag.Int("max-attempts", 0, "stop after this many failed submissions (0 = unlimited)")
	verbose := flag.Bool("v", false, "log transport diagnostics to stderr")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(ctx, *configPath, *openAPI)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.BaseURL == "" || isFlagSet("base-url") {
		cfg.BaseURL = *baseURL
	}

	driver := terminal.NewSurveyDriver()

	name := *profileName
	if name == "" {
		names := make([]string, 0)
		for _, p := range cfg.Profiles() {
			names = append(names, p.Name)
		}
		name, err = terminal.ChooseProfile(ctx, driver, names)
		if err != nil {
			log.Fatalf("Failed to choose a profile: %v", err)
		}
	}
	profile, ok := cfg.Profile(name)
	if !ok {
		log.Fatalf("Unknown profile %q", name)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Fatalf("Failed to create cookie jar: %v", err)
	}
	client, err := transport.NewHTTPClient(cfg.BaseURL,
		transport.WithHTTPClient(&http.Client{Jar: jar, Timeout: 30 * time.Second}),
	)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	options, err := cfg.HandlerOptions()
	if err != nil {
		log.Fatalf("Failed to apply configuration: %v", err)
	}
	logOutput := io.Discard
	if *verbose {
		logOutput = os.Stderr
	}
	options = append(options, submit.WithLogger(log.New(logOutput, "formsubmit: ", log.LstdFlags)))

	doc := memdom.NewWithFields(profile.Fields, memdom.WithFeedbackPrefix(cfg.FeedbackPrefix))
	handler, err := formsubmit.NewHandler(profile, doc, client, options...)
	if err != nil {
		log.Fatalf("Failed to create handler: %v", err)
	}

	session, err := terminal.New(handler, doc,
		terminal.WithPromptDriver(driver),
		terminal.WithMaxAttempts(*maxAttempts),
	)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	if _, err := session.Run(ctx); err != nil {
		if errors.Is(err, terminal.ErrAborted) {
			os.Exit(1)
		}
		log.Fatalf("%s: %v", profile.Name, err)
	}
	fmt.Println("done")
}

func loadConfig(ctx context.Context, path, openAPI string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	location := openAPI
	if location == "" {
		location = cfg.OpenAPI
	}
	if location == "" {
		return cfg, nil
	}
	profiles, err := formsubmit.LoadOpenAPIProfiles(ctx, location)
	if err != nil {
		return config.Config{}, err
	}
	return cfg.WithBaseProfiles(profiles), nil
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
