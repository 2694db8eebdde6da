// Package server is a reference implementation of the login and register
// endpoints the submit handlers talk to. It renders the pages, validates
// submissions and answers with the envelopes the handlers paint.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	formsubmit "github.com/goliatone/go-formsubmit"
	"github.com/goliatone/go-formsubmit/internal/server/store"
	"github.com/goliatone/go-formsubmit/internal/server/views"
	"github.com/goliatone/go-formsubmit/pkg/submit"
)

// Server wires the routes, the user store and the session manager.
type Server struct {
	cfg      Config
	store    store.Store
	sessions *Sessions
	views    *views.Engine
	validate *validator.Validate
	logger   submit.Logger
	now      func() time.Time
	engine   *gin.Engine
}

// Option customises a Server.
type Option func(*Server)

// WithStore overrides the user store. Without it New opens one from Config.
func WithStore(s store.Store) Option {
	return func(srv *Server) {
		if s != nil {
			srv.store = s
		}
	}
}

// WithLogger routes server diagnostics to logger.
func WithLogger(logger submit.Logger) Option {
	return func(srv *Server) {
		if logger != nil {
			srv.logger = logger
		}
	}
}

// WithClock overrides the time source used for sessions and page footers.
func WithClock(now func() time.Time) Option {
	return func(srv *Server) {
		if now != nil {
			srv.now = now
		}
	}
}

// OpenStore returns a Postgres store when DATABASE_URL is set and an
// in-memory store otherwise.
func OpenStore(cfg Config) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		return store.NewMemory(), nil
	}
	return store.Open(cfg.DatabaseURL, nil)
}

// New builds a Server.
func New(cfg Config, opts ...Option) (*Server, error) {
	srv := &Server{
		cfg:      cfg,
		validate: validator.New(),
		logger:   nopLogger{},
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(srv)
		}
	}

	if srv.store == nil {
		st, err := OpenStore(cfg)
		if err != nil {
			return nil, fmt.Errorf("server: open store: %w", err)
		}
		srv.store = st
	}

	sessions, err := NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies)
	if err != nil {
		return nil, err
	}
	sessions.now = srv.now
	srv.sessions = sessions

	viewOpts := []views.Option{views.WithFS(formsubmit.EmbeddedTemplates())}
	if cfg.TemplatesDir != "" {
		viewOpts = append(viewOpts, views.WithBaseDir(cfg.TemplatesDir))
	}
	engine, err := views.New(viewOpts...)
	if err != nil {
		return nil, fmt.Errorf("server: views: %w", err)
	}
	srv.views = engine

	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.GinMode)
	}
	srv.engine = gin.New()
	srv.engine.HandleMethodNotAllowed = true
	srv.engine.Use(gin.Logger(), gin.Recovery())
	srv.routes()

	return srv, nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logf("listening on %s", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) logf(format string, args ...any) {
	s.logger.Printf(format, args...)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
