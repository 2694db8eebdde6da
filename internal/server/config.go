package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the server settings read from the environment.
type Config struct {
	Port          int           `envconfig:"PORT" default:"3000"`
	DatabaseURL   string        `envconfig:"DATABASE_URL"`
	SessionSecret string        `envconfig:"SESSION_SECRET" default:"formsubmit-dev-secret"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	SecureCookies bool          `envconfig:"SECURE_COOKIES" default:"false"`
	// WasmPath points at the compiled cmd/formsubmit-wasm binary.
	WasmPath string `envconfig:"WASM_PATH" default:"formsubmit.wasm"`
	// WasmExecPath points at the Go toolchain's wasm_exec.js.
	WasmExecPath   string `envconfig:"WASM_EXEC_PATH" default:"wasm_exec.js"`
	TemplatesDir   string `envconfig:"TEMPLATES_DIR"`
	FeedbackPrefix string `envconfig:"FEEDBACK_PREFIX" default:"validation_"`
	GinMode        string `envconfig:"GIN_MODE" default:"release"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("server: load config: %w", err)
	}
	if strings.TrimSpace(cfg.SessionSecret) == "" {
		return Config{}, fmt.Errorf("server: SESSION_SECRET must not be empty")
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
