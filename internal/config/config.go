package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/caarlos0/env/v11"
)

//go:embed schema.cue
var schemaCUE string

// Config is the resolved backlog configuration.
type Config struct {
	// Database is the SQLite file holding positions, history and tickets.
	Database string `json:"database" env:"BACKLOG_DB"`

	// DefaultPriority ranks tickets that carry no priority.
	DefaultPriority int64 `json:"default_priority" env:"BACKLOG_DEFAULT_PRIORITY"`

	LogLevel  string `json:"log_level" env:"BACKLOG_LOG_LEVEL"`
	LogFormat string `json:"log_format" env:"BACKLOG_LOG_FORMAT"`

	// Actor is recorded in history when a command doesn't name one.
	Actor string `json:"actor" env:"BACKLOG_ACTOR"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Database:        "backlog.db",
		DefaultPriority: 999,
		LogLevel:        "info",
		LogFormat:       "text",
		Actor:           "anonymous",
	}
}

// Load returns Default() overlaid with the CUE file at path (if non-empty)
// and then the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := decodeCUE(path, data, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that may have come from the environment, which
// bypasses the CUE schema.
func (c Config) Validate() error {
	if c.Database == "" {
		return &Error{Field: "database", Message: "must not be empty"}
	}
	if c.DefaultPriority < 0 {
		return &Error{Field: "default_priority", Message: "must be non-negative"}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return &Error{Field: "log_level", Message: err.Error()}
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return &Error{Field: "log_format", Message: fmt.Sprintf("unknown format %q", c.LogFormat)}
	}
	return nil
}

// decodeCUE unifies data with the #Config schema and decodes the result
// over cfg. Fields absent from data keep their current value.
func decodeCUE(filename string, data []byte, cfg *Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return formatCUEError(err)
	}

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}

	if err := unified.Decode(cfg); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// Error is a configuration error with optional source position.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &Error{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
