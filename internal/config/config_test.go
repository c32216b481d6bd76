package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backlog.cue")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_CUEFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:         "board.db"
default_priority: 500
log_format:       "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "board.db", cfg.Database)
	assert.Equal(t, int64(500), cfg.DefaultPriority)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel, "unset fields keep defaults")
	assert.Equal(t, "anonymous", cfg.Actor)
}

func TestLoad_CUESchemaRejectsNegativePriority(t *testing.T) {
	path := writeConfig(t, `default_priority: -1`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_CUESchemaRejectsUnknownLevel(t *testing.T) {
	path := writeConfig(t, `log_level: "loud"`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_CUESchemaRejectsUnknownField(t *testing.T) {
	path := writeConfig(t, `databse: "typo.db"`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_CUESyntaxError(t *testing.T) {
	path := writeConfig(t, `database: "unterminated`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `database: "file.db"`)
	t.Setenv("BACKLOG_DB", "env.db")
	t.Setenv("BACKLOG_DEFAULT_PRIORITY", "7")
	t.Setenv("BACKLOG_ACTOR", "ci-bot")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env.db", cfg.Database)
	assert.Equal(t, int64(7), cfg.DefaultPriority)
	assert.Equal(t, "ci-bot", cfg.Actor)
}

func TestLoad_EnvValidated(t *testing.T) {
	t.Setenv("BACKLOG_LOG_FORMAT", "xml")

	_, err := Load("")
	require.Error(t, err)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "log_format", cfgErr.Field)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}
