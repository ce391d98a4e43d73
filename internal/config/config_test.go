package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AlonMell/rbtrace/internal/config"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rbtrace.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	opts := cfg.LayoutOptions()
	require.Equal(t, 100.0, opts.Spacing)
	require.Equal(t, 80.0, opts.LevelGap)
	require.Equal(t, 0.7, opts.Shrink)
}

func TestLoad(t *testing.T) {
	t.Run("NoFile", func(t *testing.T) {
		cfg, err := config.Load("")
		require.NoError(t, err)
		require.Equal(t, config.Default(), cfg)
	})

	t.Run("File", func(t *testing.T) {
		path := writeFile(t, `
log:
  level: debug
  format: json
server:
  addr: 0.0.0.0:9000
layout:
  spacing: 60
`)
		cfg, err := config.Load(path)
		require.NoError(t, err)
		require.Equal(t, "debug", cfg.Log.Level)
		require.Equal(t, "json", cfg.Log.Format)
		require.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
		require.Equal(t, 60.0, cfg.Layout.Spacing)
		// Unset keys keep their defaults.
		require.Equal(t, 0.7, cfg.Layout.Shrink)
		require.Equal(t, config.Default().Server.MaxSessions, cfg.Server.MaxSessions)
	})

	t.Run("Env", func(t *testing.T) {
		t.Setenv("RBTRACE_SERVER_ADDR", "localhost:7000")
		t.Setenv("RBTRACE_SERVER_MAX_SESSIONS", "3")
		cfg, err := config.Load(writeFile(t, "server:\n  addr: localhost:1\n"))
		require.NoError(t, err)
		require.Equal(t, "localhost:7000", cfg.Server.Addr)
		require.Equal(t, 3, cfg.Server.MaxSessions)
	})

	t.Run("BadEnv", func(t *testing.T) {
		t.Setenv("RBTRACE_SERVER_MAX_KEYS_PER_REQUEST", "lots")
		_, err := config.Load("")
		require.ErrorContains(t, err, "RBTRACE_SERVER_MAX_KEYS_PER_REQUEST")
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "log: [1, 2"))
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"LogLevel", func(c *config.Config) { c.Log.Level = "loud" }},
		{"LogFormat", func(c *config.Config) { c.Log.Format = "xml" }},
		{"Addr", func(c *config.Config) { c.Server.Addr = "" }},
		{"MaxSessions", func(c *config.Config) { c.Server.MaxSessions = 0 }},
		{"Spacing", func(c *config.Config) { c.Layout.Spacing = 0 }},
		{"Shrink", func(c *config.Config) { c.Layout.Shrink = 1.5 }},
		{"BaseURL", func(c *config.Config) { c.Share.BaseURL = "not a url" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := config.Log{Level: "warn", Format: "json"}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", 1)
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)
	require.Contains(t, buf.String(), `"key":1`)
}
