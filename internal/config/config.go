// Package config loads rbtrace settings from YAML with environment overrides.
package config

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AlonMell/rbtrace/internal/rbtree"
)

// EnvPrefix prefixes every environment override, e.g. RBTRACE_SERVER_ADDR.
const EnvPrefix = "RBTRACE_"

type Config struct {
	Log    Log    `yaml:"log"`
	Server Server `yaml:"server"`
	Layout Layout `yaml:"layout"`
	Share  Share  `yaml:"share"`
}

type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type Server struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`
	// MaxSessions bounds the number of live tree sessions.
	MaxSessions int `yaml:"max_sessions" validate:"gte=1"`
	// MaxKeysPerRequest bounds how many keys a single insert may carry.
	MaxKeysPerRequest int `yaml:"max_keys_per_request" validate:"gte=1"`
}

type Layout struct {
	OriginX  float64 `yaml:"origin_x"`
	OriginY  float64 `yaml:"origin_y"`
	Spacing  float64 `yaml:"spacing" validate:"gt=0"`
	LevelGap float64 `yaml:"level_gap" validate:"gt=0"`
	Shrink   float64 `yaml:"shrink" validate:"gt=0,lte=1"`
}

type Share struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
}

// Default returns the built-in configuration.
func Default() Config {
	l := rbtree.DefaultLayoutOptions()
	return Config{
		Log: Log{Level: "info", Format: "text"},
		Server: Server{
			Addr:              "127.0.0.1:8080",
			MaxSessions:       256,
			MaxKeysPerRequest: 1000,
		},
		Layout: Layout{
			OriginX:  l.X,
			OriginY:  l.Y,
			Spacing:  l.Spacing,
			LevelGap: l.LevelGap,
			Shrink:   l.Shrink,
		},
		Share: Share{BaseURL: "http://127.0.0.1:8080/"},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "reading config %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parsing config %s", path)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "%s%s", EnvPrefix, name)
		}
		*dst = n
		return nil
	}

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("SERVER_ADDR", &c.Server.Addr)
	str("SHARE_BASE_URL", &c.Share.BaseURL)
	if err := num("SERVER_MAX_SESSIONS", &c.Server.MaxSessions); err != nil {
		return err
	}
	return num("SERVER_MAX_KEYS_PER_REQUEST", &c.Server.MaxKeysPerRequest)
}

// LayoutOptions converts the layout section for rbtree.CalculateNodePositions.
func (c Config) LayoutOptions() rbtree.LayoutOptions {
	return rbtree.LayoutOptions{
		X:        c.Layout.OriginX,
		Y:        c.Layout.OriginY,
		Spacing:  c.Layout.Spacing,
		LevelGap: c.Layout.LevelGap,
		Shrink:   c.Layout.Shrink,
	}
}

// NewLogger builds the structured logger described by the log section.
func (l Log) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(l.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
