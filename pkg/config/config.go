// Package config loads trbgen settings from a TOML file.
//
// Every field has a default, so an empty file is valid.
// A typical file:
//
//	[envelope]
//	header_words = [0x18, 0x10001, 1, 0]
//
//	[output]
//	extension = ".trb"
//	dir = "trb_gen"
//
//	[convert]
//	workers = 8
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "168h"
//
//	[log]
//	level = "debug"
//
// Command-line flags override values loaded here.
package config

import (
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/trbgen/pkg/errors"
	"github.com/matzehuels/trbgen/pkg/trb"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full configuration.
type Config struct {
	Envelope EnvelopeConfig `toml:"envelope"`
	Output   OutputConfig   `toml:"output"`
	Convert  ConvertConfig  `toml:"convert"`
	Cache    CacheConfig    `toml:"cache"`
	Log      LogConfig      `toml:"log"`
}

// EnvelopeConfig controls the fixed container fields.
type EnvelopeConfig struct {
	// FileSize, when non-zero, replaces the computed file size.
	FileSize    uint32    `toml:"file_size"`
	HeaderWords [4]uint32 `toml:"header_words"`
}

// OutputConfig controls where compiled files go.
type OutputConfig struct {
	Extension string `toml:"extension"`
	// Dir is the output directory. Empty writes next to each input.
	Dir string `toml:"dir"`
}

// ConvertConfig controls directory conversion.
type ConvertConfig struct {
	Workers int `toml:"workers"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend string `toml:"backend"`
	// Dir overrides the file cache location.
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
	// Prefix namespaces cache keys, e.g. "game1:" when several map sets
	// share one Redis database.
	Prefix string `toml:"prefix"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Envelope: EnvelopeConfig{HeaderWords: trb.DefaultHeaderWords},
		Output:   OutputConfig{Extension: ".trb"},
		Convert:  ConvertConfig{Workers: 4},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path on top of [Default] and validates the result. Unknown
// keys are rejected so typos do not go unnoticed.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open config %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if err := errors.ValidateExtension(c.Output.Extension); err != nil {
		return err
	}
	if c.Output.Dir != "" {
		if err := errors.ValidatePath(c.Output.Dir); err != nil {
			return err
		}
	}
	if c.Convert.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "convert.workers must be at least 1, got %d", c.Convert.Workers)
	}

	if !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	return nil
}

// LogLevel returns the configured level. Validate has already rejected
// unknown names; they fall back to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// TrbEnvelope converts the envelope section.
func (c *Config) TrbEnvelope() trb.Envelope {
	return trb.Envelope{
		FileSize:    c.Envelope.FileSize,
		HeaderWords: c.Envelope.HeaderWords,
	}
}
