package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trbgen/pkg/errors"
	"github.com/matzehuels/trbgen/pkg/trb"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trbgen.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if cfg.TrbEnvelope() != trb.DefaultEnvelope() {
		t.Errorf("default envelope = %+v, want %+v", cfg.TrbEnvelope(), trb.DefaultEnvelope())
	}
	if cfg.LogLevel() != log.InfoLevel {
		t.Errorf("LogLevel() = %v, want info", cfg.LogLevel())
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[envelope]
file_size = 0x6b6f0
header_words = [0x18, 0x10001, 2, 0]

[output]
extension = ".bin"
dir = "trb_gen"

[convert]
workers = 8

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/1"
ttl = "36h"
prefix = "game1:"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	env := cfg.TrbEnvelope()
	if env.FileSize != 0x6b6f0 {
		t.Errorf("FileSize = %#x, want 0x6b6f0", env.FileSize)
	}
	if env.HeaderWords != [4]uint32{0x18, 0x10001, 2, 0} {
		t.Errorf("HeaderWords = %#x", env.HeaderWords)
	}
	if cfg.Output.Extension != ".bin" || cfg.Output.Dir != "trb_gen" {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Convert.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Convert.Workers)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.Prefix != "game1:" {
		t.Errorf("Prefix = %q, want game1:", cfg.Cache.Prefix)
	}
	if cfg.Cache.TTL.Duration != 36*time.Hour {
		t.Errorf("TTL = %v, want 36h", cfg.Cache.TTL)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("LogLevel() = %v, want debug", cfg.LogLevel())
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[convert]\nworkers = 2\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Default()
	want.Convert.Workers = 2
	if cfg.Output != want.Output || cfg.Envelope != want.Envelope || cfg.Cache != want.Cache {
		t.Errorf("Load() = %+v, want defaults except workers", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[output\n", "parse config"},
		{"unknown key", "[output]\nextention = \".trb\"\n", "unknown keys output.extention"},
		{"bad duration", "[cache]\nttl = \"soon\"\n", "parse config"},
		{"bad extension", "[output]\nextension = \"trb\"\n", "must start with a dot"},
		{"zero workers", "[convert]\nworkers = 0\n", "workers must be at least 1"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "cache.backend"},
		{"redis without url", "[cache]\nbackend = \"redis\"\n", "redis_url is required"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}
