// Package config loads photofix settings from an optional .env file and the
// process environment, and builds the logger they describe.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Environment variables read by Load.
const (
	EnvLogLevel    = "PHOTOFIX_LOG_LEVEL"
	EnvLogFormat   = "PHOTOFIX_LOG_FORMAT"
	EnvWorkers     = "PHOTOFIX_WORKERS"
	EnvJPEGQuality = "PHOTOFIX_JPEG_QUALITY"
	EnvUpdateRepo  = "PHOTOFIX_UPDATE_REPO"
)

// Config holds the runtime settings.
type Config struct {
	LogLevel    zerolog.Level
	LogFormat   string // "console" or "json"
	Workers     int    // 0 keeps GOMAXPROCS
	JPEGQuality int
	UpdateRepo  string // owner/name on GitHub
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel:    zerolog.InfoLevel,
		LogFormat:   "console",
		JPEGQuality: 92,
		UpdateRepo:  "Fepozopo/photofix",
	}
}

// Load reads the given .env files (".env" when none are named) into the
// environment, then parses the environment. Missing files are skipped and
// variables already set in the environment win over the files.
func Load(paths ...string) (Config, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv parses settings through lookup, which has the shape of
// os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	if v := get(EnvLogLevel); v != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvLogLevel, v, err)
		}
		c.LogLevel = lvl
	}
	if v := get(EnvLogFormat); v != "" {
		switch f := strings.ToLower(v); f {
		case "console", "json":
			c.LogFormat = f
		default:
			return Config{}, fmt.Errorf("invalid %s %q: want console or json", EnvLogFormat, v)
		}
	}
	if v := get(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid %s %q: want a non-negative integer", EnvWorkers, v)
		}
		c.Workers = n
	}
	if v := get(EnvJPEGQuality); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 || q > 100 {
			return Config{}, fmt.Errorf("invalid %s %q: want 1..100", EnvJPEGQuality, v)
		}
		c.JPEGQuality = q
	}
	if v := get(EnvUpdateRepo); v != "" {
		if owner, name, ok := strings.Cut(v, "/"); !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			return Config{}, fmt.Errorf("invalid %s %q: want owner/name", EnvUpdateRepo, v)
		}
		c.UpdateRepo = v
	}
	return c, nil
}

// ApplyRuntime caps the Go scheduler at Workers threads when set. The
// parallel pixel loops size their work from GOMAXPROCS.
func (c Config) ApplyRuntime() {
	if c.Workers > 0 {
		runtime.GOMAXPROCS(c.Workers)
	}
}

// Logger builds a zerolog logger writing to w in the configured format.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	if c.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).
		Level(c.LogLevel).
		With().
		Timestamp().
		Logger()
}
