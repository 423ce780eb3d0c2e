// Package config loads the client settings stored at <profileDir>/config.toml.
//
// Precedence, lowest first: built-in defaults, the TOML file, JOI_*
// environment variables, command-line flags (applied by the caller).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// PlaceholderBackendURL is written to a fresh config file. It is treated as
// "not configured".
const PlaceholderBackendURL = "wss://your-backend-name.onrender.com"

const filename = "config.toml"

// Duration is a time.Duration written as a string ("3s") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config holds persistent client settings.
type Config struct {
	// BackendURL is the production backend base, e.g. wss://joi.example.com.
	BackendURL string `toml:"backend_url"`
	// Origin is where the client is launched from; see endpoint.Env.
	Origin string `toml:"origin,omitempty"`
	Theme  string `toml:"theme"`
	// SessionBackend is "file" or "pebble".
	SessionBackend string `toml:"session_backend"`
	LogLevel       string `toml:"log_level"`

	ReconnectDelay    Duration `toml:"reconnect_delay"`
	MaxReconnectDelay Duration `toml:"max_reconnect_delay"`
	// WakeAttempts is how often /health is polled when the first probe
	// fails. Zero disables pre-warming.
	WakeAttempts      int      `toml:"wake_attempts"`
	WakeInterval      Duration `toml:"wake_interval"`
	SlowConnectNotice Duration `toml:"slow_connect_notice"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		BackendURL:        PlaceholderBackendURL,
		Theme:             "dark",
		SessionBackend:    "file",
		LogLevel:          "info",
		ReconnectDelay:    Duration{3 * time.Second},
		MaxReconnectDelay: Duration{30 * time.Second},
		WakeAttempts:      12,
		WakeInterval:      Duration{5 * time.Second},
		SlowConnectNotice: Duration{10 * time.Second},
	}
}

// Path returns the config file location for profileDir.
func Path(profileDir string) string {
	return filepath.Join(profileDir, filename)
}

// Load reads <profileDir>/config.toml and applies environment overrides.
// A missing file yields the defaults; a malformed one yields the defaults
// and the parse error so the caller can report it.
func Load(profileDir string) (Config, error) {
	cfg, err := LoadFile(Path(profileDir))
	if err != nil {
		cfg = Defaults()
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, err
}

// LoadFile decodes path over the defaults. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Defaults(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from JOI_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("JOI_BACKEND_URL"); ok && v != "" {
		c.BackendURL = v
	}
	if v, ok := lookup("JOI_ORIGIN"); ok && v != "" {
		c.Origin = v
	}
	if v, ok := lookup("JOI_SESSION_BACKEND"); ok && v != "" {
		c.SessionBackend = v
	}
	if v, ok := lookup("JOI_LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
}

// Validate checks values that would otherwise fail at connect time.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.SessionBackend) {
	case "", "file", "pebble":
	default:
		errs = append(errs, fmt.Errorf("session_backend: unknown backend %q", c.SessionBackend))
	}
	if c.ReconnectDelay.Duration <= 0 {
		errs = append(errs, errors.New("reconnect_delay must be positive"))
	}
	if c.MaxReconnectDelay.Duration < c.ReconnectDelay.Duration {
		errs = append(errs, errors.New("max_reconnect_delay must not be below reconnect_delay"))
	}
	if c.WakeAttempts < 0 {
		errs = append(errs, errors.New("wake_attempts must not be negative"))
	}
	if c.WakeAttempts > 0 && c.WakeInterval.Duration <= 0 {
		errs = append(errs, errors.New("wake_interval must be positive"))
	}
	return errors.Join(errs...)
}

// Save writes cfg to <profileDir>/config.toml, creating the directory if needed.
func Save(profileDir string, cfg Config) error {
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(Path(profileDir), buf.Bytes(), 0o644)
}
