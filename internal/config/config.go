package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/livedom/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "livedom.json"

	// DefaultAddress is the default listen address.
	DefaultAddress = ":8080"

	// DefaultTitle is the default page title.
	DefaultTitle = "livedom"

	// DefaultSnapshotDir is the default snapshot directory.
	DefaultSnapshotDir = "snapshots"

	// EnvAddress overrides Server.Address when set.
	EnvAddress = "LIVEDOM_ADDR"
)

// Duration is a time.Duration written as a string such as "30s" in JSON.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config represents the complete livedom.json configuration.
type Config struct {
	// Name is the application name.
	Name string `json:"name,omitempty"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Session contains live session configuration.
	Session SessionConfig `json:"session,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Snapshot contains snapshot storage configuration.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Address is the listen address (e.g. ":8080").
	Address string `json:"address,omitempty"`

	// Title is the page title.
	Title string `json:"title,omitempty"`

	// Lang is the html lang attribute.
	Lang string `json:"lang,omitempty"`

	// MaxSessions limits concurrent sessions. 0 means no limit.
	MaxSessions int `json:"maxSessions,omitempty"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout Duration `json:"shutdownTimeout,omitempty"`

	// AllowedOrigins restricts WebSocket origins. Empty allows all.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// SessionConfig contains live session settings.
type SessionConfig struct {
	ReadTimeout       Duration `json:"readTimeout,omitempty"`
	WriteTimeout      Duration `json:"writeTimeout,omitempty"`
	IdleTimeout       Duration `json:"idleTimeout,omitempty"`
	HeartbeatInterval Duration `json:"heartbeatInterval,omitempty"`
	MaxMessageSize    int64    `json:"maxMessageSize,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled serves /metrics and records update, list and session metrics.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled traces every update pass with the global tracer provider.
	Enabled bool `json:"enabled,omitempty"`

	// TracerName is the tracer name.
	TracerName string `json:"tracerName,omitempty"`
}

// SnapshotConfig selects where snapshots are stored. S3 is used when a
// bucket is set, the directory otherwise.
type SnapshotConfig struct {
	Dir string   `json:"dir,omitempty"`
	S3  S3Config `json:"s3,omitempty"`
}

// S3Config contains S3 snapshot settings.
type S3Config struct {
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, e.g. for MinIO.
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// It looks for livedom.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("L302").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run without --config")
		}
		return nil, errors.New("L301").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("L301").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("L301").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("L301").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if addr := os.Getenv(EnvAddress); addr != "" {
		c.Server.Address = addr
	}
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	// Server
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.Title == "" {
		c.Server.Title = DefaultTitle
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(30 * time.Second)
	}

	// Session
	if c.Session.ReadTimeout == 0 {
		c.Session.ReadTimeout = Duration(60 * time.Second)
	}
	if c.Session.WriteTimeout == 0 {
		c.Session.WriteTimeout = Duration(10 * time.Second)
	}
	if c.Session.IdleTimeout == 0 {
		c.Session.IdleTimeout = Duration(5 * time.Minute)
	}
	if c.Session.HeartbeatInterval == 0 {
		c.Session.HeartbeatInterval = Duration(30 * time.Second)
	}
	if c.Session.MaxMessageSize == 0 {
		c.Session.MaxMessageSize = 64 * 1024
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Telemetry
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "livedom"
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "livedom"
	}

	// Snapshot
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, port, err := net.SplitHostPort(c.Server.Address); err != nil {
		return invalid("server.address %q: %v", c.Server.Address, err)
	} else if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		return invalid("server.address %q: port must be between 0 and 65535", c.Server.Address)
	}
	if c.Server.MaxSessions < 0 {
		return invalid("server.maxSessions must not be negative")
	}

	durations := []struct {
		name string
		d    Duration
	}{
		{"server.shutdownTimeout", c.Server.ShutdownTimeout},
		{"session.readTimeout", c.Session.ReadTimeout},
		{"session.writeTimeout", c.Session.WriteTimeout},
		{"session.idleTimeout", c.Session.IdleTimeout},
		{"session.heartbeatInterval", c.Session.HeartbeatInterval},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return invalid("%s must be positive", d.name)
		}
	}
	if c.Session.HeartbeatInterval >= c.Session.ReadTimeout {
		return invalid("session.heartbeatInterval must be shorter than session.readTimeout")
	}
	if c.Session.MaxMessageSize < 1024 {
		return invalid("session.maxMessageSize must be at least 1024")
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format %q: want text or json", c.Log.Format)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New("L303").WithDetailf(format, args...)
}

// SlogLevel parses the configured level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return 0, invalid("log.level %q: want debug, info, warn or error", l.Level)
	}
	return level, nil
}

// NewLogger builds a logger writing to w in the configured format.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := l.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// UsesS3 reports whether snapshots go to S3.
func (s SnapshotConfig) UsesS3() bool {
	return s.S3.Bucket != ""
}
