// Package config provides configuration loading and management for rdfstore.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/rdfstore-go/rdf"
)

// Config represents the complete rdfstore configuration
type Config struct {
	Storage rdf.StorageConfig `yaml:"storage"`
	Store   StoreConfig       `yaml:"store"`
	Decode  DecodeConfig      `yaml:"decode"`
	Log     LogConfig         `yaml:"log"`
	Metrics MetricsConfig     `yaml:"metrics"`
}

// StoreConfig configures store behavior
type StoreConfig struct {
	// StrictURIs validates URIs created through the world
	StrictURIs bool `yaml:"strict_uris"`
	// QuietErrors disables logging of storage failures
	QuietErrors bool `yaml:"quiet_errors"`
}

// DecodeConfig configures input limits for the N-Quads decoder
type DecodeConfig struct {
	// MaxLineBytes caps one input line (0 = default, negative = unlimited)
	MaxLineBytes int `yaml:"max_line_bytes"`
	// MaxStatements caps statements per input (0 = unlimited)
	MaxStatements int `yaml:"max_statements"`
}

// LogConfig configures the slog handler
type LogConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `yaml:"level"`
	// Format is text or json (default: text)
	Format string `yaml:"format"`
}

// MetricsConfig configures Prometheus metrics
type MetricsConfig struct {
	// Enabled registers the store metrics
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Storage: rdf.StorageConfig{Name: "memory"},
		Decode: DecodeConfig{
			MaxLineBytes: rdf.DefaultMaxLineBytes,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Storage.Name == "" {
		return fmt.Errorf("storage.name is required")
	}
	if !slices.Contains(rdf.StorageNames(), c.Storage.Name) {
		return fmt.Errorf("storage.name %q is not one of %s", c.Storage.Name, strings.Join(rdf.StorageNames(), ", "))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json")
	}
	if c.Decode.MaxStatements < 0 {
		return fmt.Errorf("decode.max_statements must not be negative")
	}
	return nil
}

func parseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("log.level %q is invalid: %w", level, err)
	}
	return l, nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// A storage section replaces the whole backend selection
	if other.Storage.Name != "" {
		c.Storage = other.Storage
	}

	if other.Store.StrictURIs {
		c.Store.StrictURIs = true
	}
	if other.Store.QuietErrors {
		c.Store.QuietErrors = true
	}

	if other.Decode.MaxLineBytes != 0 {
		c.Decode.MaxLineBytes = other.Decode.MaxLineBytes
	}
	if other.Decode.MaxStatements != 0 {
		c.Decode.MaxStatements = other.Decode.MaxStatements
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}

	if other.Metrics.Enabled {
		c.Metrics.Enabled = true
	}
}

// NewLogger builds the slog logger described by the log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// StoreOptions returns the store options described by the configuration.
// reg may be nil; it is only used when metrics are enabled.
func (c *Config) StoreOptions(logger *slog.Logger, reg prometheus.Registerer) []rdf.Option {
	opts := []rdf.Option{
		rdf.OptLogger(logger),
		rdf.OptLogErrors(!c.Store.QuietErrors),
	}
	if c.Store.StrictURIs {
		opts = append(opts, rdf.OptStrictURIs())
	}
	if c.Metrics.Enabled && reg != nil {
		opts = append(opts, rdf.OptRegisterer(reg))
	}
	return opts
}

// DecodeOptions returns the decoder limits described by the configuration.
func (c *Config) DecodeOptions() rdf.DecodeOptions {
	return rdf.DecodeOptions{
		MaxLineBytes:  c.Decode.MaxLineBytes,
		MaxStatements: c.Decode.MaxStatements,
	}
}
