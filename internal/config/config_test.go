package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/geoknoesis/rdfstore-go/rdf"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Storage.Name != "memory" {
		t.Errorf("expected default storage memory, got %s", cfg.Storage.Name)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("unexpected default log config: %+v", cfg.Log)
	}
	if cfg.Decode.MaxLineBytes != rdf.DefaultMaxLineBytes {
		t.Errorf("unexpected default line limit: %d", cfg.Decode.MaxLineBytes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "hashes storage",
			modify:  func(c *Config) { c.Storage.Name = "hashes" },
			wantErr: false,
		},
		{
			name:    "missing storage name",
			modify:  func(c *Config) { c.Storage.Name = "" },
			wantErr: true,
		},
		{
			name:    "unknown storage",
			modify:  func(c *Config) { c.Storage.Name = "bdb" },
			wantErr: true,
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
		},
		{
			name:    "bad log format",
			modify:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "negative statement limit",
			modify:  func(c *Config) { c.Decode.MaxStatements = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
storage:
  name: hashes
  identifier: test
  options:
    new: "yes"
log:
  level: debug
  format: json
metrics:
  enabled: true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Storage.Name != "hashes" || cfg.Storage.Identifier != "test" || cfg.Storage.Options["new"] != "yes" {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if !cfg.Metrics.Enabled {
		t.Error("expected metrics enabled")
	}
	if cfg.Decode.MaxLineBytes != rdf.DefaultMaxLineBytes {
		t.Errorf("unset keys keep their defaults, got %d", cfg.Decode.MaxLineBytes)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("storage: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := LoadFromFile(bad); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveToFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Storage = rdf.StorageConfig{Name: "hashes", Options: map[string]string{"a": "b"}}
	cfg.Decode.MaxStatements = 10
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}
	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if loaded.Storage.Options["a"] != "b" || loaded.Decode.MaxStatements != 10 {
		t.Errorf("unexpected round trip: %+v", loaded)
	}
}

func TestLoaderPrecedence(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	work := filepath.Join(project, "sub", "dir")
	if err := os.MkdirAll(work, 0755); err != nil {
		t.Fatal(err)
	}

	user := filepath.Join(home, UserConfigDir, UserConfigFile)
	if err := os.MkdirAll(filepath.Dir(user), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, user, "log:\n  level: warn\n  format: json\nstorage:\n  name: hashes\n")
	writeFile(t, filepath.Join(project, ProjectConfigFile), "log:\n  level: debug\n")
	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	writeFile(t, explicit, "decode:\n  max_statements: 5\n")

	var logs bytes.Buffer
	loader := &Loader{logger: newTestLogger(&logs), homeDir: home, workDir: work}
	cfg, err := loader.Load(explicit)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("project config must override user config, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("user config keys survive when not overridden, got %s", cfg.Log.Format)
	}
	if cfg.Storage.Name != "hashes" {
		t.Errorf("project config without a storage section must keep the user's, got %s", cfg.Storage.Name)
	}
	if cfg.Decode.MaxStatements != 5 {
		t.Errorf("explicit config must apply, got %d", cfg.Decode.MaxStatements)
	}
	if !strings.Contains(logs.String(), "Loaded project config") {
		t.Errorf("expected debug log for project config, got %q", logs.String())
	}
}

func TestLoaderExplicitFileMustExist(t *testing.T) {
	loader := &Loader{logger: newTestLogger(&bytes.Buffer{})}
	if _, err := loader.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestEnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	loader := &Loader{logger: newTestLogger(&bytes.Buffer{}), homeDir: home}
	if err := loader.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, UserConfigDir, UserConfigFile)); err != nil {
		t.Fatalf("expected user config file: %v", err)
	}
}

func TestStoreOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Store.StrictURIs = true
	reg := prometheus.NewRegistry()

	var logs bytes.Buffer
	store, err := rdf.OpenStore(cfg.Storage, cfg.StoreOptions(cfg.NewLogger(&logs), reg)...)
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer store.Close()

	if _, err := store.World().NewURI("//no-scheme"); err == nil {
		t.Error("expected strict URI validation")
	}
	s, _ := rdf.NewResourceFromString("http://example.org/s")
	if err := store.Add(rdf.NewStatement(s, s, s), rdf.Node{}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Error("expected registered store metrics")
	}
}

func TestNewLoggerFormats(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Format = "json"
	var buf bytes.Buffer
	cfg.NewLogger(&buf).Info("hello")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected JSON output, got %q", buf.String())
	}

	buf.Reset()
	cfg.Log.Level = "error"
	cfg.NewLogger(&buf).Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered, got %q", buf.String())
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
