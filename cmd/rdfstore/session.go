package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfstore-go/internal/config"
	"github.com/geoknoesis/rdfstore-go/rdf"
)

// session is the store and configuration shared by one command run.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	store    *rdf.Store
}

// openSession loads configuration, applies the global flags, opens the store
// and loads every --data file into it.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := cfg.NewLogger(cmd.ErrOrStderr())
	registry := prometheus.NewRegistry()
	store, err := rdf.OpenStore(cfg.Storage, cfg.StoreOptions(logger, registry)...)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, logger: logger, registry: registry, store: store}

	files, _ := cmd.Flags().GetStringSlice("data")
	for _, path := range files {
		if _, err := s.loadFile(cmd.Context(), path, rdf.Node{}); err != nil {
			s.close()
			return nil, err
		}
	}
	return s, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	bootstrap := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: levelFor(verbose)}))

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.NewLoader(bootstrap).Load(path)
	if err != nil {
		return nil, &configError{err: err}
	}

	if name, _ := cmd.Flags().GetString("storage"); name != "" {
		cfg.Storage = rdf.StorageConfig{Name: name}
	}
	if id, _ := cmd.Flags().GetString("identifier"); id != "" {
		cfg.Storage.Identifier = id
	}
	if raw, _ := cmd.Flags().GetString("storage-options"); raw != "" {
		opts, err := rdf.ParseStorageOptions(raw)
		if err != nil {
			return nil, &configError{err: err}
		}
		cfg.Storage.Options = opts
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	// stats --metrics needs the counters even when the config leaves them off
	if withMetrics, err := cmd.Flags().GetBool("metrics"); err == nil && withMetrics {
		cfg.Metrics.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, &configError{err: err}
	}
	return cfg, nil
}

func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// loadFile adds the statements of one file to the store, into ctx when it is
// not the zero node.
func (s *session) loadFile(ctx context.Context, path string, into rdf.Node) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	stream, err := s.decode(ctx, path, f)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	n, err := s.store.AddStream(stream, into)
	if err != nil {
		return n, fmt.Errorf("load %s: %w", path, err)
	}
	s.logger.Debug("loaded file", slog.String("path", path), slog.Int("statements", n))
	return n, nil
}

func (s *session) decode(ctx context.Context, path string, r io.Reader) (*rdf.Stream, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nq", ".nt":
		opts := s.cfg.DecodeOptions()
		opts.Context = ctx
		return rdf.NewNQuadsStream(r, opts), nil
	case ".jsonld", ".json":
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		return rdf.NewJSONLDStream(ctx, r, rdf.JSONLDOptions{BaseIRI: "file://" + filepath.ToSlash(abs)})
	}
	return nil, fmt.Errorf("%w: %q (want .nq, .nt or .jsonld)", rdf.ErrUnsupportedFormat, filepath.Ext(path))
}

func (s *session) close() error {
	if err := s.store.Sync(); err != nil {
		s.store.Close()
		return err
	}
	return s.store.Close()
}

// parseNodeFlag reads a node from a command line value. Values in N-Quads
// term syntax are parsed as such; anything else is taken as an IRI. The
// empty string is the wildcard.
func parseNodeFlag(value string) (rdf.Node, error) {
	if value == "" {
		return rdf.Node{}, nil
	}
	if strings.HasPrefix(value, "<") || strings.HasPrefix(value, "_:") || strings.HasPrefix(value, `"`) {
		return rdf.ParseTerm(value)
	}
	return rdf.NewResourceFromString(value)
}

func nodeFlag(cmd *cobra.Command, name string) (rdf.Node, error) {
	value, _ := cmd.Flags().GetString(name)
	n, err := parseNodeFlag(value)
	if err != nil {
		return rdf.Node{}, fmt.Errorf("--%s: %w", name, err)
	}
	return n, nil
}
