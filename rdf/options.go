package rdf

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a World or a Store.
type Option func(*Options)

// Options holds World and Store settings.
type Options struct {
	// World is the coordination context used by a Store.
	World *World
	// Logger receives log output. Nil selects slog.Default.
	Logger *slog.Logger
	// Registerer receives the store metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
	// LogErrors logs storage failures at error level.
	LogErrors bool
	// StrictURIs validates URIs created through the World.
	StrictURIs bool
}

// OptWorld sets the World a Store reports to.
func OptWorld(w *World) Option {
	return func(opts *Options) {
		opts.World = w
	}
}

// OptLogger sets the logger of a World.
func OptLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// OptRegisterer registers the World's metrics with reg.
func OptRegisterer(reg prometheus.Registerer) Option {
	return func(opts *Options) {
		opts.Registerer = reg
	}
}

// OptLogErrors enables or disables error logging. It is enabled by default.
func OptLogErrors(enabled bool) Option {
	return func(opts *Options) {
		opts.LogErrors = enabled
	}
}

// OptStrictURIs enables RFC 3987 validation in World.NewURI.
func OptStrictURIs() Option {
	return func(opts *Options) {
		opts.StrictURIs = true
	}
}

func defaultOptions() Options {
	return Options{LogErrors: true}
}

func buildOptions(opts []Option) Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
