package rdf

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// World is the process-wide coordination context shared by stores: it owns
// the log sink, the metrics, the blank node id generator and a table of
// feature settings.
type World struct {
	logger     *slog.Logger
	logErrors  atomic.Bool
	strictURIs bool
	metrics    *storeMetrics
	blanks     *blankNodeGenerator

	mu       sync.RWMutex
	features map[URI]Node
}

var (
	defaultWorldOnce sync.Once
	defaultWorld     *World
)

// DefaultWorld returns the shared World used by stores that are not given one.
func DefaultWorld() *World {
	defaultWorldOnce.Do(func() {
		defaultWorld = NewWorld()
	})
	return defaultWorld
}

// NewWorld creates a World.
func NewWorld(opts ...Option) *World {
	options := buildOptions(opts)
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	w := &World{
		logger:     logger,
		strictURIs: options.StrictURIs,
		metrics:    newStoreMetrics(options.Registerer),
		blanks:     newBlankNodeGenerator(),
		features:   make(map[URI]Node),
	}
	w.logErrors.Store(options.LogErrors)
	return w
}

// Logger returns the World's logger.
func (w *World) Logger() *slog.Logger { return w.logger }

// LogsErrors reports whether storage failures are logged.
func (w *World) LogsErrors() bool { return w.logErrors.Load() }

// SetLogsErrors enables or disables logging of storage failures.
func (w *World) SetLogsErrors(enabled bool) { w.logErrors.Store(enabled) }

// Feature returns the value of a feature setting.
func (w *World) Feature(feature URI) (Node, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.features[feature]
	return v, ok
}

// SetFeature sets a feature. The absent node clears it.
func (w *World) SetFeature(feature URI, value Node) error {
	if feature.IsZero() {
		return fmt.Errorf("%w: empty feature URI", ErrInvalidArgument)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if value.IsZero() {
		delete(w.features, feature)
		return nil
	}
	w.features[feature] = value
	return nil
}

// NewURI creates a URI, validating it when the World was created with
// OptStrictURIs.
func (w *World) NewURI(s string) (URI, error) {
	if w.strictURIs {
		if err := ValidateURI(s); err != nil {
			return URI{}, err
		}
	}
	return NewURI(s)
}

// NewBlankNode returns a blank node with a fresh id from this World.
func (w *World) NewBlankNode() Node {
	return Node{kind: TermBlank, value: w.blanks.next()}
}

func (w *World) reportError(op string, err error) {
	w.metrics.recordFailure()
	if w.LogsErrors() {
		w.logger.LogAttrs(context.Background(), slog.LevelError, "storage failure",
			slog.String("op", op), slog.String("error", err.Error()))
	}
}
