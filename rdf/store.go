package rdf

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Store is an RDF quad store: a set of statements partitioned by context.
//
// A Store wraps a Storage backend and enforces the store contract on top of
// it: partial statements are rejected, storage errors are latched so that the
// first failure is returned by every later call, and access is serialized by
// a readers-writer lock so a Store may be shared between goroutines.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	world   *World
	closed  atomic.Bool
	failure atomic.Pointer[StoreError]
}

// NewStore creates a Store over storage. Without OptWorld the store reports
// to DefaultWorld, or to a private World built from the other options when
// any are given.
func NewStore(storage Storage, opts ...Option) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("%w: nil storage", ErrInvalidArgument)
	}
	options := buildOptions(opts)
	world := options.World
	switch {
	case world != nil:
	case len(opts) == 0:
		world = DefaultWorld()
	default:
		world = NewWorld(opts...)
	}
	s := &Store{storage: storage, world: world}
	world.logger.Debug("store opened", slog.String("storage", fmt.Sprintf("%T", storage)))
	return s, nil
}

// NewMemoryStore creates a Store over a new MemoryStorage.
func NewMemoryStore(opts ...Option) *Store {
	s, _ := NewStore(NewMemoryStorage(), opts...)
	return s
}

// OpenStore creates the storage described by cfg and a Store over it.
func OpenStore(cfg StorageConfig, opts ...Option) (*Store, error) {
	storage, err := NewStorage(cfg)
	if err != nil {
		return nil, err
	}
	return NewStore(storage, opts...)
}

// World returns the World the store reports to.
func (s *Store) World() *World { return s.world }

// Add inserts st into context ctx; the absent node selects the default
// context. Adding a quad that is already present is a successful no-op.
func (s *Store) Add(st Statement, ctx Node) error {
	if !st.IsComplete() {
		return &StoreError{Op: "add", Err: ErrIncompleteStatement}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.addLocked(NewQuad(st, ctx))
	return err
}

func (s *Store) addLocked(q Quad) (bool, error) {
	if err := s.check(); err != nil {
		return false, err
	}
	added, err := s.storage.Add(q)
	if err != nil {
		return false, s.fail("add", err)
	}
	if added {
		s.world.metrics.recordAdded(1)
	}
	return added, nil
}

// AddStream inserts every element of stream and closes it. When ctx is
// present it replaces the context of every element; otherwise each element
// keeps its own. It returns the number of quads that were not already
// present. An incomplete element stops the import with
// ErrIncompleteStatement; elements added before it stay added.
func (s *Store) AddStream(stream *Stream, ctx Node) (int, error) {
	if stream == nil {
		return 0, fmt.Errorf("%w: nil stream", ErrInvalidArgument)
	}
	defer stream.Close()
	count := 0
	for stream.Next() {
		q, err := stream.Quad()
		if err != nil {
			return count, err
		}
		if !ctx.IsZero() {
			q.G = ctx
		}
		if !q.IsComplete() {
			return count, &StoreError{Op: "add stream", Err: fmt.Errorf("%w: %s", ErrIncompleteStatement, q.Statement)}
		}
		s.mu.Lock()
		added, err := s.addLocked(q)
		s.mu.Unlock()
		if err != nil {
			return count, err
		}
		if added {
			count++
		}
	}
	return count, stream.Err()
}

// Remove deletes st from context ctx and reports whether it was present.
func (s *Store) Remove(st Statement, ctx Node) (bool, error) {
	if !st.IsComplete() {
		return false, &StoreError{Op: "remove", Err: ErrIncompleteStatement}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return false, err
	}
	removed, err := s.storage.Remove(NewQuad(st, ctx))
	if err != nil {
		return false, s.fail("remove", err)
	}
	if removed {
		s.world.metrics.recordRemoved(1)
	}
	return removed, nil
}

// RemoveMatching deletes every quad matching pattern, restricted to ctx when
// it is present, and returns how many were deleted.
func (s *Store) RemoveMatching(pattern Statement, ctx Node) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return 0, err
	}
	matches, err := s.storage.Find(pattern, ctx)
	if err != nil {
		return 0, s.fail("remove matching", err)
	}
	removed := 0
	for _, q := range matches {
		ok, err := s.storage.Remove(q)
		if err != nil {
			s.world.metrics.recordRemoved(removed)
			return removed, s.fail("remove matching", err)
		}
		if ok {
			removed++
		}
	}
	s.world.metrics.recordRemoved(removed)
	return removed, nil
}

// RemoveContext deletes every statement in ctx. The absent node selects the
// default context.
func (s *Store) RemoveContext(ctx Node) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return 0, err
	}
	removed, err := s.storage.RemoveContext(ctx)
	if err != nil {
		return 0, s.fail("remove context", err)
	}
	s.world.metrics.recordRemoved(removed)
	return removed, nil
}

// Contains reports whether st is stored in any context.
func (s *Store) Contains(st Statement) (bool, error) {
	if !st.IsComplete() {
		return false, &StoreError{Op: "contains", Err: ErrIncompleteStatement}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return false, err
	}
	ok, err := s.storage.Contains(st)
	if err != nil {
		return false, s.fail("contains", err)
	}
	return ok, nil
}

// ContainsInContext reports whether st is stored in context ctx.
func (s *Store) ContainsInContext(st Statement, ctx Node) (bool, error) {
	if !st.IsComplete() {
		return false, &StoreError{Op: "contains", Err: ErrIncompleteStatement}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return false, err
	}
	ok, err := s.storage.ContainsQuad(NewQuad(st, ctx))
	if err != nil {
		return false, s.fail("contains", err)
	}
	return ok, nil
}

// ContainsContext reports whether at least one statement is tagged with ctx.
// The absent node is not a tag, so it always yields false.
func (s *Store) ContainsContext(ctx Node) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return false, err
	}
	if ctx.IsZero() {
		return false, nil
	}
	ok, err := s.storage.ContainsContext(ctx)
	if err != nil {
		return false, s.fail("contains context", err)
	}
	return ok, nil
}

// Contexts returns the named contexts in use, in first-use order.
func (s *Store) Contexts() ([]Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	contexts, err := s.storage.Contexts()
	if err != nil {
		return nil, s.fail("contexts", err)
	}
	return contexts, nil
}

// Size returns the number of statements across all contexts. A negative
// result means the size is unknown; it is not an error.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.check() != nil {
		return -1
	}
	return s.storage.Size()
}

// Find returns a stream of the statements matching pattern, searching only
// context ctx when it is present and every context otherwise. Results come in
// insertion order and are snapshotted at call time.
func (s *Store) Find(pattern Statement, ctx Node) (*Stream, error) {
	quads, err := s.find(pattern, ctx)
	if err != nil {
		return nil, err
	}
	return newStream(&sliceSource{quads: quads}, s.alive), nil
}

func (s *Store) find(pattern Statement, ctx Node) ([]Quad, error) {
	start := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	quads, err := s.storage.Find(pattern, ctx)
	if err != nil {
		return nil, s.fail("find", err)
	}
	s.world.metrics.recordQuery(start)
	return quads, nil
}

// Statements returns a stream of every statement in the store.
func (s *Store) Statements() (*Stream, error) {
	return s.Find(Statement{}, Node{})
}

// StatementsInContext returns a stream of the statements in ctx. Unlike Find,
// the absent node selects only the default context.
func (s *Store) StatementsInContext(ctx Node) (*Stream, error) {
	if !ctx.IsZero() {
		return s.Find(Statement{}, ctx)
	}
	quads, err := s.find(Statement{}, Node{})
	if err != nil {
		return nil, err
	}
	defaults := quads[:0]
	for _, q := range quads {
		if q.G.IsZero() {
			defaults = append(defaults, q)
		}
	}
	return newStream(&sliceSource{quads: defaults}, s.alive), nil
}

// Sync flushes buffered changes to the storage medium.
func (s *Store) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	if err := s.storage.Sync(); err != nil {
		return s.fail("sync", err)
	}
	s.world.logger.Debug("store synced")
	return nil
}

// Close releases the storage. Streams obtained from the store become invalid.
// Closing an already closed store is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Swap(true) {
		return nil
	}
	if err := s.storage.Close(); err != nil {
		return storageFailure("close", err)
	}
	s.world.logger.Debug("store closed")
	return nil
}

func (s *Store) alive() bool { return !s.closed.Load() }

// check returns the error that blocks further use of the store, if any.
func (s *Store) check() error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if f := s.failure.Load(); f != nil {
		return f
	}
	return nil
}

// fail latches err as the store's fatal failure.
func (s *Store) fail(op string, err error) error {
	if errors.Is(err, ErrStoreClosed) {
		return err
	}
	failure := storageFailure(op, err)
	if s.failure.CompareAndSwap(nil, failure) {
		s.world.reportError(op, failure)
		s.world.logger.Debug("store disabled after failure", slog.String("op", op))
	}
	return s.failure.Load()
}
