package rdf

import "sort"

type quadSet map[Quad]struct{}

// MemoryStorage is the in-memory hash storage. Every quad is indexed by
// subject, predicate, object and context so that Find only scans the smallest
// candidate set for a pattern. Insertion sequence numbers give a stable
// result order.
type MemoryStorage struct {
	seq         uint64
	quads       map[Quad]uint64
	statements  map[Statement]int
	bySubject   map[Node]quadSet
	byPredicate map[Node]quadSet
	byObject    map[Node]quadSet
	byContext   map[Node]quadSet
	firstUse    map[Node]uint64
	closed      bool
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		quads:       make(map[Quad]uint64),
		statements:  make(map[Statement]int),
		bySubject:   make(map[Node]quadSet),
		byPredicate: make(map[Node]quadSet),
		byObject:    make(map[Node]quadSet),
		byContext:   make(map[Node]quadSet),
		firstUse:    make(map[Node]uint64),
	}
}

// Add inserts q in O(1) amortized time.
func (m *MemoryStorage) Add(q Quad) (bool, error) {
	if m.closed {
		return false, ErrStoreClosed
	}
	if _, ok := m.quads[q]; ok {
		return false, nil
	}
	m.seq++
	m.quads[q] = m.seq
	m.statements[q.Statement]++
	indexAdd(m.bySubject, q.S, q)
	indexAdd(m.byPredicate, q.P, q)
	indexAdd(m.byObject, q.O, q)
	if indexAdd(m.byContext, q.G, q) {
		m.firstUse[q.G] = m.seq
	}
	return true, nil
}

// Remove deletes q.
func (m *MemoryStorage) Remove(q Quad) (bool, error) {
	if m.closed {
		return false, ErrStoreClosed
	}
	if _, ok := m.quads[q]; !ok {
		return false, nil
	}
	m.remove(q)
	return true, nil
}

func (m *MemoryStorage) remove(q Quad) {
	delete(m.quads, q)
	if m.statements[q.Statement] <= 1 {
		delete(m.statements, q.Statement)
	} else {
		m.statements[q.Statement]--
	}
	indexRemove(m.bySubject, q.S, q)
	indexRemove(m.byPredicate, q.P, q)
	indexRemove(m.byObject, q.O, q)
	if indexRemove(m.byContext, q.G, q) {
		delete(m.firstUse, q.G)
	}
}

// RemoveContext deletes every quad in ctx.
func (m *MemoryStorage) RemoveContext(ctx Node) (int, error) {
	if m.closed {
		return 0, ErrStoreClosed
	}
	set := m.byContext[ctx]
	victims := make([]Quad, 0, len(set))
	for q := range set {
		victims = append(victims, q)
	}
	for _, q := range victims {
		m.remove(q)
	}
	return len(victims), nil
}

// Contains reports whether st is stored in any context.
func (m *MemoryStorage) Contains(st Statement) (bool, error) {
	if m.closed {
		return false, ErrStoreClosed
	}
	return m.statements[st] > 0, nil
}

// ContainsQuad reports whether q is stored.
func (m *MemoryStorage) ContainsQuad(q Quad) (bool, error) {
	if m.closed {
		return false, ErrStoreClosed
	}
	_, ok := m.quads[q]
	return ok, nil
}

// ContainsContext reports whether ctx holds any quad.
func (m *MemoryStorage) ContainsContext(ctx Node) (bool, error) {
	if m.closed {
		return false, ErrStoreClosed
	}
	if ctx.IsZero() {
		return false, nil
	}
	return len(m.byContext[ctx]) > 0, nil
}

// Contexts returns the named contexts in first-use order.
func (m *MemoryStorage) Contexts() ([]Node, error) {
	if m.closed {
		return nil, ErrStoreClosed
	}
	contexts := make([]Node, 0, len(m.firstUse))
	for ctx := range m.firstUse {
		if !ctx.IsZero() {
			contexts = append(contexts, ctx)
		}
	}
	sort.Slice(contexts, func(i, j int) bool {
		return m.firstUse[contexts[i]] < m.firstUse[contexts[j]]
	})
	return contexts, nil
}

// Find returns the quads matching pattern (and ctx, when present) in
// insertion order.
func (m *MemoryStorage) Find(pattern Statement, ctx Node) ([]Quad, error) {
	if m.closed {
		return nil, ErrStoreClosed
	}
	candidates, all := m.candidates(pattern, ctx)
	var matches []Quad
	if all {
		matches = make([]Quad, 0, len(m.quads))
		for q := range m.quads {
			if q.Matches(pattern) {
				matches = append(matches, q)
			}
		}
	} else {
		for q := range candidates {
			if q.Matches(pattern) && (ctx.IsZero() || q.G == ctx) {
				matches = append(matches, q)
			}
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return m.quads[matches[i]] < m.quads[matches[j]]
	})
	return matches, nil
}

// candidates picks the smallest index bucket selected by the pattern. all is
// true when nothing in the pattern narrows the search.
func (m *MemoryStorage) candidates(pattern Statement, ctx Node) (quadSet, bool) {
	var best quadSet
	found := false
	consider := func(index map[Node]quadSet, key Node) {
		if key.IsZero() {
			return
		}
		set := index[key]
		if !found || len(set) < len(best) {
			best, found = set, true
		}
	}
	consider(m.bySubject, pattern.S)
	consider(m.byPredicate, pattern.P)
	consider(m.byObject, pattern.O)
	consider(m.byContext, ctx)
	return best, !found
}

// Size returns the number of stored quads.
func (m *MemoryStorage) Size() int {
	if m.closed {
		return -1
	}
	return len(m.quads)
}

// Sync is a no-op for memory storage.
func (m *MemoryStorage) Sync() error {
	if m.closed {
		return ErrStoreClosed
	}
	return nil
}

// Close drops all quads.
func (m *MemoryStorage) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.quads = nil
	m.statements = nil
	m.bySubject = nil
	m.byPredicate = nil
	m.byObject = nil
	m.byContext = nil
	m.firstUse = nil
	return nil
}

// indexAdd adds q under key and reports whether the bucket was created.
func indexAdd(index map[Node]quadSet, key Node, q Quad) bool {
	set, ok := index[key]
	if !ok {
		set = make(quadSet)
		index[key] = set
	}
	set[q] = struct{}{}
	return !ok
}

// indexRemove removes q from key and reports whether the bucket was dropped.
func indexRemove(index map[Node]quadSet, key Node, q Quad) bool {
	set := index[key]
	delete(set, q)
	if len(set) == 0 {
		delete(index, key)
		return true
	}
	return false
}
