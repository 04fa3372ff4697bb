package rdf

import (
	"io"
	"iter"
)

type streamState uint8

const (
	streamCreated streamState = iota
	streamActive
	streamExhausted
	streamInvalid
)

// quadSource produces the elements of a Stream. next returns io.EOF at the end.
type quadSource interface {
	next() (Quad, error)
	close() error
}

// Stream is a lazy, single-pass cursor over (statement, context) pairs.
//
// A fresh Stream is positioned before the first element: call Next before
// reading with Statement, Context or Quad. Once Next has returned false it
// keeps returning false. A Stream obtained from a Store becomes invalid when
// the Store is closed.
//
// Streams returned by Store queries hold a snapshot of the matching quads
// taken at query time; later mutations of the Store do not affect them.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	src    quadSource
	alive  func() bool
	state  streamState
	cur    Quad
	err    error
	closed bool
}

// NewStream returns a stream over a copy of quads.
func NewStream(quads []Quad) *Stream {
	snapshot := make([]Quad, len(quads))
	copy(snapshot, quads)
	return newStream(&sliceSource{quads: snapshot}, nil)
}

func newStream(src quadSource, alive func() bool) *Stream {
	return &Stream{src: src, alive: alive}
}

// Next advances the cursor. It returns false when the stream is exhausted,
// invalidated, or its source failed; Err distinguishes these cases.
func (s *Stream) Next() bool {
	if s.state == streamExhausted || s.state == streamInvalid {
		return false
	}
	if !s.valid() {
		return false
	}
	q, err := s.src.next()
	if err != nil {
		if err != io.EOF {
			s.err = err
		}
		s.state = streamExhausted
		s.cur = Quad{}
		s.release()
		return false
	}
	s.cur = q
	s.state = streamActive
	return true
}

// Statement returns the statement at the cursor.
func (s *Stream) Statement() (Statement, error) {
	q, err := s.Quad()
	return q.Statement, err
}

// Context returns the context at the cursor; the absent node means the
// default context.
func (s *Stream) Context() (Node, error) {
	q, err := s.Quad()
	return q.G, err
}

// Quad returns the statement and context at the cursor.
func (s *Stream) Quad() (Quad, error) {
	if !s.valid() {
		return Quad{}, ErrStreamInvalid
	}
	if s.state != streamActive {
		return Quad{}, ErrNotPositioned
	}
	return s.cur, nil
}

// Err returns the error that ended iteration, if any.
func (s *Stream) Err() error {
	if s.state == streamInvalid {
		return ErrStreamInvalid
	}
	return s.err
}

// Close releases the stream's source. It is safe to call more than once and
// to abandon a stream after Close.
func (s *Stream) Close() error {
	if s.state != streamInvalid {
		s.state = streamExhausted
	}
	s.cur = Quad{}
	return s.release()
}

// Quads returns an iterator over the remaining elements. The stream is closed
// when the iteration ends, including when the loop body breaks early. Check
// Err afterwards for source failures.
func (s *Stream) Quads() iter.Seq[Quad] {
	return func(yield func(Quad) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.cur) {
				return
			}
		}
	}
}

// Collect drains the stream into a slice and closes it.
func (s *Stream) Collect() ([]Quad, error) {
	var quads []Quad
	for q := range s.Quads() {
		quads = append(quads, q)
	}
	return quads, s.Err()
}

func (s *Stream) valid() bool {
	if s.state == streamInvalid {
		return false
	}
	if s.alive != nil && !s.alive() {
		s.state = streamInvalid
		s.cur = Quad{}
		s.release()
		return false
	}
	return true
}

func (s *Stream) release() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.src.close()
}

type sliceSource struct {
	quads []Quad
	pos   int
}

func (src *sliceSource) next() (Quad, error) {
	if src.pos >= len(src.quads) {
		return Quad{}, io.EOF
	}
	q := src.quads[src.pos]
	src.pos++
	return q, nil
}

func (src *sliceSource) close() error {
	src.quads = nil
	return nil
}
