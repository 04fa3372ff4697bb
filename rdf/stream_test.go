package rdf

import (
	"errors"
	"testing"
)

func TestStreamProtocol(t *testing.T) {
	s := mustResource(t, "http://example.org/s")
	quads := []Quad{
		NewQuad(NewStatement(s, s, NewIntLiteral(1)), Node{}),
		NewQuad(NewStatement(s, s, NewIntLiteral(2)), s),
	}
	stream := NewStream(quads)
	quads[0] = Quad{}

	if _, err := stream.Statement(); !errors.Is(err, ErrNotPositioned) {
		t.Fatalf("expected ErrNotPositioned before Next, got %v", err)
	}

	if !stream.Next() {
		t.Fatal("expected first element")
	}
	st, err := stream.Statement()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := st.O.Int(); v != 1 {
		t.Fatalf("stream must not alias its input: %s", st)
	}
	if ctx, _ := stream.Context(); !ctx.IsZero() {
		t.Fatalf("expected default context, got %s", ctx)
	}

	if !stream.Next() {
		t.Fatal("expected second element")
	}
	if ctx, _ := stream.Context(); ctx != s {
		t.Fatalf("unexpected context: %s", ctx)
	}

	for i := 0; i < 3; i++ {
		if stream.Next() {
			t.Fatal("exhaustion must be sticky")
		}
		if _, err := stream.Statement(); !errors.Is(err, ErrNotPositioned) {
			t.Fatalf("expected ErrNotPositioned after exhaustion, got %v", err)
		}
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("second close must be a no-op: %v", err)
	}
}

func TestStreamQuadsBreakCloses(t *testing.T) {
	s := mustResource(t, "http://example.org/s")
	stream := NewStream([]Quad{
		NewQuad(NewStatement(s, s, s), Node{}),
		NewQuad(NewStatement(s, s, NewIntLiteral(1)), Node{}),
	})
	for range stream.Quads() {
		break
	}
	if stream.Next() {
		t.Fatal("expected closed stream after break")
	}
}

func TestEmptyStream(t *testing.T) {
	quads, err := NewStream(nil).Collect()
	if err != nil || len(quads) != 0 {
		t.Fatalf("expected empty result, got %v %v", quads, err)
	}
}
