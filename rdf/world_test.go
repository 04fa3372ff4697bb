package rdf

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWorldFeatures(t *testing.T) {
	w := NewWorld()
	feature := mustURI("http://feature.example.org/strict")
	if _, ok := w.Feature(feature); ok {
		t.Fatal("unexpected feature")
	}
	if err := w.SetFeature(feature, NewBoolLiteral(true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := w.Feature(feature)
	if !ok || v != NewBoolLiteral(true) {
		t.Fatalf("unexpected feature value: %s", v)
	}
	if err := w.SetFeature(feature, Node{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := w.Feature(feature); ok {
		t.Fatal("expected feature to be cleared")
	}
	if err := w.SetFeature(URI{}, NewBoolLiteral(true)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestWorldStrictURIs(t *testing.T) {
	lenient := NewWorld()
	if _, err := lenient.NewURI("//no-scheme"); err != nil {
		t.Fatalf("lenient world rejected URI: %v", err)
	}
	strict := NewWorld(OptStrictURIs())
	if _, err := strict.NewURI("//no-scheme"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := strict.NewURI("http://example.org/ok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWorldBlankNodes(t *testing.T) {
	a, b := NewWorld(), NewWorld()
	na, nb := a.NewBlankNode(), b.NewBlankNode()
	if na == nb {
		t.Fatal("worlds must not hand out the same blank node")
	}
}

func TestWorldReportError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	reg := prometheus.NewRegistry()
	w := NewWorld(OptLogger(logger), OptRegisterer(reg))

	w.reportError("add", storageFailure("add", errors.New("disk full")))
	if !strings.Contains(buf.String(), "storage failure") || !strings.Contains(buf.String(), "disk full") {
		t.Fatalf("expected logged failure, got %q", buf.String())
	}
	if got := testutil.ToFloat64(w.metrics.failures); got != 1 {
		t.Fatalf("expected one recorded failure, got %v", got)
	}

	buf.Reset()
	w.SetLogsErrors(false)
	w.reportError("add", errors.New("quiet"))
	if buf.Len() != 0 {
		t.Fatalf("expected no log output, got %q", buf.String())
	}
	if got := testutil.ToFloat64(w.metrics.failures); got != 2 {
		t.Fatalf("failures are counted even when not logged, got %v", got)
	}
}

func TestWorldMetricsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := NewMemoryStore(OptRegisterer(reg))
	defer store.Close()

	s := mustResource(t, "http://example.org/s")
	if err := store.Add(NewStatement(s, s, s), Node{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Find(Statement{S: s}, Node{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := testutil.GatherAndCount(reg, "rdfstore_statements_added_total", "rdfstore_queries_total")
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 registered metrics, got %d", n)
	}
	if got := testutil.ToFloat64(store.World().metrics.added); got != 1 {
		t.Fatalf("expected one added statement, got %v", got)
	}
}
