// Package rdf provides an in-memory RDF quad store with context-scoped
// statements, pattern-matching queries and streaming iteration.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// The model is small and made of plain values:
//   - Node: a resource (URI), a blank node or a literal. The zero Node is
//     the absent node, used as a query wildcard and as the default context.
//   - Statement: subject, predicate and object slots. Quad adds a context.
//   - Store: a set of quads over a pluggable Storage backend.
//   - Stream: a single-pass cursor over query results.
//
// Storage backends are registered by name, in the manner of database/sql
// drivers. "memory" (alias "hashes") is built in; the sqlstore subpackage
// adds "sqlite".
//
// Example (adding and querying):
//
//	store := rdf.NewMemoryStore()
//	defer store.Close()
//
//	a, _ := rdf.NewResourceFromString("http://example.org/a")
//	knows, _ := rdf.NewResourceFromString("http://example.org/knows")
//	b, _ := rdf.NewResourceFromString("http://example.org/b")
//	if err := store.Add(rdf.NewStatement(a, knows, b), rdf.Node{}); err != nil {
//	    // handle error
//	}
//
//	stream, err := store.Find(rdf.Statement{S: a}, rdf.Node{})
//	if err != nil {
//	    // handle error
//	}
//	for q := range stream.Quads() {
//	    // process q.S, q.P, q.O and the context q.G
//	}
//	if err := stream.Err(); err != nil {
//	    // handle error
//	}
//
// Example (loading N-Quads):
//
//	n, err := store.AddStream(rdf.NewNQuadsStream(r), rdf.Node{})
//
// Store operations fail with errors that match the package sentinels through
// errors.Is; Code maps an error to a stable ErrorCode. A storage failure is
// fatal: the store returns it from every later call.
package rdf
