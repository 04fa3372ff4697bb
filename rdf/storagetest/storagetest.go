// Package storagetest is a conformance suite for rdf.Storage
// implementations. Backends call Run from their own tests.
package storagetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/rdfstore-go/rdf"
)

// Factory opens a fresh, empty storage for one subtest.
type Factory func(t *testing.T) rdf.Storage

const ex = "http://example.org/"

func iri(t *testing.T, local string) rdf.Node {
	t.Helper()
	n, err := rdf.NewResourceFromString(ex + local)
	require.NoError(t, err)
	return n
}

func literal(t *testing.T, value, lang string) rdf.Node {
	t.Helper()
	n, err := rdf.NewLiteral(value, lang, rdf.URI{})
	require.NoError(t, err)
	return n
}

func open(t *testing.T, factory Factory) *rdf.Store {
	t.Helper()
	store, err := rdf.NewStore(factory(t), rdf.OptLogErrors(false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func collect(t *testing.T, stream *rdf.Stream) []rdf.Quad {
	t.Helper()
	quads, err := stream.Collect()
	require.NoError(t, err)
	return quads
}

func find(t *testing.T, store *rdf.Store, pattern rdf.Statement, ctx rdf.Node) []rdf.Quad {
	t.Helper()
	stream, err := store.Find(pattern, ctx)
	require.NoError(t, err)
	return collect(t, stream)
}

func inContext(t *testing.T, store *rdf.Store, ctx rdf.Node) []rdf.Quad {
	t.Helper()
	stream, err := store.StatementsInContext(ctx)
	require.NoError(t, err)
	return collect(t, stream)
}

// Run exercises the storage contract through rdf.Store.
func Run(t *testing.T, factory Factory) {
	t.Run("AddThenContains", func(t *testing.T) {
		store := open(t, factory)
		st := rdf.NewStatement(iri(t, "a"), iri(t, "knows"), iri(t, "b"))

		require.NoError(t, store.Add(st, rdf.Node{}))
		ok, err := store.Contains(st)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, store.Size())

		require.NoError(t, store.Add(st, rdf.Node{}))
		assert.Equal(t, 1, store.Size(), "duplicate add must not grow the store")
	})

	t.Run("AddThenRemove", func(t *testing.T) {
		store := open(t, factory)
		g := iri(t, "g")
		st := rdf.NewStatement(iri(t, "a"), iri(t, "name"), literal(t, "Alice", "en"))
		require.NoError(t, store.Add(st, g))

		removed, err := store.Remove(st, g)
		require.NoError(t, err)
		assert.True(t, removed)

		ok, err := store.ContainsInContext(st, g)
		require.NoError(t, err)
		assert.False(t, ok)

		removed, err = store.Remove(st, g)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("IncompleteStatementRejected", func(t *testing.T) {
		store := open(t, factory)
		err := store.Add(rdf.NewStatement(iri(t, "a"), rdf.Node{}, iri(t, "b")), rdf.Node{})
		assert.ErrorIs(t, err, rdf.ErrIncompleteStatement)
		assert.Equal(t, 0, store.Size())
	})

	t.Run("ContextPartitions", func(t *testing.T) {
		store := open(t, factory)
		a, knows, b, c, g1 := iri(t, "a"), iri(t, "knows"), iri(t, "b"), iri(t, "c"), iri(t, "g1")
		require.NoError(t, store.Add(rdf.NewStatement(a, knows, b), g1))
		require.NoError(t, store.Add(rdf.NewStatement(a, knows, c), rdf.Node{}))

		all := find(t, store, rdf.Statement{S: a}, rdf.Node{})
		require.Len(t, all, 2)
		assert.Equal(t, b, all[0].O)
		assert.Equal(t, g1, all[0].G)
		assert.Equal(t, c, all[1].O)
		assert.True(t, all[1].InDefaultContext())

		inG1 := find(t, store, rdf.Statement{S: a}, g1)
		require.Len(t, inG1, 1)
		assert.Equal(t, b, inG1[0].O)

		defaults := inContext(t, store, rdf.Node{})
		require.Len(t, defaults, 1)
		assert.Equal(t, c, defaults[0].O)

		ok, err := store.ContainsContext(g1)
		require.NoError(t, err)
		assert.True(t, ok)

		n, err := store.RemoveContext(g1)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, 1, store.Size())

		ok, err = store.ContainsContext(g1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("SameStatementInTwoContexts", func(t *testing.T) {
		store := open(t, factory)
		st := rdf.NewStatement(iri(t, "a"), iri(t, "p"), iri(t, "b"))
		g1, g2 := iri(t, "g1"), iri(t, "g2")
		require.NoError(t, store.Add(st, g1))
		require.NoError(t, store.Add(st, g2))
		assert.Equal(t, 2, store.Size())

		_, err := store.Remove(st, g1)
		require.NoError(t, err)
		ok, err := store.Contains(st)
		require.NoError(t, err)
		assert.True(t, ok, "statement still stored in g2")
	})

	t.Run("ContextsInFirstUseOrder", func(t *testing.T) {
		store := open(t, factory)
		g1, g2, g3 := iri(t, "g1"), iri(t, "g2"), iri(t, "g3")
		p := iri(t, "p")
		for i, g := range []rdf.Node{g2, g1, g2, {}, g3} {
			member, err := rdf.OrdinalNode(i + 1)
			require.NoError(t, err)
			require.NoError(t, store.Add(rdf.NewStatement(iri(t, "s"), p, member), g))
		}
		contexts, err := store.Contexts()
		require.NoError(t, err)
		assert.Equal(t, []rdf.Node{g2, g1, g3}, contexts)
	})

	t.Run("FindEqualsBruteForce", func(t *testing.T) {
		store := open(t, factory)
		nodes := []rdf.Node{iri(t, "x"), iri(t, "y"), literal(t, "z", "")}
		preds := []rdf.Node{iri(t, "p"), iri(t, "q")}
		contexts := []rdf.Node{{}, iri(t, "g")}

		var inserted []rdf.Quad
		for _, s := range nodes[:2] {
			for _, p := range preds {
				for _, o := range nodes {
					for _, g := range contexts {
						q := rdf.NewQuad(rdf.NewStatement(s, p, o), g)
						require.NoError(t, store.Add(q.Statement, q.G))
						inserted = append(inserted, q)
					}
				}
			}
		}

		slotValues := func(values []rdf.Node) []rdf.Node { return append([]rdf.Node{{}}, values...) }
		for _, s := range slotValues(nodes[:2]) {
			for _, p := range slotValues(preds) {
				for _, o := range slotValues(nodes) {
					for _, g := range contexts {
						pattern := rdf.NewStatement(s, p, o)
						var want []rdf.Quad
						for _, q := range inserted {
							if q.Matches(pattern) && (g.IsZero() || q.G == g) {
								want = append(want, q)
							}
						}
						got := find(t, store, pattern, g)
						assert.Equal(t, want, got, "pattern %s in %s", pattern, g)
					}
				}
			}
		}
	})

	t.Run("RemoveMatching", func(t *testing.T) {
		store := open(t, factory)
		a, p, q := iri(t, "a"), iri(t, "p"), iri(t, "q")
		for _, o := range []rdf.Node{iri(t, "b"), iri(t, "c")} {
			require.NoError(t, store.Add(rdf.NewStatement(a, p, o), rdf.Node{}))
			require.NoError(t, store.Add(rdf.NewStatement(a, q, o), rdf.Node{}))
		}
		n, err := store.RemoveMatching(rdf.Statement{P: p}, rdf.Node{})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 2, store.Size())
	})

	t.Run("NodesRoundTrip", func(t *testing.T) {
		store := open(t, factory)
		blank, err := rdf.NewBlankNode("")
		require.NoError(t, err)
		named, err := rdf.NewBlankNode("b1")
		require.NoError(t, err)
		xml, err := rdf.NewXMLLiteral("<b>bold</b>", "")
		require.NoError(t, err)
		both, err := rdf.NewLiteral("chat", "fr", rdf.XMLSchema.URI("string"))
		require.NoError(t, err)
		objects := []rdf.Node{
			literal(t, "plain \"quoted\"\n", ""),
			literal(t, "", ""),
			literal(t, "hello", "en-GB"),
			rdf.NewIntLiteral(42),
			xml,
			both,
			named,
		}
		p := iri(t, "p")
		for _, o := range objects {
			require.NoError(t, store.Add(rdf.NewStatement(blank, p, o), named))
		}
		got := find(t, store, rdf.Statement{S: blank}, rdf.Node{})
		require.Len(t, got, len(objects))
		for i, o := range objects {
			assert.True(t, got[i].O.Equal(o), "object %d: got %s want %s", i, got[i].O, o)
			assert.Equal(t, named, got[i].G)
		}
		assert.True(t, got[4].O.IsXML())
	})

	t.Run("BlankNodeLabels", func(t *testing.T) {
		store := open(t, factory)
		p := iri(t, "p")
		var nodes []rdf.Node
		for _, id := range []string{"a.b", "x-1", "ns:local", "7up", "é·x"} {
			n, err := rdf.NewBlankNode(id)
			require.NoError(t, err)
			require.NoError(t, store.Add(rdf.NewStatement(n, p, n), n))
			nodes = append(nodes, n)
		}
		for _, id := range []string{"x#y", "a.", "q<r", `s"t`} {
			_, err := rdf.NewBlankNode(id)
			assert.ErrorIs(t, err, rdf.ErrInvalidArgument, "id %q", id)
		}

		got := find(t, store, rdf.Statement{P: p}, rdf.Node{})
		require.Len(t, got, len(nodes))
		for i, n := range nodes {
			assert.Equal(t, n, got[i].S)
			assert.Equal(t, n, got[i].G)
		}
		contexts, err := store.Contexts()
		require.NoError(t, err)
		assert.Equal(t, nodes, contexts)
		assert.Equal(t, len(nodes), store.Size(), "store must stay usable")
	})
}
