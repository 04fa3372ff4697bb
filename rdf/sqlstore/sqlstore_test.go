package sqlstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/rdfstore-go/rdf"
	"github.com/geoknoesis/rdfstore-go/rdf/sqlstore"
	"github.com/geoknoesis/rdfstore-go/rdf/storagetest"
)

func TestStorageContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) rdf.Storage {
		s, err := sqlstore.Open(":memory:")
		require.NoError(t, err)
		return s
	})
}

func TestStorageContractOnFile(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) rdf.Storage {
		s, err := sqlstore.Open(sqlstore.DSN(rdf.StorageConfig{Identifier: filepath.Join(t.TempDir(), "quads.db")}))
		require.NoError(t, err)
		return s
	})
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  rdf.StorageConfig
		want string
	}{
		{"default", rdf.StorageConfig{}, ":memory:"},
		{"identifier", rdf.StorageConfig{Identifier: "/tmp/x.db"}, "file:/tmp/x.db?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"},
		{"explicit dsn", rdf.StorageConfig{Identifier: "ignored", Options: map[string]string{"dsn": "file:y.db"}}, "file:y.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sqlstore.DSN(tt.cfg))
		})
	}
}

func TestRegisteredFactory(t *testing.T) {
	assert.Contains(t, rdf.StorageNames(), sqlstore.Name)

	store, err := rdf.OpenStore(rdf.StorageConfig{Name: sqlstore.Name})
	require.NoError(t, err)
	defer store.Close()

	s, err := rdf.NewResourceFromString("http://example.org/s")
	require.NoError(t, err)
	lit, err := rdf.NewPlainLiteral("v")
	require.NoError(t, err)
	require.NoError(t, store.Add(rdf.NewStatement(s, s, lit), rdf.Node{}))
	assert.Equal(t, 1, store.Size())
	require.NoError(t, store.Sync())
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	cfg := rdf.StorageConfig{Name: sqlstore.Name, Identifier: path}

	g, err := rdf.NewResourceFromString("http://example.org/g")
	require.NoError(t, err)
	s, err := rdf.NewResourceFromString("http://example.org/s")
	require.NoError(t, err)
	st := rdf.NewStatement(s, s, s)

	store, err := rdf.OpenStore(cfg)
	require.NoError(t, err)
	require.NoError(t, store.Add(st, g))
	require.NoError(t, store.Sync())
	require.NoError(t, store.Close())

	store, err = rdf.OpenStore(cfg)
	require.NoError(t, err)
	defer store.Close()
	ok, err := store.ContainsInContext(st, g)
	require.NoError(t, err)
	assert.True(t, ok)
	contexts, err := store.Contexts()
	require.NoError(t, err)
	assert.Equal(t, []rdf.Node{g}, contexts)
}
