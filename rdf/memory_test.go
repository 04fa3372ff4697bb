package rdf_test

import (
	"testing"

	"github.com/geoknoesis/rdfstore-go/rdf"
	"github.com/geoknoesis/rdfstore-go/rdf/storagetest"
)

func TestMemoryStorageContract(t *testing.T) {
	storagetest.Run(t, func(*testing.T) rdf.Storage {
		return rdf.NewMemoryStorage()
	})
}

func TestHashesStorageContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) rdf.Storage {
		s, err := rdf.NewStorage(rdf.StorageConfig{Name: "hashes"})
		if err != nil {
			t.Fatalf("unexpected storage error: %v", err)
		}
		return s
	})
}
