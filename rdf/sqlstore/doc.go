// Package sqlstore provides an rdf.Storage backed by SQLite through the
// pure Go modernc.org/sqlite driver.
//
// Importing the package registers the backend under the name "sqlite":
//
//	import _ "github.com/geoknoesis/rdfstore-go/rdf/sqlstore"
//
//	store, err := rdf.OpenStore(rdf.StorageConfig{Name: "sqlite", Identifier: "triples.db"})
//
// Without an identifier or a "dsn" option the database lives in memory.
// Terms are stored in their N-Triples form, so every node round-trips
// exactly.
package sqlstore
