package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/geoknoesis/rdfstore-go/rdf"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Name is the factory name the backend registers under.
const Name = "sqlite"

const memoryDSN = ":memory:"

func init() {
	rdf.RegisterStorage(Name, func(cfg rdf.StorageConfig) (rdf.Storage, error) {
		return Open(DSN(cfg))
	})
}

// DSN derives the driver data source name from a storage configuration. The
// "dsn" option wins; otherwise Identifier is used as a database file path
// opened in WAL mode; otherwise the database is in memory.
func DSN(cfg rdf.StorageConfig) string {
	if dsn := cfg.Options["dsn"]; dsn != "" {
		return dsn
	}
	if cfg.Identifier != "" {
		return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", cfg.Identifier)
	}
	return memoryDSN
}

// Storage is an rdf.Storage kept in a SQLite database.
type Storage struct {
	db     *sql.DB
	inFile bool
}

var _ rdf.Storage = (*Storage)(nil)

// Open opens (creating when needed) the database at dsn.
func Open(dsn string) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps one ":memory:" database for the whole
	// lifetime of the storage.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s := &Storage{db: db, inFile: dsn != memoryDSN && !strings.Contains(dsn, "mode=memory")}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

func (s *Storage) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS quads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			subject TEXT NOT NULL,
			predicate TEXT NOT NULL,
			object TEXT NOT NULL,
			context TEXT NOT NULL DEFAULT '',
			UNIQUE(subject, predicate, object, context)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quads_predicate ON quads(predicate);`,
		`CREATE INDEX IF NOT EXISTS idx_quads_object ON quads(object);`,
		`CREATE INDEX IF NOT EXISTS idx_quads_context ON quads(context);`,

		// Named contexts in first-use order.
		`CREATE TABLE IF NOT EXISTS contexts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func encodeQuad(q rdf.Quad) []any {
	return []any{rdf.FormatTerm(q.S), rdf.FormatTerm(q.P), rdf.FormatTerm(q.O), rdf.FormatTerm(q.G)}
}

// Add inserts q.
func (s *Storage) Add(q rdf.Quad) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT OR IGNORE INTO quads (subject, predicate, object, context) VALUES (?, ?, ?, ?)`, encodeQuad(q)...)
	if err != nil {
		return false, fmt.Errorf("insert quad: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if !q.G.IsZero() {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO contexts (name) VALUES (?)`, rdf.FormatTerm(q.G)); err != nil {
			return false, fmt.Errorf("record context: %w", err)
		}
	}
	return true, tx.Commit()
}

// Remove deletes q.
func (s *Storage) Remove(q rdf.Quad) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM quads WHERE subject = ? AND predicate = ? AND object = ? AND context = ?`, encodeQuad(q)...)
	if err != nil {
		return false, fmt.Errorf("delete quad: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if err := forgetContextIfEmpty(tx, q.G); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func forgetContextIfEmpty(tx *sql.Tx, ctx rdf.Node) error {
	if ctx.IsZero() {
		return nil
	}
	name := rdf.FormatTerm(ctx)
	_, err := tx.Exec(`DELETE FROM contexts WHERE name = ? AND NOT EXISTS (SELECT 1 FROM quads WHERE context = ?)`, name, name)
	if err != nil {
		return fmt.Errorf("forget context: %w", err)
	}
	return nil
}

// RemoveContext deletes every quad in ctx.
func (s *Storage) RemoveContext(ctx rdf.Node) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM quads WHERE context = ?`, rdf.FormatTerm(ctx))
	if err != nil {
		return 0, fmt.Errorf("delete context: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := forgetContextIfEmpty(tx, ctx); err != nil {
		return 0, err
	}
	return int(n), tx.Commit()
}

func (s *Storage) exists(query string, args ...any) (bool, error) {
	var one int
	err := s.db.QueryRow(query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Contains reports whether st is stored in any context.
func (s *Storage) Contains(st rdf.Statement) (bool, error) {
	return s.exists(`SELECT 1 FROM quads WHERE subject = ? AND predicate = ? AND object = ? LIMIT 1`,
		rdf.FormatTerm(st.S), rdf.FormatTerm(st.P), rdf.FormatTerm(st.O))
}

// ContainsQuad reports whether q is stored.
func (s *Storage) ContainsQuad(q rdf.Quad) (bool, error) {
	return s.exists(`SELECT 1 FROM quads WHERE subject = ? AND predicate = ? AND object = ? AND context = ? LIMIT 1`,
		encodeQuad(q)...)
}

// ContainsContext reports whether any quad carries ctx.
func (s *Storage) ContainsContext(ctx rdf.Node) (bool, error) {
	if ctx.IsZero() {
		return false, nil
	}
	return s.exists(`SELECT 1 FROM contexts WHERE name = ?`, rdf.FormatTerm(ctx))
}

// Contexts returns the named contexts in first-use order.
func (s *Storage) Contexts() ([]rdf.Node, error) {
	rows, err := s.db.Query(`SELECT name FROM contexts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contexts []rdf.Node
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		n, err := rdf.ParseTerm(name)
		if err != nil {
			return nil, fmt.Errorf("decode context %q: %w", name, err)
		}
		contexts = append(contexts, n)
	}
	return contexts, rows.Err()
}

// Find returns the quads matching pattern in insertion order. All rows are
// read before it returns.
func (s *Storage) Find(pattern rdf.Statement, ctx rdf.Node) ([]rdf.Quad, error) {
	var (
		where []string
		args  []any
	)
	for _, c := range []struct {
		column string
		node   rdf.Node
	}{
		{"subject", pattern.S},
		{"predicate", pattern.P},
		{"object", pattern.O},
		{"context", ctx},
	} {
		if c.node.IsZero() {
			continue
		}
		where = append(where, c.column+" = ?")
		args = append(args, rdf.FormatTerm(c.node))
	}
	query := `SELECT subject, predicate, object, context FROM quads`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quads []rdf.Quad
	for rows.Next() {
		var cols [4]string
		if err := rows.Scan(&cols[0], &cols[1], &cols[2], &cols[3]); err != nil {
			return nil, err
		}
		q, err := decodeQuad(cols)
		if err != nil {
			return nil, err
		}
		quads = append(quads, q)
	}
	return quads, rows.Err()
}

func decodeQuad(cols [4]string) (rdf.Quad, error) {
	var nodes [4]rdf.Node
	for i, col := range cols {
		if col == "" {
			continue
		}
		n, err := rdf.ParseTerm(col)
		if err != nil {
			return rdf.Quad{}, fmt.Errorf("decode term %q: %w", col, err)
		}
		nodes[i] = n
	}
	return rdf.NewQuad(rdf.NewStatement(nodes[0], nodes[1], nodes[2]), nodes[3]), nil
}

// Size returns the number of quads, or -1 when the count fails.
func (s *Storage) Size() int {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM quads`).Scan(&n); err != nil {
		return -1
	}
	return n
}

// Sync checkpoints the write-ahead log of file databases.
func (s *Storage) Sync() error {
	if !s.inFile {
		return nil
	}
	_, err := s.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`)
	return err
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}
