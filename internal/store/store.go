// Package store persists materials, study packs and the local event log in
// SQLite. Queries are built with ent's dialect-aware SQL builder.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	_ "modernc.org/sqlite" // pure Go driver, registers "sqlite"
)

// pragmas are set through the DSN so the driver applies them to every
// connection the pool opens, not just the first.
var pragmas = []string{
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	return path + "?" + q.Encode()
}

// Store owns the database handle and hands out repositories over it.
type Store struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Open opens (creating if needed) the database file at path and brings its
// schema up to date.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s, err := setup(context.Background(), db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func setup(ctx context.Context, db *sql.DB) (*Store, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	seq, err := newSequenceCounter(ctx, db)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, seq: seq}, nil
}

// DB exposes the handle for health checks and ad hoc queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) EventRepo() *EventLog {
	return &EventLog{db: s.db, seq: s.seq}
}

func (s *Store) Materials() *MaterialRepo {
	return &MaterialRepo{db: s.db}
}

func (s *Store) Packs() *PackRepo {
	return &PackRepo{db: s.db}
}

func (s *Store) KV() *KVRepo {
	return &KVRepo{db: s.db}
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// DefaultDBPath returns $STUDYPACK_DB, else studypack/studypack.db under
// the XDG data home, creating its directory.
func DefaultDBPath() (string, error) {
	if p := os.Getenv("STUDYPACK_DB"); p != "" {
		return p, EnsureDir(p)
	}
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	p := filepath.Join(base, "studypack", "studypack.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the directory that will hold path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
