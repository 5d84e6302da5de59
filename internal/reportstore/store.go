// Package reportstore keeps a history of compile reports, either in a local
// JSON file or in Postgres.
package reportstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"intellic/internal/compiler"
)

var ErrNotConfigured = errors.New("reportstore: neither store.path nor store.dsn is set")

// Record is one stored report.
type Record struct {
	ID        string          `json:"id" yaml:"id"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
	Report    compiler.Report `json:"report" yaml:"report"`
}

type Store struct {
	path string
	db   *sql.DB
	now  func() time.Time

	loadOnce sync.Once
	loadErr  error
	mu       sync.Mutex
	rows     []Record

	schemaMu    sync.Mutex
	schemaReady bool
}

// New returns a file-backed store. The file is created on the first Put.
func New(path string) *Store {
	return &Store{path: strings.TrimSpace(path), now: time.Now}
}

func NewPostgres(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

// Open prefers Postgres when dsn is set, then the file at path.
func Open(ctx context.Context, path, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) != "" {
		return NewPostgres(ctx, dsn)
	}
	if strings.TrimSpace(path) == "" {
		return nil, ErrNotConfigured
	}
	return New(path), nil
}

// Put stores r under a fresh ID.
func (s *Store) Put(ctx context.Context, r compiler.Report) (Record, error) {
	rec := Record{ID: uuid.NewString(), CreatedAt: s.now().UTC(), Report: r}
	if s.db != nil {
		return rec, s.putDB(ctx, rec)
	}
	return rec, s.putFile(rec)
}

// List returns up to limit records, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if s.db != nil {
		return s.listDB(ctx, limit)
	}
	return s.listFile(limit)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
