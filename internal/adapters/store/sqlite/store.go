// Package sqlite implements every repository port on a SQLite database
// through the pure-Go modernc.org/sqlite driver. Queries are built with
// squirrel; the schema is applied from embedded migrations on Open.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/yigitunlu/heroject/internal/platform/config"
	"github.com/yigitunlu/heroject/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.ActionTypeRepository   = (*Store)(nil)
	_ ports.ActionRepository       = (*Store)(nil)
	_ ports.FollowRepository       = (*Store)(nil)
	_ ports.NotificationRepository = (*Store)(nil)
	_ ports.InvitationRepository   = (*Store)(nil)
	_ ports.DirectoryRepository    = (*Store)(nil)
	_ ports.MembershipWriter       = (*Store)(nil)
	_ ports.TxManager              = (*Store)(nil)
	_ ports.HealthChecker          = (*Store)(nil)
)

// builder produces "?" placeholders, which is what SQLite expects.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Store is the SQLite-backed repository set.
type Store struct {
	db    *sql.DB
	path  string
	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the clock used to stamp saves.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// Open opens (creating if needed) the database at cfg.Path and applies
// pending migrations.
//
// The pool is limited to one connection: SQLite serializes writers anyway,
// and a single connection keeps transactions from waiting on themselves.
func Open(ctx context.Context, cfg config.StoreConfig, opts ...Option) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to sqlite database: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating sqlite database: %w", err)
	}

	s := &Store{
		db:    db,
		path:  cfg.Path,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "sqlite"
}

// HealthCheck implements ports.HealthChecker by pinging the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}
