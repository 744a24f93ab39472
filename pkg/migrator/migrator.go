// Package migrator applies the embedded goose migrations.
package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"

	"github.com/morsel-app/morsel-restaurant/pkg/logger"
)

// Migrator runs goose migrations from an embedded FS.
type Migrator struct {
	db       *sql.DB
	provider *goose.Provider
	log      logger.Logger
}

// New opens dbURL and prepares a goose provider over files. Concurrent
// runs from several processes are serialised by a Postgres advisory lock.
func New(dbURL string, files fs.FS, log logger.Logger) (*Migrator, error) {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create session locker: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, files, goose.WithSessionLocker(locker))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create goose provider: %w", err)
	}
	return &Migrator{db: db, provider: provider, log: log}, nil
}

// Up applies every pending migration and logs each applied version.
func (m *Migrator) Up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)
	for _, r := range results {
		m.log.InfoContext(ctx, "migration applied",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if len(results) == 0 {
		m.log.InfoContext(ctx, "schema up to date")
	}
	return nil
}

// Status logs the state of every known migration and reports whether any
// are still pending.
func (m *Migrator) Status(ctx context.Context) (pending bool, err error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return false, fmt.Errorf("migration status: %w", err)
	}
	for _, s := range statuses {
		m.log.InfoContext(ctx, "migration",
			"version", s.Source.Version,
			"path", s.Source.Path,
			"state", string(s.State),
		)
		if s.State == goose.StatePending {
			pending = true
		}
	}
	return pending, nil
}

// Close closes the database handle.
func (m *Migrator) Close() error {
	return m.db.Close()
}
