// Package migrations embeds the schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var files embed.FS

// Migrator applies the embedded schema to a database.
type Migrator struct {
	db *sql.DB
}

// New prepares goose for the given dialect ("postgres" or "sqlite3").
func New(db *sql.DB, dialect string) (*Migrator, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	goose.SetBaseFS(files)
	if err := goose.SetDialect(dialect); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	return &Migrator{db: db}, nil
}

// Quiet silences goose's own progress output.
func (m *Migrator) Quiet() *Migrator {
	goose.SetLogger(goose.NopLogger())
	return m
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	if err := goose.DownContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("roll back migration: %w", err)
	}
	return nil
}

// Version reports the current schema version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}

// Status writes the applied/pending state of each migration to w.
func (m *Migrator) Status(ctx context.Context, w io.Writer) error {
	migrations, err := goose.CollectMigrations(".", 0, goose.MaxVersion)
	if err != nil {
		return fmt.Errorf("collect migrations: %w", err)
	}
	current, err := m.Version(ctx)
	if err != nil {
		return err
	}
	for _, mig := range migrations {
		state := "pending"
		if mig.Version <= current {
			state = "applied"
		}
		fmt.Fprintf(w, "%05d  %-8s %s\n", mig.Version, state, mig.Source)
	}
	return nil
}
