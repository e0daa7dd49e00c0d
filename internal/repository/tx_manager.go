package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/proffy-io/proffy-api/internal/models"
	"github.com/proffy-io/proffy-api/pkg/config"
)

// TutorWriter persists tutor profiles.
type TutorWriter interface {
	Create(ctx context.Context, tutor *models.Tutor) error
}

// ClassWriter persists classes.
type ClassWriter interface {
	Create(ctx context.Context, class *models.Class) error
}

// ScheduleWriter persists weekly schedule slots.
type ScheduleWriter interface {
	CreateBatch(ctx context.Context, slots []models.ClassSchedule) error
}

// TxRepositories are bound to a single open transaction.
type TxRepositories struct {
	Tutors    TutorWriter
	Classes   ClassWriter
	Schedules ScheduleWriter
}

// TxManager runs a unit of work inside one transaction.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}

// SQLTxManager implements TxManager on top of sqlx.
type SQLTxManager struct {
	db *sqlx.DB
}

// NewSQLTxManager constructs a transaction manager.
func NewSQLTxManager(db *sqlx.DB) *SQLTxManager {
	return &SQLTxManager{db: db}
}

// WithTx begins a READ COMMITTED transaction, calls fn with repositories
// bound to it and commits when fn succeeds. Any error from fn, and any panic,
// rolls the whole unit back.
func (m *SQLTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) (err error) {
	tx, err := m.db.BeginTxx(ctx, m.txOptions())
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback: %v)", err, rbErr)
			}
		}
	}()

	repos := TxRepositories{
		Tutors:    NewTutorRepository(tx),
		Classes:   NewClassRepository(tx),
		Schedules: NewClassScheduleRepository(tx),
	}
	if err = fn(ctx, repos); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// SQLite has no READ COMMITTED level; its transactions are serializable.
func (m *SQLTxManager) txOptions() *sql.TxOptions {
	if m.db.DriverName() == config.DriverSQLite {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelReadCommitted}
}
