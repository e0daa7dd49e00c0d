package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/proffy-io/proffy-api/internal/models"
)

// TutorRepository handles persistence for tutor profiles (the users table).
type TutorRepository struct {
	db sqlx.ExtContext
}

// NewTutorRepository creates a repository over a database or transaction.
func NewTutorRepository(db sqlx.ExtContext) *TutorRepository {
	return &TutorRepository{db: db}
}

// Create inserts a tutor, assigning an id when absent.
func (r *TutorRepository) Create(ctx context.Context, tutor *models.Tutor) error {
	if tutor.ID == "" {
		tutor.ID = uuid.NewString()
	}
	if tutor.CreatedAt.IsZero() {
		tutor.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO users (id, name, avatar, whatsapp, bio, created_at) VALUES (:id, :name, :avatar, :whatsapp, :bio, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, tutor); err != nil {
		return fmt.Errorf("create tutor: %w", err)
	}
	return nil
}

// Exists reports whether a tutor with the id is stored.
func (r *TutorRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists int
	err := sqlx.GetContext(ctx, r.db, &exists, r.db.Rebind(`SELECT 1 FROM users WHERE id = ? LIMIT 1`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check tutor: %w", err)
	}
	return true, nil
}
