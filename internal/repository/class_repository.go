package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/proffy-io/proffy-api/internal/models"
)

// ClassRepository handles persistence and availability lookups for classes.
type ClassRepository struct {
	db sqlx.ExtContext
}

// NewClassRepository creates a repository over a database or transaction.
func NewClassRepository(db sqlx.ExtContext) *ClassRepository {
	return &ClassRepository{db: db}
}

// Create inserts a class for an existing tutor.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	if class.CreatedAt.IsZero() {
		class.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO classes (id, user_id, subject, cost, created_at) VALUES (:id, :user_id, :subject, :cost, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

const searchQuery = `SELECT c.id, c.user_id, c.subject, c.cost, c.created_at, u.name, u.avatar, u.whatsapp, u.bio
FROM classes c
JOIN users u ON u.id = c.user_id
WHERE c.subject = ?
AND EXISTS (
    SELECT 1 FROM class_schedule cs
    WHERE cs.class_id = c.id AND cs.week_day = ? AND cs."from" <= ? AND cs."to" > ?
)
ORDER BY c.created_at ASC, c.id ASC`

// Search returns classes for the subject owning at least one slot that
// covers the minute on the weekday. Slots are half-open, so a slot ending at
// the minute does not match.
func (r *ClassRepository) Search(ctx context.Context, filter models.ClassSearchFilter) ([]models.ClassWithTutor, error) {
	classes := make([]models.ClassWithTutor, 0)
	query := r.db.Rebind(searchQuery)
	if err := sqlx.SelectContext(ctx, r.db, &classes, query, filter.Subject, filter.WeekDay, filter.Minute, filter.Minute); err != nil {
		return nil, fmt.Errorf("search classes: %w", err)
	}
	return classes, nil
}
