package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/proffy-io/proffy-api/internal/models"
)

// ConnectionRepository stores contact events between students and tutors.
type ConnectionRepository struct {
	db sqlx.ExtContext
}

// NewConnectionRepository creates a new repository instance.
func NewConnectionRepository(db sqlx.ExtContext) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// Create persists a connection.
func (r *ConnectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	if conn.ID == "" {
		conn.ID = uuid.NewString()
	}
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO connections (id, user_id, subject, created_at) VALUES (:id, :user_id, :subject, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, conn); err != nil {
		return fmt.Errorf("create connection: %w", err)
	}
	return nil
}

// Count returns the number of connections matching the filter.
func (r *ConnectionRepository) Count(ctx context.Context, filter models.ConnectionFilter) (int, error) {
	query := "SELECT COUNT(*) FROM connections WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Subject != "" {
		conditions = append(conditions, "subject = ?")
		args = append(args, filter.Subject)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("count connections: %w", err)
	}
	return total, nil
}
