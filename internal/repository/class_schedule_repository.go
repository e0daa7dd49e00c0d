package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/proffy-io/proffy-api/internal/models"
)

// ClassScheduleRepository manages weekly slots for classes.
type ClassScheduleRepository struct {
	db sqlx.ExtContext
}

// NewClassScheduleRepository builds repository.
func NewClassScheduleRepository(db sqlx.ExtContext) *ClassScheduleRepository {
	return &ClassScheduleRepository{db: db}
}

// CreateBatch inserts slots one by one, stopping at the first failure.
func (r *ClassScheduleRepository) CreateBatch(ctx context.Context, slots []models.ClassSchedule) error {
	const query = `INSERT INTO class_schedule (id, class_id, week_day, "from", "to") VALUES (:id, :class_id, :week_day, :from, :to)`

	for i := range slots {
		slot := &slots[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		if _, err := sqlx.NamedExecContext(ctx, r.db, query, slot); err != nil {
			return fmt.Errorf("create class schedule slot %d: %w", i, err)
		}
	}
	return nil
}

// ListByClass returns slots ordered by weekday and start.
func (r *ClassScheduleRepository) ListByClass(ctx context.Context, classID string) ([]models.ClassSchedule, error) {
	query := r.db.Rebind(`SELECT id, class_id, week_day, "from", "to" FROM class_schedule WHERE class_id = ? ORDER BY week_day ASC, "from" ASC`)
	slots := make([]models.ClassSchedule, 0)
	if err := sqlx.SelectContext(ctx, r.db, &slots, query, classID); err != nil {
		return nil, fmt.Errorf("list class schedule: %w", err)
	}
	return slots, nil
}
