package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/proffy-io/proffy-api/internal/dto"
	"github.com/proffy-io/proffy-api/internal/models"
	appErrors "github.com/proffy-io/proffy-api/pkg/errors"
)

type connectionRepository interface {
	Create(ctx context.Context, conn *models.Connection) error
	Count(ctx context.Context, filter models.ConnectionFilter) (int, error)
}

type tutorLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ConnectionService records and counts student-tutor contacts.
type ConnectionService struct {
	repo      connectionRepository
	tutors    tutorLookup
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConnectionService constructs a ConnectionService.
func NewConnectionService(repo connectionRepository, tutors tutorLookup, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ConnectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectionService{repo: repo, tutors: tutors, metrics: metrics, validator: validate, logger: logger}
}

// Record stores one connection for an existing tutor.
func (s *ConnectionService) Record(ctx context.Context, req dto.CreateConnectionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid connection payload")
	}

	exists, err := s.tutors.Exists(ctx, req.UserID)
	if err != nil {
		s.logger.Error("tutor lookup failed", zap.String("user_id", req.UserID), zap.Error(err))
		return appErrors.WrapAs(err, appErrors.ErrConnection)
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
	}

	conn := &models.Connection{UserID: req.UserID}
	if subject := strings.TrimSpace(req.Subject); subject != "" {
		conn.Subject = &subject
	}
	if err := s.repo.Create(ctx, conn); err != nil {
		s.logger.Error("connection insert failed", zap.String("user_id", req.UserID), zap.Error(err))
		return appErrors.WrapAs(err, appErrors.ErrConnection)
	}

	s.metrics.ObserveConnection()
	return nil
}

// Count returns the number of recorded connections matching filter.
func (s *ConnectionService) Count(ctx context.Context, filter models.ConnectionFilter) (int, error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count connections")
	}
	return total, nil
}
