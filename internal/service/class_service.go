package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/proffy-io/proffy-api/internal/dto"
	"github.com/proffy-io/proffy-api/internal/models"
	"github.com/proffy-io/proffy-api/internal/repository"
	"github.com/proffy-io/proffy-api/pkg/database"
	appErrors "github.com/proffy-io/proffy-api/pkg/errors"
	"github.com/proffy-io/proffy-api/pkg/timecodec"
)

const lastMinuteOfDay = 24*60 - 1

type classRepository interface {
	Search(ctx context.Context, filter models.ClassSearchFilter) ([]models.ClassWithTutor, error)
}

type classScheduleRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.ClassSchedule, error)
}

// ClassServiceConfig tunes search caching.
type ClassServiceConfig struct {
	CacheTTL time.Duration
}

// ClassService implements availability search and class registration.
type ClassService struct {
	classes   classRepository
	schedules classScheduleRepository
	tx        repository.TxManager
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ClassServiceConfig
}

// NewClassService constructs a ClassService. cache and metrics may be nil.
func NewClassService(
	classes classRepository,
	schedules classScheduleRepository,
	tx repository.TxManager,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ClassServiceConfig,
) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{
		classes:   classes,
		schedules: schedules,
		tx:        tx,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Search returns the classes for a subject whose weekly schedule covers the
// given weekday and time. All three filters are required; nothing is read
// when one is missing. The bool reports whether the result came from cache.
func (s *ClassService) Search(ctx context.Context, query dto.ClassSearchQuery) ([]models.ClassWithTutor, bool, error) {
	if query.Subject == "" || query.WeekDay == "" || query.Time == "" {
		return nil, false, appErrors.ErrMissingFilters
	}

	weekDay, err := strconv.Atoi(strings.TrimSpace(query.WeekDay))
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "week_day must be an integer")
	}
	minute, err := timecodec.ToMinutes(query.Time)
	if err != nil {
		return nil, false, appErrors.WrapAs(err, appErrors.ErrInvalidTime)
	}

	filter := models.ClassSearchFilter{Subject: query.Subject, WeekDay: weekDay, Minute: minute}

	// The generation is read before the database so a registration that
	// commits mid-search bumps it and orphans whatever this search caches.
	gen, cacheable := s.cache.Generation(ctx, filter.Subject)
	key := repository.SearchResultKey(filter.Subject, gen, filter.WeekDay, filter.Minute)
	if cacheable {
		var cached []models.ClassWithTutor
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			s.metrics.ObserveSearch(searchOutcome(cached))
			return cached, true, nil
		}
	}

	start := time.Now()
	classes, err := s.classes.Search(ctx, filter)
	s.metrics.ObserveDBQuery("classes_search", time.Since(start))
	if err != nil {
		s.metrics.ObserveSearch(SearchOutcomeError)
		s.logger.Error("class search failed",
			zap.String("subject", filter.Subject),
			zap.Int("week_day", filter.WeekDay),
			zap.Int("minute", filter.Minute),
			zap.Error(err),
		)
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search classes")
	}
	if classes == nil {
		classes = []models.ClassWithTutor{}
	}

	if cacheable {
		_ = s.cache.Set(ctx, key, classes, s.cfg.CacheTTL)
	}
	s.metrics.ObserveSearch(searchOutcome(classes))
	return classes, false, nil
}

// Register creates a tutor, one class for that tutor and its weekly slots as
// a single unit of work. Any failure after validation leaves no rows behind
// and is reported as ErrCreationFailed; the cause is only logged.
func (s *ClassService) Register(ctx context.Context, req dto.CreateClassRequest) (*dto.ClassCreated, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	slots, err := buildSlots(req.Schedule)
	if err != nil {
		s.metrics.ObserveRegistration(false)
		s.logger.Warn("class schedule rejected", zap.String("subject", req.Subject), zap.Error(err))
		return nil, appErrors.WrapAs(err, appErrors.ErrCreationFailed)
	}

	tutor := &models.Tutor{
		Name:     req.Name,
		Avatar:   req.Avatar,
		Whatsapp: req.Whatsapp,
		Bio:      req.Bio,
	}
	class := &models.Class{Subject: req.Subject, Cost: req.Cost}

	start := time.Now()
	err = s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		if err := repos.Tutors.Create(ctx, tutor); err != nil {
			return err
		}
		class.UserID = tutor.ID
		if err := repos.Classes.Create(ctx, class); err != nil {
			return err
		}
		for i := range slots {
			slots[i].ClassID = class.ID
		}
		return repos.Schedules.CreateBatch(ctx, slots)
	})
	s.metrics.ObserveDBQuery("classes_register", time.Since(start))
	if err != nil {
		s.metrics.ObserveRegistration(false)
		fields := []zap.Field{zap.String("subject", req.Subject), zap.Int("slots", len(slots)), zap.Error(err)}
		if constraint, ok := database.ConstraintViolation(err); ok {
			fields = append(fields, zap.String("constraint", constraint))
		}
		s.logger.Error("class registration rolled back", fields...)
		return nil, appErrors.WrapAs(err, appErrors.ErrCreationFailed)
	}

	s.metrics.ObserveRegistration(true)
	_ = s.cache.Invalidate(ctx, req.Subject)
	s.logger.Info("class registered",
		zap.String("class_id", class.ID),
		zap.String("user_id", tutor.ID),
		zap.String("subject", class.Subject),
		zap.Int("slots", len(slots)),
	)

	return &dto.ClassCreated{TutorID: tutor.ID, ClassID: class.ID, Slots: len(slots)}, nil
}

// Schedule returns the weekly slots of a class rendered as HH:MM.
func (s *ClassService) Schedule(ctx context.Context, classID string) ([]dto.ScheduleSlotView, error) {
	slots, err := s.schedules.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class schedule")
	}
	views := make([]dto.ScheduleSlotView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, dto.ScheduleSlotView{
			WeekDay: slot.WeekDay,
			From:    timecodec.FromMinutes(slot.From),
			To:      timecodec.FromMinutes(slot.To),
		})
	}
	return views, nil
}

// buildSlots converts schedule items to minute ranges, rejecting any window
// that is empty, inverted or spills outside a single day.
func buildSlots(items []dto.ScheduleItem) ([]models.ClassSchedule, error) {
	slots := make([]models.ClassSchedule, 0, len(items))
	for i, item := range items {
		if item.WeekDay == nil {
			return nil, fmt.Errorf("schedule[%d].week_day: missing", i)
		}
		from, err := timecodec.ToMinutes(item.From)
		if err != nil {
			return nil, fmt.Errorf("schedule[%d].from: %w", i, err)
		}
		to, err := timecodec.ToMinutes(item.To)
		if err != nil {
			return nil, fmt.Errorf("schedule[%d].to: %w", i, err)
		}
		if from < 0 || from >= to || to > lastMinuteOfDay {
			return nil, appErrors.Clone(appErrors.ErrInvalidSlot, fmt.Sprintf("schedule[%d]: %s-%s is not a valid window", i, item.From, item.To))
		}
		slots = append(slots, models.ClassSchedule{WeekDay: *item.WeekDay, From: from, To: to})
	}
	return slots, nil
}

func searchOutcome(classes []models.ClassWithTutor) string {
	if len(classes) == 0 {
		return SearchOutcomeEmpty
	}
	return SearchOutcomeMatched
}
