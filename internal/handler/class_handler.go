package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proffy-io/proffy-api/internal/dto"
	"github.com/proffy-io/proffy-api/internal/models"
	appErrors "github.com/proffy-io/proffy-api/pkg/errors"
	"github.com/proffy-io/proffy-api/pkg/response"
)

// CacheHeader reports whether a search was served from cache.
const CacheHeader = "X-Cache"

type classService interface {
	Search(ctx context.Context, query dto.ClassSearchQuery) ([]models.ClassWithTutor, bool, error)
	Register(ctx context.Context, req dto.CreateClassRequest) (*dto.ClassCreated, error)
	Schedule(ctx context.Context, classID string) ([]dto.ScheduleSlotView, error)
}

// ClassHandler exposes class search and registration endpoints.
type ClassHandler struct {
	service classService
}

// NewClassHandler constructs a class handler.
func NewClassHandler(svc classService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// Search godoc
// @Summary Search classes by availability
// @Tags Classes
// @Produce json
// @Param subject query string true "Subject, matched exactly"
// @Param week_day query int true "Day of week (0-6)"
// @Param time query string true "Time of day as HH:MM"
// @Success 200 {array} models.ClassWithTutor
// @Failure 400 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) Search(c *gin.Context) {
	var query dto.ClassSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}

	classes, hit, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	if hit {
		c.Header(CacheHeader, "HIT")
	} else {
		c.Header(CacheHeader, "MISS")
	}
	response.Raw(c, http.StatusOK, classes)
}

// Create godoc
// @Summary Register a tutor with one class and its weekly schedule
// @Tags Classes
// @Accept json
// @Param payload body dto.CreateClassRequest true "Class payload"
// @Success 201
// @Failure 400 {object} response.Envelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if _, err := h.service.Register(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c)
}

// Schedule godoc
// @Summary List the weekly slots of a class
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/schedule [get]
func (h *ClassHandler) Schedule(c *gin.Context) {
	slots, err := h.service.Schedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots)
}
