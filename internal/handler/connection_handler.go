package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/proffy-io/proffy-api/internal/dto"
	"github.com/proffy-io/proffy-api/internal/models"
	appErrors "github.com/proffy-io/proffy-api/pkg/errors"
	"github.com/proffy-io/proffy-api/pkg/response"
)

type connectionService interface {
	Record(ctx context.Context, req dto.CreateConnectionRequest) error
	Count(ctx context.Context, filter models.ConnectionFilter) (int, error)
}

// ConnectionHandler exposes the connection counter.
type ConnectionHandler struct {
	service connectionService
}

// NewConnectionHandler constructs a connection handler.
func NewConnectionHandler(svc connectionService) *ConnectionHandler {
	return &ConnectionHandler{service: svc}
}

// Create godoc
// @Summary Record a contact with a tutor
// @Tags Connections
// @Accept json
// @Param payload body dto.CreateConnectionRequest true "Connection payload"
// @Success 201
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /connections [post]
func (h *ConnectionHandler) Create(c *gin.Context) {
	var req dto.CreateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if err := h.service.Record(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c)
}

// Count godoc
// @Summary Count recorded connections
// @Tags Connections
// @Produce json
// @Param user_id query string false "Only connections to this tutor"
// @Param subject query string false "Only connections for this subject"
// @Success 200 {object} dto.ConnectionTotal
// @Router /connections [get]
func (h *ConnectionHandler) Count(c *gin.Context) {
	filter := models.ConnectionFilter{
		UserID:  strings.TrimSpace(c.Query("user_id")),
		Subject: strings.TrimSpace(c.Query("subject")),
	}
	total, err := h.service.Count(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, dto.ConnectionTotal{Total: total})
}
