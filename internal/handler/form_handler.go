package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-eval-api/internal/dto"
	"github.com/noah-isme/sma-eval-api/internal/models"
	"github.com/noah-isme/sma-eval-api/pkg/response"
)

type formService interface {
	GetPublishedForm(ctx context.Context, id string) (*dto.FormPayload, error)
	ListPublishedForms(ctx context.Context, filter models.FormFilter) ([]dto.FormSummary, *models.Pagination, error)
}

// FormHandler exposes read-only form endpoints for rendering clients.
type FormHandler struct {
	service formService
}

// NewFormHandler builds a new handler.
func NewFormHandler(service formService) *FormHandler {
	return &FormHandler{service: service}
}

// List godoc
// @Summary List published forms
// @Tags Forms
// @Produce json
// @Param type query string false "Form type"
// @Param target query string false "Form target"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /forms [get]
func (h *FormHandler) List(c *gin.Context) {
	filter := models.FormFilter{
		FormType:   c.Query("type"),
		FormTarget: c.Query("target"),
		Page:       intQuery(c, "page"),
		Limit:      intQuery(c, "limit"),
	}
	forms, pagination, err := h.service.ListPublishedForms(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, forms, pagination)
}

// Get godoc
// @Summary Get a published form with sections, questions and access fields
// @Tags Forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /forms/{id} [get]
func (h *FormHandler) Get(c *gin.Context) {
	payload, err := h.service.GetPublishedForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payload, nil)
}

func intQuery(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}
