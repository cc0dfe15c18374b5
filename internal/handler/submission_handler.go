package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-eval-api/internal/dto"
	"github.com/noah-isme/sma-eval-api/internal/models"
	appErrors "github.com/noah-isme/sma-eval-api/pkg/errors"
	"github.com/noah-isme/sma-eval-api/pkg/response"
)

type submissionService interface {
	HandleSubmission(ctx context.Context, raw map[string]interface{}, remoteIP string, claims *models.EvaluatorClaims) (*dto.SubmissionResult, error)
}

// SubmissionHandler exposes the submission endpoint.
type SubmissionHandler struct {
	service submissionService
}

// NewSubmissionHandler builds a new handler.
func NewSubmissionHandler(service submissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// Submit godoc
// @Summary Submit an evaluation
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param payload body object true "Flat submission map: form_id, dynamic identity fields, nested question map"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /evaluations [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}

	result, err := h.service.HandleSubmission(c.Request.Context(), raw, c.ClientIP(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
