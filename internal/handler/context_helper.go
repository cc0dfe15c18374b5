package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-eval-api/internal/middleware"
	"github.com/noah-isme/sma-eval-api/internal/models"
)

// claimsFromContext returns the evaluator session claims when the optional
// session middleware attached them.
func claimsFromContext(c *gin.Context) *models.EvaluatorClaims {
	if raw, ok := c.Get(middleware.ContextSessionKey); ok {
		if claims, ok := raw.(*models.EvaluatorClaims); ok {
			return claims
		}
	}
	return nil
}
