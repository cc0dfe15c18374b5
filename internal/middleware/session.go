package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/sma-eval-api/internal/models"
)

// ContextSessionKey is the gin context key storing evaluator session claims.
const ContextSessionKey = "evaluatorSession"

// OptionalSession attaches evaluator claims from a portal-issued bearer token
// when one is present and valid. Submissions without a token proceed; the
// pipeline validates identity through the form's access fields either way.
func OptionalSession(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || secret == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		claims := &models.EvaluatorClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err == nil && token.Valid {
			c.Set(ContextSessionKey, claims)
		}

		c.Next()
	}
}
