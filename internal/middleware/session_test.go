package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-eval-api/internal/models"
)

const sessionSecret = "test_secret"

func signSession(t *testing.T, secret string, claims *models.EvaluatorClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runSession(t *testing.T, authorization string) *models.EvaluatorClaims {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var captured *models.EvaluatorClaims

	r := gin.New()
	r.Use(OptionalSession(sessionSecret))
	r.GET("/probe", func(c *gin.Context) {
		if raw, ok := c.Get(ContextSessionKey); ok {
			captured = raw.(*models.EvaluatorClaims)
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return captured
}

func TestOptionalSessionAttachesValidClaims(t *testing.T) {
	token := signSession(t, sessionSecret, &models.EvaluatorClaims{
		StudentNumber: "12345",
		Target:        "student",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims := runSession(t, "Bearer "+token)
	require.NotNil(t, claims)
	assert.Equal(t, "12345", claims.StudentNumber)
	assert.Equal(t, "student", claims.Target)
}

func TestOptionalSessionIgnoresMissingToken(t *testing.T) {
	assert.Nil(t, runSession(t, ""))
}

func TestOptionalSessionIgnoresBadSignature(t *testing.T) {
	token := signSession(t, "wrong_secret", &models.EvaluatorClaims{StudentNumber: "12345"})
	assert.Nil(t, runSession(t, "Bearer "+token))
}

func TestOptionalSessionIgnoresExpiredToken(t *testing.T) {
	token := signSession(t, sessionSecret, &models.EvaluatorClaims{
		StudentNumber: "12345",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	assert.Nil(t, runSession(t, "Bearer "+token))
}

func TestOptionalSessionIgnoresMalformedHeader(t *testing.T) {
	assert.Nil(t, runSession(t, "Token abc"))
}
