package models

import "github.com/golang-jwt/jwt/v5"

// EvaluatorClaims are the session claims the student portal embeds in its
// bearer tokens. The pipeline trusts them as caller-supplied identity; it
// never issues tokens.
type EvaluatorClaims struct {
	StudentNumber string `json:"student_number"`
	Target        string `json:"target"`
	jwt.RegisteredClaims
}
