package service

import (
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/noah-isme/sma-eval-api/internal/models"
	appErrors "github.com/noah-isme/sma-eval-api/pkg/errors"
)

// ProcessAnswer maps a question's declared type and a raw response sub-map to
// a typed answer value. A nil, nil return means the answer is skipped: that
// question simply produces no row, which is not a submission failure.
//
// Essay and evaluation silently drop unusable input, while multiple_choice
// has a closed option set and an out-of-set selection is a hard validation
// failure.
func ProcessAnswer(questionType models.QuestionType, choices []string, response map[string]interface{}) (models.AnswerValue, error) {
	if len(response) == 0 {
		return nil, nil
	}

	switch questionType {
	case models.QuestionEssay:
		raw, ok := stringField(response, "answer")
		if !ok {
			return nil, nil
		}
		content := strings.TrimSpace(raw)
		if content == "" {
			return nil, nil
		}
		return models.EssayAnswer{Content: html.EscapeString(content)}, nil

	case models.QuestionMultipleChoice:
		raw, ok := stringField(response, "answer")
		if !ok {
			return nil, nil
		}
		selected := html.EscapeString(strings.TrimSpace(raw))
		for _, option := range choices {
			if selected == option {
				return models.MultipleChoiceAnswer{Selected: selected, Options: choices}, nil
			}
		}
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid choice for question")

	case models.QuestionEvaluation:
		rating, ok := intField(response, "rating")
		if !ok || rating < 1 || rating > 5 {
			return nil, nil
		}
		return models.RatingAnswer{Value: rating}, nil

	case models.QuestionTrueFalse:
		raw, ok := stringField(response, "answer")
		if !ok {
			return nil, nil
		}
		value := 0
		if raw == models.AgreeSentinel {
			value = 1
		}
		return models.BooleanAnswer{Value: value}, nil

	default:
		return nil, nil
	}
}

func stringField(response map[string]interface{}, key string) (string, bool) {
	raw, ok := response[key]
	if !ok {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

func intField(response map[string]interface{}, key string) (int, bool) {
	raw, ok := response[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
