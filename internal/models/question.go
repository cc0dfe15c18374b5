package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionEssay          QuestionType = "essay"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionEvaluation     QuestionType = "evaluation"
	QuestionTrueFalse      QuestionType = "true_false"
)

// AgreeSentinel is the answer value mapping a true_false question to true.
const AgreeSentinel = "agree"

// StringList stores an ordered option set as a JSON array column.
type StringList []string

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported choices type %T", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, l)
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Question belongs to a form. Choices is populated for multiple_choice only.
type Question struct {
	ID           string       `db:"id" json:"id"`
	FormID       string       `db:"form_id" json:"form_id"`
	SectionID    *string      `db:"section_id" json:"section_id,omitempty"`
	QuestionText string       `db:"question_text" json:"question_text"`
	QuestionType QuestionType `db:"question_type" json:"question_type"`
	Choices      StringList   `db:"choices" json:"choices,omitempty"`
	OrderIndex   int          `db:"order_index" json:"order_index"`
}
