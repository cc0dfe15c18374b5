package models

import (
	"encoding/json"
	"time"
)

// EvaluationResponse is one persisted row: one answered question of one
// submission. All rows of a submission share byte-identical metadata and are
// written in the same transaction. Identity columns mirror the canonical
// metadata keys so the uniqueness guard and its backing index can address
// them directly.
type EvaluationResponse struct {
	ID          string          `db:"id" json:"id"`
	FormType    string          `db:"form_type" json:"form_type"`
	FormTarget  string          `db:"form_target" json:"form_target"`
	QuestionID  string          `db:"question_id" json:"question_id"`
	AnswerValue json.RawMessage `db:"answer_value" json:"answer_value"`
	Metadata    json.RawMessage `db:"metadata" json:"metadata"`
	Semester    string          `db:"semester" json:"semester"`
	StudentID   *string         `db:"student_id" json:"student_id,omitempty"`
	CourseID    *string         `db:"course_id" json:"course_id,omitempty"`
	TeacherID   *string         `db:"teacher_id" json:"teacher_id,omitempty"`
	GroupID     *string         `db:"group_id" json:"group_id,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// Pagination describes list slicing for read endpoints.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
