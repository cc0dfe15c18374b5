package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-eval-api/internal/models"
)

// ResponseRepository owns evaluation response persistence. All writes of one
// submission go through a single transaction opened by the orchestrator.
type ResponseRepository struct {
	db *sqlx.DB
}

// NewResponseRepository creates a new response repository.
func NewResponseRepository(db *sqlx.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Begin opens the submission transaction.
func (r *ResponseRepository) Begin(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin submission tx: %w", err)
	}
	return tx, nil
}

const insertResponseQuery = `INSERT INTO evaluation_responses
        (id, form_type, form_target, question_id, answer_value, metadata, semester, student_id, course_id, teacher_id, group_id, created_at)
        VALUES (:id, :form_type, :form_target, :question_id, :answer_value, :metadata, :semester, :student_id, :course_id, :teacher_id, :group_id, :created_at)`

// InsertAll writes one row per answered question within the transaction. The
// statement is prepared once and reused across the loop. A failing insert
// surfaces so the orchestrator rolls back the whole submission; the unique
// index on (form_type, semester, student_id, course_id, question_id) is the
// crash-safe backstop against concurrent duplicates.
func (r *ResponseRepository) InsertAll(ctx context.Context, tx *sqlx.Tx, rows []models.EvaluationResponse) error {
	if len(rows) == 0 {
		return nil
	}

	stmt, err := tx.PrepareNamedContext(ctx, insertResponseQuery)
	if err != nil {
		return fmt.Errorf("prepare response insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = uuid.NewString()
		}
		if rows[i].CreatedAt.IsZero() {
			rows[i].CreatedAt = now
		}
		if _, err := stmt.ExecContext(ctx, rows[i]); err != nil {
			return fmt.Errorf("insert response for question %s: %w", rows[i].QuestionID, err)
		}
	}
	return nil
}
