package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-eval-api/internal/models"
)

// FormRepository reads form configuration. The submission pipeline never
// mutates forms; they are pure inputs fetched fresh per submission.
type FormRepository struct {
	db *sqlx.DB
}

// NewFormRepository creates a new form repository.
func NewFormRepository(db *sqlx.DB) *FormRepository {
	return &FormRepository{db: db}
}

const formColumns = "id, title, form_type, form_target, status, semester, note, created_at, updated_at"

// FindPublished returns the form only when it is published. Draft and
// soft-deleted forms fall through to sql.ErrNoRows.
func (r *FormRepository) FindPublished(ctx context.Context, id string) (*models.Form, error) {
	var form models.Form
	query := fmt.Sprintf("SELECT %s FROM forms WHERE id = $1 AND status = $2", formColumns)
	if err := r.db.GetContext(ctx, &form, query, id, models.FormStatusPublished); err != nil {
		return nil, err
	}
	return &form, nil
}

// ListPublished returns published forms matching the filter with a total count.
func (r *FormRepository) ListPublished(ctx context.Context, filter models.FormFilter) ([]models.Form, int, error) {
	where := "WHERE status = $1"
	args := []interface{}{models.FormStatusPublished}
	if filter.FormType != "" {
		where += fmt.Sprintf(" AND form_type = $%d", len(args)+1)
		args = append(args, filter.FormType)
	}
	if filter.FormTarget != "" {
		where += fmt.Sprintf(" AND form_target = $%d", len(args)+1)
		args = append(args, filter.FormTarget)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM forms " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count forms: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	query := fmt.Sprintf("SELECT %s FROM forms %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		formColumns, where, limit, (page-1)*limit)

	var forms []models.Form
	if err := r.db.SelectContext(ctx, &forms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list forms: %w", err)
	}
	return forms, total, nil
}

// Sections returns a form's sections in display order.
func (r *FormRepository) Sections(ctx context.Context, formID string) ([]models.FormSection, error) {
	var sections []models.FormSection
	const query = "SELECT id, form_id, title, order_index FROM form_sections WHERE form_id = $1 ORDER BY order_index"
	if err := r.db.SelectContext(ctx, &sections, query, formID); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// Questions returns all of a form's questions in display order.
func (r *FormRepository) Questions(ctx context.Context, formID string) ([]models.Question, error) {
	var questions []models.Question
	const query = "SELECT id, form_id, section_id, question_text, question_type, choices, order_index FROM questions WHERE form_id = $1 ORDER BY order_index"
	if err := r.db.SelectContext(ctx, &questions, query, formID); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// FindQuestion fetches one question scoped to its owning form.
func (r *FormRepository) FindQuestion(ctx context.Context, id, formID string) (*models.Question, error) {
	var question models.Question
	const query = "SELECT id, form_id, section_id, question_text, question_type, choices, order_index FROM questions WHERE id = $1 AND form_id = $2"
	if err := r.db.GetContext(ctx, &question, query, id, formID); err != nil {
		return nil, err
	}
	return &question, nil
}

// AccessFields returns the form's dynamic identity fields in configured order.
func (r *FormRepository) AccessFields(ctx context.Context, formID string) ([]models.FormAccessField, error) {
	var fields []models.FormAccessField
	const query = "SELECT id, form_id, label, slug, is_required, order_index FROM form_access_fields WHERE form_id = $1 ORDER BY order_index"
	if err := r.db.SelectContext(ctx, &fields, query, formID); err != nil {
		return nil, fmt.Errorf("list access fields: %w", err)
	}
	return fields, nil
}
