package models

import "time"

// Form statuses. Only published forms accept submissions.
const (
	FormStatusDraft     = "draft"
	FormStatusPublished = "published"
)

// Well-known form targets.
const (
	FormTargetStudent = "student"
	FormTargetAlumni  = "alumni"
)

// Form represents an evaluation form. Read-only to the submission pipeline.
type Form struct {
	ID         string    `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	FormType   string    `db:"form_type" json:"form_type"`
	FormTarget string    `db:"form_target" json:"form_target"`
	Status     string    `db:"status" json:"status"`
	Semester   string    `db:"semester" json:"semester"`
	Note       *string   `db:"note" json:"note,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// FormSection groups questions for rendering.
type FormSection struct {
	ID         string `db:"id" json:"id"`
	FormID     string `db:"form_id" json:"form_id"`
	Title      string `db:"title" json:"title"`
	OrderIndex int    `db:"order_index" json:"order_index"`
}

// FormAccessField is a dynamic identity/context field configured per form.
// The metadata collector resolves submitted values by Slug, falling back to
// the positional "field_<id>" input name used by legacy clients.
type FormAccessField struct {
	ID         string `db:"id" json:"id"`
	FormID     string `db:"form_id" json:"form_id"`
	Label      string `db:"label" json:"label"`
	Slug       string `db:"slug" json:"slug"`
	IsRequired bool   `db:"is_required" json:"is_required"`
	OrderIndex int    `db:"order_index" json:"order_index"`
}

// FormFilter narrows published form listings.
type FormFilter struct {
	FormType   string
	FormTarget string
	Page       int
	Limit      int
}
