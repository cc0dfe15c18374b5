package dto

import "github.com/noah-isme/sma-eval-api/internal/models"

// FormPayload is the read-side shape rendering clients consume.
type FormPayload struct {
	Form         models.Form              `json:"form"`
	Sections     []FormSectionPayload     `json:"sections"`
	AccessFields []models.FormAccessField `json:"access_fields"`
}

// FormSectionPayload nests a section's questions in display order.
type FormSectionPayload struct {
	Section   models.FormSection `json:"section"`
	Questions []models.Question  `json:"questions"`
}

// FormSummary is the list-view projection.
type FormSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	FormType   string `json:"form_type"`
	FormTarget string `json:"form_target"`
	Semester   string `json:"semester"`
}
