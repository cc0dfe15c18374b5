package dto

// SubmissionResult is returned to the caller after a submission attempt.
// Message is localized; internal error detail never leaks through it.
type SubmissionResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	FormType     string `json:"form_type,omitempty"`
	FormTarget   string `json:"form_target,omitempty"`
	SavedAnswers int    `json:"saved_answers"`
}
