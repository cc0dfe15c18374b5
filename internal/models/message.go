package models

// SystemMessage maps an internal error key to user-facing localized text.
type SystemMessage struct {
	MessageKey  string `db:"message_key" json:"message_key"`
	MessageText string `db:"message_text" json:"message_text"`
}

// Message keys consulted by the submission pipeline.
const (
	MsgFormNotFound     = "not_found.form_not_found"
	MsgAlreadySubmitted = "duplicate.already_submitted"
	MsgMissingParams    = "validation.missing_parameters"
	MsgTransactionFail  = "database.transaction_failed"
	MsgInternalError    = "system.internal_error"
	MsgSubmitted        = "success.submitted"
)
