package models

import "encoding/json"

// SubmissionRule configures one business rule for a (form_type, form_target)
// pair. Config is opaque structured JSON interpreted by the rule
// implementation itself.
type SubmissionRule struct {
	ID         string          `db:"id" json:"id"`
	FormType   string          `db:"form_type" json:"form_type"`
	FormTarget string          `db:"form_target" json:"form_target"`
	RuleName   string          `db:"rule_name" json:"rule_name"`
	Config     json.RawMessage `db:"config" json:"config"`
	IsActive   bool            `db:"is_active" json:"is_active"`
	OrderIndex int             `db:"order_index" json:"order_index"`
}
