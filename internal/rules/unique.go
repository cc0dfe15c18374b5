package rules

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/sma-eval-api/internal/models"
	appErrors "github.com/noah-isme/sma-eval-api/pkg/errors"
)

// RuleUniqueSubmission is the registry name of UniqueSubmissionRule.
const RuleUniqueSubmission = "unique_submission"

// identity columns of evaluation_responses a uniqueness check may address.
// Rule config is admin-authored data and must never reach SQL text unchecked.
var identityColumns = map[string]struct{}{
	models.KeyStudentID: {},
	models.KeyCourseID:  {},
	models.KeyTeacherID: {},
	models.KeyGroupID:   {},
}

// UniqueSubmissionRule enforces at most one submission per (form type,
// semester, configured identity keys). It row-locks any existing match inside
// the submission transaction so two concurrent submissions for the same
// identity serialise instead of racing to insert.
type UniqueSubmissionRule struct{}

type uniqueConfig struct {
	UniqueKeys []string `json:"unique_keys"`
}

// Execute implements Rule.
func (UniqueSubmissionRule) Execute(ctx context.Context, md *models.Metadata, rc *Context, config json.RawMessage) error {
	var cfg uniqueConfig
	if len(config) > 0 {
		if err := json.Unmarshal(config, &cfg); err != nil {
			return fmt.Errorf("unique_submission config: %w", err)
		}
	}

	query := "SELECT id FROM evaluation_responses WHERE form_type = $1 AND semester = $2"
	args := []interface{}{rc.Form.FormType, md.Semester}
	for _, key := range cfg.UniqueKeys {
		canonical := models.CanonicalKey(key)
		if canonical == "" {
			canonical = key
		}
		if _, ok := identityColumns[canonical]; !ok {
			return fmt.Errorf("unique_submission: key %q is not an identity column", key)
		}
		value, ok := md.Lookup(canonical)
		if !ok {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("missing key for uniqueness check: %s", canonical))
		}
		query += fmt.Sprintf(" AND %s = $%d", canonical, len(args)+1)
		args = append(args, value)
	}
	query += " LIMIT 1 FOR UPDATE"

	var id string
	if err := rc.Tx.GetContext(ctx, &id, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrDatabase.Code, appErrors.ErrDatabase.Status, "uniqueness check failed")
	}
	return appErrors.Clone(appErrors.ErrDuplicate, "duplicate submission detected")
}
