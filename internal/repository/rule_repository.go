package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-eval-api/internal/models"
)

// RuleRepository loads the configured business-rule chain.
type RuleRepository struct {
	db *sqlx.DB
}

// NewRuleRepository creates a new rule repository.
func NewRuleRepository(db *sqlx.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// ActiveRules returns the active rules for a (form_type, form_target) pair in
// execution order.
func (r *RuleRepository) ActiveRules(ctx context.Context, formType, formTarget string) ([]models.SubmissionRule, error) {
	var rules []models.SubmissionRule
	const query = `SELECT id, form_type, form_target, rule_name, config, is_active, order_index
        FROM submission_rules
        WHERE form_type = $1 AND form_target = $2 AND is_active = TRUE
        ORDER BY order_index`
	if err := r.db.SelectContext(ctx, &rules, query, formType, formTarget); err != nil {
		return nil, fmt.Errorf("load submission rules: %w", err)
	}
	return rules, nil
}
