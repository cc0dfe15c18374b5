package rules

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/sma-eval-api/internal/models"
	appErrors "github.com/noah-isme/sma-eval-api/pkg/errors"
)

// RuleTeacherLookup is the registry name of TeacherLookupRule.
const RuleTeacherLookup = "teacher_lookup"

// TeacherLookupRule resolves which teacher a student is evaluating by
// querying the academic registry with the submission's semester, course and
// group. When the current semester has no assignment and lookback is
// allowed, the most recent earlier-semester assignment for the same
// course/group is used, since scheduling data for a new semester often lags.
type TeacherLookupRule struct{}

type teacherLookupConfig struct {
	RequiredKeys  []string `json:"required_keys"`
	TargetKey     string   `json:"target_key"`
	AllowLookback *bool    `json:"allow_lookback"`
}

// Execute implements Rule. Reads only; the academic registry is never
// written by this service.
func (TeacherLookupRule) Execute(ctx context.Context, md *models.Metadata, rc *Context, config json.RawMessage) error {
	cfg := teacherLookupConfig{
		RequiredKeys: []string{models.KeySemester, models.KeyCourseID, models.KeyGroupID},
		TargetKey:    models.KeyTeacherID,
	}
	if len(config) > 0 {
		if err := json.Unmarshal(config, &cfg); err != nil {
			return fmt.Errorf("teacher_lookup config: %w", err)
		}
		if cfg.TargetKey == "" {
			cfg.TargetKey = models.KeyTeacherID
		}
		if len(cfg.RequiredKeys) == 0 {
			cfg.RequiredKeys = []string{models.KeySemester, models.KeyCourseID, models.KeyGroupID}
		}
	}
	lookback := cfg.AllowLookback == nil || *cfg.AllowLookback

	for _, key := range cfg.RequiredKeys {
		if _, ok := md.Lookup(key); !ok {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("missing required field for teacher lookup: %s", key))
		}
	}

	semester, _ := md.Lookup(models.KeySemester)
	course, _ := md.Lookup(models.KeyCourseID)
	group, _ := md.Lookup(models.KeyGroupID)

	teacherID, err := rc.Assignments.FindTeacher(ctx, semester, course, group)
	if errors.Is(err, sql.ErrNoRows) && lookback {
		teacherID, err = rc.Assignments.FindLatestTeacherBefore(ctx, semester, course, group)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "teacher assignment not found for this course")
		}
		return appErrors.Wrap(err, appErrors.ErrDatabase.Code, appErrors.ErrDatabase.Status, "teacher lookup failed")
	}

	md.Set(cfg.TargetKey, teacherID)
	return nil
}
