// Package rules implements the pluggable business-rule chain executed for
// every submission. Rules are name-addressed through a startup-time registry;
// a configured name with no registered factory fails the submission loudly
// instead of being skipped.
package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-eval-api/internal/models"
)

// AssignmentFinder reads teaching assignments from the academic registry.
type AssignmentFinder interface {
	FindTeacher(ctx context.Context, semester, courseID, groupID string) (string, error)
	FindLatestTeacherBefore(ctx context.Context, semester, courseID, groupID string) (string, error)
}

// Context bundles everything a rule may touch: the submission transaction on
// the quality store, the read-only academic registry, and the resolved form.
// Rules never open their own transactions.
type Context struct {
	Tx          *sqlx.Tx
	Assignments AssignmentFinder
	Form        *models.Form
}

// Rule is the submission-rule capability. A rule either enriches the
// metadata in place or returns an error that aborts the whole submission.
type Rule interface {
	Execute(ctx context.Context, md *models.Metadata, rc *Context, config json.RawMessage) error
}

// Factory produces a rule instance.
type Factory func() Rule

// Registry maps rule names to factories. Populated once at startup.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds a name to a factory, replacing any previous binding.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Resolve returns a rule instance for the name or fails for unknown names.
func (r *Registry) Resolve(name string) (Rule, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown submission rule %q", name)
	}
	return f(), nil
}

// Names lists registered rule names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns a registry with the built-in rules bound.
func Default() *Registry {
	r := NewRegistry()
	r.Register(RuleUniqueSubmission, func() Rule { return &UniqueSubmissionRule{} })
	r.Register(RuleTeacherLookup, func() Rule { return &TeacherLookupRule{} })
	return r
}
