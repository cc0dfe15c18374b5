package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-eval-api/internal/dto"
	"github.com/noah-isme/sma-eval-api/internal/models"
	"github.com/noah-isme/sma-eval-api/internal/rules"
	appErrors "github.com/noah-isme/sma-eval-api/pkg/errors"
)

const pqUniqueViolation = "23505"

type formReader interface {
	FindPublished(ctx context.Context, id string) (*models.Form, error)
	AccessFields(ctx context.Context, formID string) ([]models.FormAccessField, error)
	FindQuestion(ctx context.Context, id, formID string) (*models.Question, error)
}

type ruleLoader interface {
	ActiveRules(ctx context.Context, formType, formTarget string) ([]models.SubmissionRule, error)
}

type responseWriter interface {
	Begin(ctx context.Context) (*sqlx.Tx, error)
	InsertAll(ctx context.Context, tx *sqlx.Tx, rows []models.EvaluationResponse) error
}

type messageResolver interface {
	Resolve(ctx context.Context, key, fallback string) string
}

type submissionObserver interface {
	ObserveSubmission(outcome string, savedAnswers int)
}

// SubmissionService is the pipeline entry point: it fetches the target form,
// collects metadata, runs the configured rule chain, normalises each answer
// and persists everything in one transaction. It is the single place that
// opens and rolls back that transaction and the single place that maps
// failures to the error taxonomy and a localized message.
type SubmissionService struct {
	forms       formReader
	rules       ruleLoader
	responses   responseWriter
	registry    *rules.Registry
	assignments rules.AssignmentFinder
	collector   *MetadataCollector
	messages    messageResolver
	metrics     submissionObserver
	logger      *zap.Logger
	now         func() time.Time
}

// NewSubmissionService constructs the orchestrator. metrics may be nil.
func NewSubmissionService(forms formReader, ruleRepo ruleLoader, responses responseWriter, registry *rules.Registry, assignments rules.AssignmentFinder, collector *MetadataCollector, messages messageResolver, metrics submissionObserver, logger *zap.Logger) *SubmissionService {
	if collector == nil {
		collector = NewMetadataCollector("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		forms:       forms,
		rules:       ruleRepo,
		responses:   responses,
		registry:    registry,
		assignments: assignments,
		collector:   collector,
		messages:    messages,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// HandleSubmission processes one raw submission. All rows are committed
// together or not at all; partial metadata or rule effects are never
// observable outside this call.
func (s *SubmissionService) HandleSubmission(ctx context.Context, raw map[string]interface{}, remoteIP string, claims *models.EvaluatorClaims) (*dto.SubmissionResult, error) {
	result, err := s.handle(ctx, raw, remoteIP, claims)
	if err != nil {
		err = s.finalizeError(ctx, err)
		if s.metrics != nil {
			s.metrics.ObserveSubmission(appErrors.FromError(err).Code, 0)
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveSubmission("accepted", result.SavedAnswers)
	}
	return result, nil
}

func (s *SubmissionService) handle(ctx context.Context, raw map[string]interface{}, remoteIP string, claims *models.EvaluatorClaims) (*dto.SubmissionResult, error) {
	formID, _ := rawValue(raw, "form_id")
	formID = strings.TrimSpace(formID)
	if formID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "form identifier is required")
	}

	form, err := s.forms.FindPublished(ctx, formID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "form not found or not published")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDatabase.Code, appErrors.ErrDatabase.Status, "failed to load form")
	}

	fields, err := s.forms.AccessFields(ctx, form.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDatabase.Code, appErrors.ErrDatabase.Status, "failed to load access fields")
	}

	md, err := s.collector.Collect(fields, raw, remoteIP, s.now())
	if err != nil {
		return nil, err
	}
	if claims != nil && claims.StudentNumber != "" && md.StudentID == "" {
		md.Set(models.KeyStudentID, claims.StudentNumber)
	}

	ruleSpecs, err := s.rules.ActiveRules(ctx, form.FormType, form.FormTarget)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDatabase.Code, appErrors.ErrDatabase.Status, "failed to load submission rules")
	}

	tx, err := s.responses.Begin(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDatabase.Code, appErrors.ErrDatabase.Status, "failed to open transaction")
	}

	rc := &rules.Context{Tx: tx, Assignments: s.assignments, Form: form}
	for _, spec := range ruleSpecs {
		rule, resolveErr := s.registry.Resolve(spec.RuleName)
		if resolveErr != nil {
			tx.Rollback() //nolint:errcheck
			return nil, appErrors.Wrap(resolveErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "misconfigured submission rule")
		}
		if execErr := rule.Execute(ctx, md, rc, spec.Config); execErr != nil {
			tx.Rollback() //nolint:errcheck
			return nil, execErr
		}
	}

	rows, err := s.buildRows(ctx, form, md, raw)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, err
	}

	if err := s.responses.InsertAll(ctx, tx, rows); err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDatabase.Code, appErrors.ErrDatabase.Status, "failed to commit submission")
	}

	message := s.messages.Resolve(ctx, models.MsgSubmitted, "submission received")
	return &dto.SubmissionResult{
		Success:      true,
		Message:      message,
		FormType:     form.FormType,
		FormTarget:   form.FormTarget,
		SavedAnswers: len(rows),
	}, nil
}

// buildRows normalises every answered question into a persistable row. All
// rows share one serialized metadata blob.
func (s *SubmissionService) buildRows(ctx context.Context, form *models.Form, md *models.Metadata, raw map[string]interface{}) ([]models.EvaluationResponse, error) {
	metadataJSON, err := json.Marshal(md)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode metadata")
	}

	answers := questionResponses(raw)
	questionIDs := make([]string, 0, len(answers))
	for id := range answers {
		questionIDs = append(questionIDs, id)
	}
	sort.Strings(questionIDs)

	rows := make([]models.EvaluationResponse, 0, len(questionIDs))
	for _, questionID := range questionIDs {
		question, err := s.forms.FindQuestion(ctx, questionID, form.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrDatabase.Code, appErrors.ErrDatabase.Status, "failed to load question")
		}

		answer, err := ProcessAnswer(question.QuestionType, question.Choices, answers[questionID])
		if err != nil {
			return nil, err
		}
		if answer == nil {
			continue
		}

		encoded, err := models.EncodeAnswer(answer)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode answer")
		}

		rows = append(rows, models.EvaluationResponse{
			FormType:    form.FormType,
			FormTarget:  form.FormTarget,
			QuestionID:  question.ID,
			AnswerValue: encoded,
			Metadata:    metadataJSON,
			Semester:    md.Semester,
			StudentID:   optional(md.StudentID),
			CourseID:    optional(md.CourseID),
			TeacherID:   optional(md.TeacherID),
			GroupID:     optional(md.GroupID),
		})
	}
	return rows, nil
}

// questionResponses extracts the nested question map: question id → response
// sub-map.
func questionResponses(raw map[string]interface{}) map[string]map[string]interface{} {
	nested, ok := raw["question"].(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]map[string]interface{}, len(nested))
	for id, v := range nested {
		if response, ok := v.(map[string]interface{}); ok {
			out[id] = response
		}
	}
	return out
}

// finalizeError maps any pipeline failure to the taxonomy and a localized
// message. Internal detail is logged, never returned to the caller. A unique
// constraint violation is reclassified as a duplicate: the backstop index is
// expected to fire under concurrent submissions, not only under bugs.
func (s *SubmissionService) finalizeError(ctx context.Context, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		err = appErrors.Wrap(err, appErrors.ErrDuplicate.Code, appErrors.ErrDuplicate.Status, appErrors.ErrDuplicate.Message)
	}

	appErr := appErrors.FromError(err)
	switch appErr.Code {
	case appErrors.ErrValidation.Code:
		// validation messages name the offending field and are user-facing
		return appErr
	case appErrors.ErrNotFound.Code:
		return appErrors.Clone(appErr, s.messages.Resolve(ctx, models.MsgFormNotFound, appErr.Message))
	case appErrors.ErrDuplicate.Code:
		return appErrors.Clone(appErr, s.messages.Resolve(ctx, models.MsgAlreadySubmitted, "this form has already been submitted"))
	case appErrors.ErrDatabase.Code:
		s.logger.Error("submission storage failure", zap.Error(err))
		return appErrors.Clone(appErr, s.messages.Resolve(ctx, models.MsgTransactionFail, "the operation failed, please try again"))
	default:
		s.logger.Error("submission failed", zap.Error(err))
		return appErrors.Clone(appErr, s.messages.Resolve(ctx, models.MsgInternalError, "an internal error occurred"))
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
