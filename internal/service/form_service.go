package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-eval-api/internal/dto"
	"github.com/noah-isme/sma-eval-api/internal/models"
	appErrors "github.com/noah-isme/sma-eval-api/pkg/errors"
)

type formCatalog interface {
	FindPublished(ctx context.Context, id string) (*models.Form, error)
	ListPublished(ctx context.Context, filter models.FormFilter) ([]models.Form, int, error)
	Sections(ctx context.Context, formID string) ([]models.FormSection, error)
	Questions(ctx context.Context, formID string) ([]models.Question, error)
	AccessFields(ctx context.Context, formID string) ([]models.FormAccessField, error)
}

type payloadCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// FormService serves the read side: published form payloads for rendering
// clients. Contains no write logic.
type FormService struct {
	forms        formCatalog
	cache        payloadCache
	cacheTTL     time.Duration
	cacheEnabled bool
	logger       *zap.Logger
}

// NewFormService constructs the read-side service. cache may be nil.
func NewFormService(forms formCatalog, cache payloadCache, cacheTTL time.Duration, cacheEnabled bool, logger *zap.Logger) *FormService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormService{forms: forms, cache: cache, cacheTTL: cacheTTL, cacheEnabled: cacheEnabled, logger: logger}
}

// GetPublishedForm returns the full render payload for a published form.
func (s *FormService) GetPublishedForm(ctx context.Context, id string) (*dto.FormPayload, error) {
	cacheKey := fmt.Sprintf("forms:payload:%s", id)
	if s.useCache() {
		var cached dto.FormPayload
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	form, err := s.forms.FindPublished(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "form not found or not published")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDatabase.Code, appErrors.ErrDatabase.Status, "failed to load form")
	}

	sections, err := s.forms.Sections(ctx, form.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDatabase.Code, appErrors.ErrDatabase.Status, "failed to load sections")
	}
	questions, err := s.forms.Questions(ctx, form.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDatabase.Code, appErrors.ErrDatabase.Status, "failed to load questions")
	}
	fields, err := s.forms.AccessFields(ctx, form.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDatabase.Code, appErrors.ErrDatabase.Status, "failed to load access fields")
	}

	payload := &dto.FormPayload{
		Form:         *form,
		Sections:     groupQuestions(sections, questions),
		AccessFields: fields,
	}

	if s.useCache() {
		if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL); err != nil {
			s.logger.Warn("form payload cache write failed", zap.String("form_id", id), zap.Error(err))
		}
	}
	return payload, nil
}

// ListPublishedForms returns a filtered page of published forms.
func (s *FormService) ListPublishedForms(ctx context.Context, filter models.FormFilter) ([]dto.FormSummary, *models.Pagination, error) {
	forms, total, err := s.forms.ListPublished(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrDatabase.Code, appErrors.ErrDatabase.Status, "failed to list forms")
	}

	summaries := make([]dto.FormSummary, 0, len(forms))
	for _, form := range forms {
		summaries = append(summaries, dto.FormSummary{
			ID:         form.ID,
			Title:      form.Title,
			FormType:   form.FormType,
			FormTarget: form.FormTarget,
			Semester:   form.Semester,
		})
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	return summaries, &models.Pagination{Page: page, PageSize: limit, TotalCount: total}, nil
}

func (s *FormService) useCache() bool {
	return s.cacheEnabled && s.cache != nil
}

// groupQuestions nests questions under their section in display order;
// questions without a section trail in an untitled group.
func groupQuestions(sections []models.FormSection, questions []models.Question) []dto.FormSectionPayload {
	payloads := make([]dto.FormSectionPayload, 0, len(sections)+1)
	assigned := make(map[string]bool, len(questions))

	for _, section := range sections {
		entry := dto.FormSectionPayload{Section: section}
		for _, q := range questions {
			if q.SectionID != nil && *q.SectionID == section.ID {
				entry.Questions = append(entry.Questions, q)
				assigned[q.ID] = true
			}
		}
		payloads = append(payloads, entry)
	}

	var orphans []models.Question
	for _, q := range questions {
		if !assigned[q.ID] {
			orphans = append(orphans, q)
		}
	}
	if len(orphans) > 0 {
		payloads = append(payloads, dto.FormSectionPayload{Questions: orphans})
	}
	return payloads
}
