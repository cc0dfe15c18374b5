package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-eval-api/internal/dto"
	"github.com/noah-isme/sma-eval-api/internal/models"
	appErrors "github.com/noah-isme/sma-eval-api/pkg/errors"
)

type formCatalogStub struct {
	form      *models.Form
	formErr   error
	forms     []models.Form
	total     int
	sections  []models.FormSection
	questions []models.Question
	fields    []models.FormAccessField
	findCalls int
}

func (s *formCatalogStub) FindPublished(ctx context.Context, id string) (*models.Form, error) {
	s.findCalls++
	if s.formErr != nil {
		return nil, s.formErr
	}
	return s.form, nil
}

func (s *formCatalogStub) ListPublished(ctx context.Context, filter models.FormFilter) ([]models.Form, int, error) {
	return s.forms, s.total, nil
}

func (s *formCatalogStub) Sections(ctx context.Context, formID string) ([]models.FormSection, error) {
	return s.sections, nil
}

func (s *formCatalogStub) Questions(ctx context.Context, formID string) ([]models.Question, error) {
	return s.questions, nil
}

func (s *formCatalogStub) AccessFields(ctx context.Context, formID string) ([]models.FormAccessField, error) {
	return s.fields, nil
}

type payloadCacheStub struct {
	entries map[string][]byte
	sets    int
}

func (s *payloadCacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *payloadCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if s.entries == nil {
		s.entries = make(map[string][]byte)
	}
	s.entries[key] = raw
	s.sets++
	return nil
}

func strPtr(v string) *string { return &v }

func TestGetPublishedFormGroupsQuestions(t *testing.T) {
	catalog := &formCatalogStub{
		form: &models.Form{ID: "form-1", Title: "Course Evaluation", FormType: "course_eval", FormTarget: "student"},
		sections: []models.FormSection{
			{ID: "s-1", FormID: "form-1", Title: "Teaching", OrderIndex: 1},
			{ID: "s-2", FormID: "form-1", Title: "Facilities", OrderIndex: 2},
		},
		questions: []models.Question{
			{ID: "q-1", FormID: "form-1", SectionID: strPtr("s-1"), QuestionType: models.QuestionEvaluation, OrderIndex: 1},
			{ID: "q-2", FormID: "form-1", SectionID: strPtr("s-2"), QuestionType: models.QuestionEssay, OrderIndex: 2},
			{ID: "q-3", FormID: "form-1", QuestionType: models.QuestionEssay, OrderIndex: 3},
		},
	}
	svc := NewFormService(catalog, nil, 0, false, nil)

	payload, err := svc.GetPublishedForm(context.Background(), "form-1")
	require.NoError(t, err)
	require.Len(t, payload.Sections, 3)
	assert.Equal(t, "s-1", payload.Sections[0].Section.ID)
	require.Len(t, payload.Sections[0].Questions, 1)
	assert.Equal(t, "q-1", payload.Sections[0].Questions[0].ID)
	// questions without a section trail in an untitled group
	require.Len(t, payload.Sections[2].Questions, 1)
	assert.Equal(t, "q-3", payload.Sections[2].Questions[0].ID)
}

func TestGetPublishedFormNotFound(t *testing.T) {
	svc := NewFormService(&formCatalogStub{formErr: sql.ErrNoRows}, nil, 0, false, nil)

	_, err := svc.GetPublishedForm(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGetPublishedFormUsesCache(t *testing.T) {
	catalog := &formCatalogStub{form: &models.Form{ID: "form-1", FormType: "course_eval"}}
	cache := &payloadCacheStub{}
	svc := NewFormService(catalog, cache, time.Minute, true, nil)

	first, err := svc.GetPublishedForm(context.Background(), "form-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.GetPublishedForm(context.Background(), "form-1")
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.findCalls)
	assert.Equal(t, first.Form.ID, second.Form.ID)
}

func TestGetPublishedFormCacheDisabled(t *testing.T) {
	catalog := &formCatalogStub{form: &models.Form{ID: "form-1"}}
	cache := &payloadCacheStub{}
	svc := NewFormService(catalog, cache, time.Minute, false, nil)

	_, err := svc.GetPublishedForm(context.Background(), "form-1")
	require.NoError(t, err)
	assert.Equal(t, 0, cache.sets)
}

func TestListPublishedForms(t *testing.T) {
	catalog := &formCatalogStub{
		forms: []models.Form{{ID: "form-1", Title: "Course Evaluation", FormType: "course_eval", FormTarget: "student", Semester: "2025-1"}},
		total: 41,
	}
	svc := NewFormService(catalog, nil, 0, false, nil)

	summaries, pagination, err := svc.ListPublishedForms(context.Background(), models.FormFilter{Page: 2, Limit: 20})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, dto.FormSummary{ID: "form-1", Title: "Course Evaluation", FormType: "course_eval", FormTarget: "student", Semester: "2025-1"}, summaries[0])
	assert.Equal(t, &models.Pagination{Page: 2, PageSize: 20, TotalCount: 41}, pagination)
}

func TestListPublishedFormsDefaultsPagination(t *testing.T) {
	svc := NewFormService(&formCatalogStub{}, nil, 0, false, nil)

	_, pagination, err := svc.ListPublishedForms(context.Background(), models.FormFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
}
