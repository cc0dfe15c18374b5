package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-eval-api/internal/models"
	appErrors "github.com/noah-isme/sma-eval-api/pkg/errors"
)

var collectNow = time.Date(2025, 9, 1, 8, 30, 0, 0, time.UTC)

func accessField(id, label, slug string, required bool) models.FormAccessField {
	return models.FormAccessField{ID: id, FormID: "form-1", Label: label, Slug: slug, IsRequired: required}
}

func TestCollectResolvesBySlug(t *testing.T) {
	collector := NewMetadataCollector("")
	fields := []models.FormAccessField{
		accessField("f1", "Student Number", "IDStudent", true),
		accessField("f2", "Semester", "Semester", true),
	}
	raw := map[string]interface{}{"IDStudent": " 12345 ", "Semester": "2025-1"}

	md, err := collector.Collect(fields, raw, "10.0.0.1", collectNow)
	require.NoError(t, err)
	assert.Equal(t, "12345", md.StudentID)
	assert.Equal(t, "2025-1", md.Semester)
	assert.Equal(t, "10.0.0.1", md.IPAddress)
	assert.Equal(t, "2025-09-01 08:30:00", md.SubmittedAt)
}

func TestCollectPositionalFallback(t *testing.T) {
	collector := NewMetadataCollector("")
	fields := []models.FormAccessField{accessField("77", "Graduate Name", "GraduateName", true)}
	raw := map[string]interface{}{"field_77": "Jordan"}

	md, err := collector.Collect(fields, raw, "", collectNow)
	require.NoError(t, err)
	v, ok := md.Lookup("GraduateName")
	require.True(t, ok)
	assert.Equal(t, "Jordan", v)
}

func TestCollectArrayValueTakesFirstElement(t *testing.T) {
	collector := NewMetadataCollector("")
	fields := []models.FormAccessField{accessField("f1", "Group", "IDGroup", true)}
	raw := map[string]interface{}{"IDGroup": []interface{}{"2", "3"}}

	md, err := collector.Collect(fields, raw, "", collectNow)
	require.NoError(t, err)
	assert.Equal(t, "2", md.GroupID)
}

func TestCollectRequiredFieldMissing(t *testing.T) {
	collector := NewMetadataCollector("")
	fields := []models.FormAccessField{accessField("f1", "Student Number", "IDStudent", true)}

	_, err := collector.Collect(fields, map[string]interface{}{}, "", collectNow)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Student Number")
}

func TestCollectRequiredFieldBlank(t *testing.T) {
	collector := NewMetadataCollector("")
	fields := []models.FormAccessField{accessField("f1", "Student Number", "IDStudent", true)}

	_, err := collector.Collect(fields, map[string]interface{}{"IDStudent": "   "}, "", collectNow)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCollectOptionalFieldMissingSkipped(t *testing.T) {
	collector := NewMetadataCollector("")
	fields := []models.FormAccessField{accessField("f1", "Job", "Job", false)}

	md, err := collector.Collect(fields, map[string]interface{}{}, "", collectNow)
	require.NoError(t, err)
	_, ok := md.Lookup("Job")
	assert.False(t, ok)
}

func TestCollectIdentityFieldsRequireDigits(t *testing.T) {
	collector := NewMetadataCollector("")
	fields := []models.FormAccessField{accessField("f1", "Student Number", "IDStudent", true)}

	_, err := collector.Collect(fields, map[string]interface{}{"IDStudent": "12a45"}, "", collectNow)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "digits")
}

func TestCollectCourseIDMayBeAlphanumeric(t *testing.T) {
	collector := NewMetadataCollector("")
	fields := []models.FormAccessField{accessField("f1", "Course", "IDCourse", true)}

	md, err := collector.Collect(fields, map[string]interface{}{"IDCourse": "CS101"}, "", collectNow)
	require.NoError(t, err)
	assert.Equal(t, "CS101", md.CourseID)
}

func TestCollectEscapesValues(t *testing.T) {
	collector := NewMetadataCollector("")
	fields := []models.FormAccessField{accessField("f1", "Job", "Job", false)}

	md, err := collector.Collect(fields, map[string]interface{}{"Job": `QA <lead> & "tester"`}, "", collectNow)
	require.NoError(t, err)
	v, _ := md.Lookup("Job")
	assert.Equal(t, "QA &lt;lead&gt; &amp; &#34;tester&#34;", v)
}

func TestCollectStandardSlugsWithoutAccessField(t *testing.T) {
	// legacy clients post identity slugs even when the form configured no field
	collector := NewMetadataCollector("")
	raw := map[string]interface{}{"IDStudent": "12345", "Semester": "2025-1", "GraduationYear": "2024"}

	md, err := collector.Collect(nil, raw, "", collectNow)
	require.NoError(t, err)
	assert.Equal(t, "12345", md.StudentID)
	assert.Equal(t, "2025-1", md.Semester)
	assert.Equal(t, "2024", md.Extra["GraduationYear"])
}

func TestCollectAccessFieldTakesPrecedenceOverStandardSlug(t *testing.T) {
	collector := NewMetadataCollector("")
	fields := []models.FormAccessField{accessField("9", "Student Number", "IDStudent", true)}
	raw := map[string]interface{}{"field_9": "11111", "IDStudent": "22222"}

	md, err := collector.Collect(fields, raw, "", collectNow)
	require.NoError(t, err)
	// slug match wins over the positional name, and the configured field wins
	// over the standard-slug sweep
	assert.Equal(t, "22222", md.StudentID)
}

func TestCollectCustomDateFormat(t *testing.T) {
	collector := NewMetadataCollector("2006/01/02")
	md, err := collector.Collect(nil, map[string]interface{}{}, "", collectNow)
	require.NoError(t, err)
	assert.Equal(t, "2025/09/01", md.SubmittedAt)
}

func TestCollectNumericValueCoerced(t *testing.T) {
	collector := NewMetadataCollector("")
	fields := []models.FormAccessField{accessField("f1", "Group", "IDGroup", true)}
	raw := map[string]interface{}{"IDGroup": float64(2)}

	md, err := collector.Collect(fields, raw, "", collectNow)
	require.NoError(t, err)
	assert.Equal(t, "2", md.GroupID)
}
