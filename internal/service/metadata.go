package service

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-eval-api/internal/models"
	appErrors "github.com/noah-isme/sma-eval-api/pkg/errors"
)

// standardSlugs are collected from the raw input even when a form did not
// configure an access field for them. Legacy clients post these directly.
var standardSlugs = []string{
	"IDStudent", "IDCourse", "IDGroup", "Semester",
	"GraduationYear", "Job", "Specialization", "GraduateName",
}

// MetadataCollector extracts and validates dynamic identity fields from the
// raw submission input.
type MetadataCollector struct {
	dateFormat string
	validate   *validator.Validate
}

// NewMetadataCollector builds a collector; dateFormat defaults to the legacy
// "2006-01-02 15:04:05" layout when empty.
func NewMetadataCollector(dateFormat string) *MetadataCollector {
	if dateFormat == "" {
		dateFormat = "2006-01-02 15:04:05"
	}
	return &MetadataCollector{dateFormat: dateFormat, validate: validator.New()}
}

// Collect walks the configured access fields in order, resolving each value
// by slug or by the positional "field_<id>" fallback. The first missing
// required field aborts with an error naming it. The submission timestamp
// and originating address are always appended.
func (c *MetadataCollector) Collect(fields []models.FormAccessField, raw map[string]interface{}, remoteIP string, now time.Time) (*models.Metadata, error) {
	md := &models.Metadata{}

	for _, field := range fields {
		value, ok := rawValue(raw, field.Slug, "field_"+field.ID)
		value = strings.TrimSpace(value)
		if field.IsRequired && (!ok || value == "") {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("field %q is required", field.Label))
		}
		if !ok || value == "" {
			continue
		}
		if requiresDigits(field.Slug) && c.validate.Var(value, "number") != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("field %q must contain digits only", field.Label))
		}
		md.Set(field.Slug, html.EscapeString(value))
	}

	for _, slug := range standardSlugs {
		if _, exists := md.Lookup(slug); exists {
			continue
		}
		value, ok := rawValue(raw, slug)
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value != "" {
			md.Set(slug, html.EscapeString(value))
		}
	}

	md.IPAddress = remoteIP
	md.SubmittedAt = now.Format(c.dateFormat)
	return md, nil
}

// rawValue resolves the first present key; array-shaped values contribute
// their first element.
func rawValue(raw map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		v, ok := raw[key]
		if !ok {
			continue
		}
		if list, isList := v.([]interface{}); isList {
			if len(list) == 0 {
				continue
			}
			v = list[0]
		}
		switch typed := v.(type) {
		case string:
			return typed, true
		case float64:
			return strconv.FormatFloat(typed, 'f', -1, 64), true
		}
	}
	return "", false
}

// Identity slugs must be digit-only, except the course identifier which may
// be alphanumeric (course codes like "CS101").
func requiresDigits(slug string) bool {
	if !strings.Contains(strings.ToLower(slug), "id") {
		return false
	}
	return models.CanonicalKey(slug) != models.KeyCourseID
}
