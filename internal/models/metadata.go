package models

import (
	"encoding/json"
	"strings"
)

// Canonical metadata keys. Rules and the storage layer address identity
// values through these names regardless of the slugs a form configured.
const (
	KeyStudentID      = "student_id"
	KeyCourseID       = "course_id"
	KeyGroupID        = "group_id"
	KeyTeacherID      = "teacher_id"
	KeySemester       = "semester"
	KeyIPAddress      = "ip_address"
	KeySubmissionDate = "submission_date"
)

// slug spellings accepted for each canonical key, lowercased with
// underscores removed. Covers both the legacy form slugs (IDStudent,
// IDCourse, ...) and the snake-case names.
var canonicalAliases = map[string]string{
	"studentid": KeyStudentID,
	"idstudent": KeyStudentID,
	"courseid":  KeyCourseID,
	"idcourse":  KeyCourseID,
	"groupid":   KeyGroupID,
	"idgroup":   KeyGroupID,
	"teacherid": KeyTeacherID,
	"idteacher": KeyTeacherID,
	"semester":  KeySemester,
}

// CanonicalKey maps a field slug to its canonical key, or returns "" when the
// slug has no canonical meaning.
func CanonicalKey(slug string) string {
	return canonicalAliases[strings.ReplaceAll(strings.ToLower(slug), "_", "")]
}

// Metadata carries the identity and context of one in-flight submission.
// Well-known values live in typed fields; form-specific dynamic fields land
// in Extra under their configured slug. Serialisation flattens both into a
// single open JSON object where the canonical keys are additive aliases of
// whatever slugs the form configured.
type Metadata struct {
	StudentID   string
	CourseID    string
	GroupID     string
	TeacherID   string
	Semester    string
	IPAddress   string
	SubmittedAt string
	Extra       map[string]string
}

// Set stores a value under the given key. Keys recognised as canonical
// aliases populate the typed field; unless the key already is the canonical
// spelling, the original slug is retained in Extra as well.
func (m *Metadata) Set(key, value string) {
	switch CanonicalKey(key) {
	case KeyStudentID:
		m.StudentID = value
	case KeyCourseID:
		m.CourseID = value
	case KeyGroupID:
		m.GroupID = value
	case KeyTeacherID:
		m.TeacherID = value
	case KeySemester:
		m.Semester = value
	default:
		switch key {
		case KeyIPAddress:
			m.IPAddress = value
		case KeySubmissionDate:
			m.SubmittedAt = value
		default:
			m.setExtra(key, value)
		}
		return
	}
	if key != CanonicalKey(key) {
		m.setExtra(key, value)
	}
}

func (m *Metadata) setExtra(key, value string) {
	if m.Extra == nil {
		m.Extra = make(map[string]string)
	}
	m.Extra[key] = value
}

// Lookup resolves a key, honouring canonical aliases.
func (m *Metadata) Lookup(key string) (string, bool) {
	switch CanonicalKey(key) {
	case KeyStudentID:
		return present(m.StudentID)
	case KeyCourseID:
		return present(m.CourseID)
	case KeyGroupID:
		return present(m.GroupID)
	case KeyTeacherID:
		return present(m.TeacherID)
	case KeySemester:
		return present(m.Semester)
	}
	switch key {
	case KeyIPAddress:
		return present(m.IPAddress)
	case KeySubmissionDate:
		return present(m.SubmittedAt)
	}
	v, ok := m.Extra[key]
	return v, ok && v != ""
}

func present(v string) (string, bool) {
	return v, v != ""
}

// MarshalJSON flattens the record into one open object. Map marshalling keeps
// keys sorted, so every row of a submission serialises byte-identically.
func (m Metadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(m.Extra)+7)
	for k, v := range m.Extra {
		out[k] = v
	}
	if m.StudentID != "" {
		out[KeyStudentID] = m.StudentID
	}
	if m.CourseID != "" {
		out[KeyCourseID] = m.CourseID
	}
	if m.GroupID != "" {
		out[KeyGroupID] = m.GroupID
	}
	if m.TeacherID != "" {
		out[KeyTeacherID] = m.TeacherID
	}
	if m.Semester != "" {
		out[KeySemester] = m.Semester
	}
	if m.IPAddress != "" {
		out[KeyIPAddress] = m.IPAddress
	}
	if m.SubmittedAt != "" {
		out[KeySubmissionDate] = m.SubmittedAt
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the record from the flattened object.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Metadata{}
	for k, v := range raw {
		m.Set(k, v)
	}
	return nil
}
