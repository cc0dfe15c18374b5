package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// AssignmentRepository reads teaching assignments from the academic registry
// (the secondary store). Strictly read-only.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// FindTeacher returns the teacher assigned to the exact (semester, course,
// group) triple. sql.ErrNoRows when no assignment exists.
func (r *AssignmentRepository) FindTeacher(ctx context.Context, semester, courseID, groupID string) (string, error) {
	var teacherID string
	const query = "SELECT teacher_id FROM course_groups WHERE semester = $1 AND course_id = $2 AND group_no = $3"
	if err := r.db.GetContext(ctx, &teacherID, query, semester, courseID, groupID); err != nil {
		return "", err
	}
	return teacherID, nil
}

// FindLatestTeacherBefore returns the most recent earlier-semester assignment
// for the same course/group. Tolerates stale scheduling data for the current
// semester.
func (r *AssignmentRepository) FindLatestTeacherBefore(ctx context.Context, semester, courseID, groupID string) (string, error) {
	var teacherID string
	const query = `SELECT teacher_id FROM course_groups
        WHERE course_id = $1 AND group_no = $2 AND semester < $3
        ORDER BY semester DESC LIMIT 1`
	if err := r.db.GetContext(ctx, &teacherID, query, courseID, groupID, semester); err != nil {
		return "", err
	}
	return teacherID, nil
}
