package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentRepositoryFindTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT teacher_id FROM course_groups WHERE semester = $1 AND course_id = $2 AND group_no = $3")).
		WithArgs("2025-1", "CS101", "2").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id"}).AddRow("t-42"))

	teacherID, err := repo.FindTeacher(context.Background(), "2025-1", "CS101", "2")
	require.NoError(t, err)
	assert.Equal(t, "t-42", teacherID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryFindLatestTeacherBefore(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE course_id = $1 AND group_no = $2 AND semester < $3")).
		WithArgs("CS101", "2", "2025-1").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id"}).AddRow("t-7"))

	teacherID, err := repo.FindLatestTeacherBefore(context.Background(), "2025-1", "CS101", "2")
	require.NoError(t, err)
	assert.Equal(t, "t-7", teacherID)
}

func TestAssignmentRepositoryFindTeacherMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM course_groups")).
		WithArgs("2025-1", "CS999", "1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindTeacher(context.Background(), "2025-1", "CS999", "1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
