package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieltanurhan/study-planner-api/internal/models"
)

func newTaskMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func assignmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "name", "course", "topic", "due_date", "priority", "estimated_minutes", "comment", "completed", "created_at", "updated_at"})
}

func TestTaskRepositoryListAssignmentsExcludesCompleted(t *testing.T) {
	db, mock, cleanup := newTaskMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	rows := assignmentRows().
		AddRow("a1", "u1", "Essay", "English", "Poetry", time.Now(), "medium", 60, "", false, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, name, course, topic, due_date, priority, estimated_minutes, comment, completed, created_at, updated_at FROM assignments WHERE user_id = $1 AND completed = FALSE ORDER BY due_date, name")).
		WithArgs("u1").
		WillReturnRows(rows)

	assignments, err := repo.ListAssignments(context.Background(), "u1", false)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
	assert.Equal(t, "Essay", assignments[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryListAssignmentsIncludesCompleted(t *testing.T) {
	db, mock, cleanup := newTaskMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	rows := assignmentRows().
		AddRow("a1", "u1", "Essay", "English", "", time.Now(), "medium", 60, "", true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, name, course, topic, due_date, priority, estimated_minutes, comment, completed, created_at, updated_at FROM assignments WHERE user_id = $1 ORDER BY due_date, name")).
		WithArgs("u1").
		WillReturnRows(rows)

	assignments, err := repo.ListAssignments(context.Background(), "u1", true)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryCreateAssignment(t *testing.T) {
	db, mock, cleanup := newTaskMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectExec("INSERT INTO assignments").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assignment := &models.Assignment{UserID: "u1", Name: "Essay", Course: "English", DueDate: time.Now(), Priority: "medium", EstimatedMinutes: 60}
	err := repo.CreateAssignment(context.Background(), assignment)
	require.NoError(t, err)
	assert.NotEmpty(t, assignment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryFindAssignmentNotFound(t *testing.T) {
	db, mock, cleanup := newTaskMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectQuery("SELECT .+ FROM assignments WHERE").
		WithArgs("missing", "u1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindAssignment(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryDeleteAssignmentMissing(t *testing.T) {
	db, mock, cleanup := newTaskMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assignments WHERE id = $1 AND user_id = $2")).
		WithArgs("missing", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteAssignment(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryListExams(t *testing.T) {
	db, mock, cleanup := newTaskMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "course", "topic", "exam_date", "difficulty", "comment", "created_at", "updated_at"}).
		AddRow("e1", "u1", "Math", "Calculus", time.Now(), 7, "", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, course, topic, exam_date, difficulty, comment, created_at, updated_at FROM exams WHERE user_id = $1 ORDER BY exam_date, course")).
		WithArgs("u1").
		WillReturnRows(rows)

	exams, err := repo.ListExams(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, exams, 1)
	assert.Equal(t, "Math", exams[0].Course)
	assert.Equal(t, 7, exams[0].Difficulty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryCreateExam(t *testing.T) {
	db, mock, cleanup := newTaskMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectExec("INSERT INTO exams").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	exam := &models.Exam{UserID: "u1", Course: "Math", Date: time.Now(), Difficulty: 5}
	err := repo.CreateExam(context.Background(), exam)
	require.NoError(t, err)
	assert.NotEmpty(t, exam.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryUpdateExam(t *testing.T) {
	db, mock, cleanup := newTaskMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectExec("UPDATE exams SET").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	exam := &models.Exam{ID: "e1", UserID: "u1", Course: "Math", Date: time.Now(), Difficulty: 8}
	err := repo.UpdateExam(context.Background(), exam)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
