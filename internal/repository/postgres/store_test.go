package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/taskboard/internal/apperror"
	"github.com/sakif/taskboard/internal/model"
	"github.com/sakif/taskboard/internal/repository"
)

func strPtr(s string) *string { return &s }

var (
	getUserSQL    = regexp.QuoteMeta(`SELECT user_id, username FROM users WHERE user_id = $1`)
	insertUserSQL = regexp.QuoteMeta(`INSERT INTO users (user_id, username) VALUES ($1, $2)`)
	listTasksSQL  = `SELECT task_id, user_id, task_title, task_description, status\s+FROM tasks\s+WHERE user_id = \$1`
)

// =========================================================================
// USERS
// =========================================================================

func TestGetUser(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(getUserSQL).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "username"}).AddRow(int64(7), "ada"))

	u, err := NewAppStore(mock).GetUser(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, model.User{UserID: 7, Username: "ada"}, *u)
}

func TestGetUser_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(getUserSQL).WithArgs(int64(7)).WillReturnError(pgx.ErrNoRows)

	_, err := NewAppStore(mock).GetUser(context.Background(), 7)

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateUser(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(insertUserSQL).
		WithArgs(int64(7), "ada").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := NewAppStore(mock).CreateUser(context.Background(), &model.User{UserID: 7, Username: "ada"})

	require.NoError(t, err)
	assert.True(t, created)
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(insertUserSQL).
		WithArgs(int64(7), "ada").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, Message: "duplicate key value"})

	created, err := NewAppStore(mock).CreateUser(context.Background(), &model.User{UserID: 7, Username: "ada"})

	require.NoError(t, err)
	assert.False(t, created)
}

func TestCreateUser_OtherError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(insertUserSQL).
		WithArgs(int64(7), "ada").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UndefinedTable, Message: `relation "users" does not exist`})

	created, err := NewAppStore(mock).CreateUser(context.Background(), &model.User{UserID: 7, Username: "ada"})

	require.Error(t, err)
	assert.False(t, created)
}

func TestEnsureSchema(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS tasks`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS idx_tasks_user_id`).WillReturnResult(pgxmock.NewResult("CREATE INDEX", 0))

	require.NoError(t, NewAppStore(mock).EnsureSchema(context.Background()))
}

// =========================================================================
// TASKS
// =========================================================================

func TestListTasks(t *testing.T) {
	mock := newMock(t)
	rows := pgxmock.NewRows([]string{"task_id", "user_id", "task_title", "task_description", "status"}).
		AddRow(int64(1), int64(123456), "new feature", "Add f6", "pending").
		AddRow(int64(2), int64(123456), "bare", nil, "done")
	mock.ExpectQuery(listTasksSQL).WithArgs(int64(123456)).WillReturnRows(rows)

	tasks, err := NewAppStore(mock).ListTasks(context.Background(), 123456)

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "new feature", tasks[0].Title)
	require.NotNil(t, tasks[0].Description)
	assert.Equal(t, "Add f6", *tasks[0].Description)
	assert.Equal(t, "pending", tasks[0].Status)
	assert.Nil(t, tasks[1].Description)
	assert.Equal(t, "done", tasks[1].Status)
}

func TestListTasks_Empty(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(listTasksSQL).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"task_id", "user_id", "task_title", "task_description", "status"}))

	tasks, err := NewAppStore(mock).ListTasks(context.Background(), 5)

	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestCreateTask(t *testing.T) {
	mock := newMock(t)
	desc := strPtr("Add f6")
	mock.ExpectQuery(`INSERT INTO tasks \(task_title, task_description, status, user_id\)`).
		WithArgs("new feature", desc, "pending", int64(123456)).
		WillReturnRows(pgxmock.NewRows([]string{"task_id"}).AddRow(int64(31)))

	task := &model.Task{UserID: 123456, Title: "new feature", Description: desc}
	err := NewAppStore(mock).CreateTask(context.Background(), task)

	require.NoError(t, err)
	assert.Equal(t, int64(31), task.ID)
	assert.Equal(t, model.TaskStatusPending, task.Status)
}

func TestUpdateTaskStatus(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tasks SET status = $1 WHERE task_id = $2`)).
		WithArgs("done", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, NewAppStore(mock).UpdateTaskStatus(context.Background(), 3, "done"))
}

func TestUpdateTaskStatus_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tasks SET status = $1 WHERE task_id = $2`)).
		WithArgs("done", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewAppStore(mock).UpdateTaskStatus(context.Background(), 3, "done")

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateTaskFields_DescriptionOnly(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tasks SET task_description = $1 WHERE task_id = $2`)).
		WithArgs("rewritten", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := NewAppStore(mock).UpdateTaskFields(context.Background(), 3,
		repository.TaskChanges{Description: strPtr("rewritten")})

	require.NoError(t, err)
}

func TestUpdateTaskFields_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tasks SET task_title = $1, task_description = $2 WHERE task_id = $3`)).
		WithArgs("t", "d", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewAppStore(mock).UpdateTaskFields(context.Background(), 3,
		repository.TaskChanges{Title: strPtr("t"), Description: strPtr("d")})

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE task_id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, NewAppStore(mock).DeleteTask(context.Background(), 3))
}

func TestDeleteTask_StoreError(t *testing.T) {
	mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE task_id = $1`)).
		WithArgs(int64(3)).
		WillReturnError(boom)

	err := NewAppStore(mock).DeleteTask(context.Background(), 3)

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, apperror.ErrNotFound)
}
