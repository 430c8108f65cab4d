package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/taskboard/internal/apperror"
	"github.com/sakif/taskboard/internal/model"
	"github.com/sakif/taskboard/internal/repository"
)

var _ repository.TaskRepository = (*DB)(nil)

// ListTasks returns every task owned by userID, oldest first.
// An unknown user simply has no tasks: the result is an empty, non-nil slice.
func (db *DB) ListTasks(ctx context.Context, userID int64) ([]model.Task, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT task_id, user_id, task_title, task_description, status
		 FROM tasks
		 WHERE user_id = ?
		 ORDER BY task_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks for user %d: %w", userID, err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var (
			t    model.Task
			desc sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &desc, &t.Status); err != nil {
			return nil, fmt.Errorf("sqlite: scanning task row: %w", err)
		}
		if desc.Valid {
			t.Description = &desc.String
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tasks: %w", err)
	}

	return tasks, nil
}

// CreateTask inserts task and sets task.ID from the generated rowid.
// An empty Status defaults to pending.
func (db *DB) CreateTask(ctx context.Context, task *model.Task) error {
	if task.Status == "" {
		task.Status = model.TaskStatusPending
	}

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO tasks (task_title, task_description, status, user_id)
		 VALUES (?, ?, ?, ?)`,
		task.Title,
		task.Description, // nil *string is stored as NULL
		task.Status,
		task.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading task id: %w", err)
	}
	task.ID = id

	return nil
}

// UpdateTaskStatus sets only the status column.
func (db *DB) UpdateTaskStatus(ctx context.Context, taskID int64, status string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE tasks SET status = ? WHERE task_id = ?`,
		status,
		taskID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating status of task %d: %w", taskID, err)
	}
	return expectOneRow(result, taskID)
}

// UpdateTaskFields applies a partial edit built by repository.BuildUpdate.
func (db *DB) UpdateTaskFields(ctx context.Context, taskID int64, changes repository.TaskChanges) error {
	query, args, err := repository.BuildUpdate("tasks", changes.Assignments(), "task_id", taskID, repository.QuestionPlaceholder)
	if err != nil {
		return fmt.Errorf("sqlite: editing task %d: %w", taskID, err)
	}

	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite: editing task %d: %w", taskID, err)
	}
	return expectOneRow(result, taskID)
}

// DeleteTask removes a task by id.
func (db *DB) DeleteTask(ctx context.Context, taskID int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM tasks WHERE task_id = ?`,
		taskID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting task %d: %w", taskID, err)
	}
	return expectOneRow(result, taskID)
}

// expectOneRow maps "zero rows affected" to apperror.NotFound.
func expectOneRow(result sql.Result, taskID int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("task", taskID)
	}
	return nil
}
