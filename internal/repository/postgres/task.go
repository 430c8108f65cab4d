package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sakif/taskboard/internal/apperror"
	"github.com/sakif/taskboard/internal/model"
	"github.com/sakif/taskboard/internal/repository"
)

// ListTasks returns every task owned by userID, ordered by task_id.
func (s *AppStore) ListTasks(ctx context.Context, userID int64) ([]model.Task, error) {
	rows, err := s.db.Query(ctx,
		`SELECT task_id, user_id, task_title, task_description, status
		 FROM tasks
		 WHERE user_id = $1
		 ORDER BY task_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing tasks for user %d: %w", userID, err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var (
			t    model.Task
			desc pgtype.Text
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &desc, &t.Status); err != nil {
			return nil, fmt.Errorf("postgres: scanning task row: %w", err)
		}
		if desc.Valid {
			t.Description = &desc.String
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating tasks: %w", err)
	}

	return tasks, nil
}

// CreateTask inserts task and sets task.ID from RETURNING.
func (s *AppStore) CreateTask(ctx context.Context, task *model.Task) error {
	if task.Status == "" {
		task.Status = model.TaskStatusPending
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO tasks (task_title, task_description, status, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING task_id`,
		task.Title,
		task.Description,
		task.Status,
		task.UserID,
	).Scan(&task.ID)
	if err != nil {
		return fmt.Errorf("postgres: inserting task: %w", err)
	}

	return nil
}

func (s *AppStore) UpdateTaskStatus(ctx context.Context, taskID int64, status string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE tasks SET status = $1 WHERE task_id = $2`,
		status,
		taskID,
	)
	if err != nil {
		return fmt.Errorf("postgres: updating status of task %d: %w", taskID, err)
	}
	return expectOneRow(tag, taskID)
}

// UpdateTaskFields applies a partial edit; see repository.BuildUpdate.
func (s *AppStore) UpdateTaskFields(ctx context.Context, taskID int64, changes repository.TaskChanges) error {
	query, args, err := repository.BuildUpdate("tasks", changes.Assignments(), "task_id", taskID, repository.DollarPlaceholder)
	if err != nil {
		return fmt.Errorf("postgres: editing task %d: %w", taskID, err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres: editing task %d: %w", taskID, err)
	}
	return expectOneRow(tag, taskID)
}

func (s *AppStore) DeleteTask(ctx context.Context, taskID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE task_id = $1`, taskID)
	if err != nil {
		return fmt.Errorf("postgres: deleting task %d: %w", taskID, err)
	}
	return expectOneRow(tag, taskID)
}

func expectOneRow(tag pgconn.CommandTag, taskID int64) error {
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("task", taskID)
	}
	return nil
}
