package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sakif/taskboard/internal/apperror"
	"github.com/sakif/taskboard/internal/model"
	"github.com/sakif/taskboard/internal/repository"
)

// TaskService handles task CRUD against the application store.
// Each method is a single query; there is nothing to coordinate.
type TaskService struct {
	repo   repository.TaskRepository
	logger *slog.Logger
}

func NewTaskService(repo repository.TaskRepository, logger *slog.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		logger: logger,
	}
}

// List returns the user's tasks; an empty slice, never nil, when there are none.
func (s *TaskService) List(ctx context.Context, userID int64) ([]model.Task, error) {
	tasks, err := s.repo.ListTasks(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list tasks",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, apperror.StoreFailed("Error fetching tasks", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// Create validates and stores a new pending task. An empty description is
// stored as NULL. The user id is not checked against the users table.
func (s *TaskService) Create(ctx context.Context, title, description string, userID int64) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" || userID == 0 {
		return nil, apperror.ValidationFailed("taskTitle", "Task title and user ID are required")
	}

	task := &model.Task{
		UserID: userID,
		Title:  title,
		Status: model.TaskStatusPending,
	}
	if description != "" {
		task.Description = &description
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, apperror.StoreFailed("Error adding task", err)
	}

	s.logger.Info("task created",
		slog.Int64("taskID", task.ID),
		slog.Int64("userID", userID),
	)
	return task, nil
}

// UpdateStatus replaces only the status. Any non-blank value is accepted.
func (s *TaskService) UpdateStatus(ctx context.Context, taskID int64, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return apperror.ValidationFailed("status", "Task ID and status are required")
	}

	if err := s.repo.UpdateTaskStatus(ctx, taskID, status); err != nil {
		return s.mutationError("Error updating task", "update status", taskID, err)
	}

	s.logger.Info("task status updated",
		slog.Int64("taskID", taskID),
		slog.String("status", status),
	)
	return nil
}

// Edit changes the title and/or description. Nil or empty values mean
// "leave unchanged"; at least one must be supplied.
func (s *TaskService) Edit(ctx context.Context, taskID int64, title, description *string) error {
	var changes repository.TaskChanges
	if title != nil && strings.TrimSpace(*title) != "" {
		t := strings.TrimSpace(*title)
		changes.Title = &t
	}
	if description != nil && *description != "" {
		changes.Description = description
	}
	if changes.Empty() {
		return apperror.ValidationFailed("taskTitle",
			"Task ID and at least one of task title or description are required")
	}

	if err := s.repo.UpdateTaskFields(ctx, taskID, changes); err != nil {
		return s.mutationError("Error updating task", "edit", taskID, err)
	}

	s.logger.Info("task edited", slog.Int64("taskID", taskID))
	return nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, taskID int64) error {
	if err := s.repo.DeleteTask(ctx, taskID); err != nil {
		return s.mutationError("Error deleting task", "delete", taskID, err)
	}

	s.logger.Info("task deleted", slog.Int64("taskID", taskID))
	return nil
}

// mutationError passes "zero rows affected" through as a 404 and turns
// anything else into a logged store failure.
func (s *TaskService) mutationError(message, op string, taskID int64, err error) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFoundMessage("Task not found")
	}
	s.logger.Error("task mutation failed",
		slog.String("op", op),
		slog.Int64("taskID", taskID),
		slog.String("error", err.Error()),
	)
	return apperror.StoreFailed(message, err)
}
