// Package repository declares the storage contracts the service layer depends on.
//
// Two stores sit behind these interfaces:
//
//   - the primary-identity store (IdentityRepository), read-only, and
//   - the application store (UserRepository, TaskRepository), read/write.
//
// Implementations live in the postgres and sqlite subpackages. Lookups that
// match nothing, and mutations that affect zero rows, return apperror.NotFound.
package repository

import (
	"context"

	"github.com/sakif/taskboard/internal/model"
)

type IdentityRepository interface {
	LookupIdentity(ctx context.Context, id int64) (*model.Identity, error)
}

type UserRepository interface {
	GetUser(ctx context.Context, userID int64) (*model.User, error)
	// CreateUser inserts the user and reports whether this call created the
	// row. created is false, with a nil error, when a row with the same
	// user_id already exists (a concurrent first check-in won the race).
	CreateUser(ctx context.Context, user *model.User) (created bool, err error)
}

type TaskRepository interface {
	ListTasks(ctx context.Context, userID int64) ([]model.Task, error)
	// CreateTask inserts the task and sets task.ID.
	CreateTask(ctx context.Context, task *model.Task) error
	UpdateTaskStatus(ctx context.Context, taskID int64, status string) error
	UpdateTaskFields(ctx context.Context, taskID int64, changes TaskChanges) error
	DeleteTask(ctx context.Context, taskID int64) error
}
