package model

// TaskStatusPending is the status every task starts with.
const TaskStatusPending = "pending"

// Task is a single to-do item owned by a user.
//
// Description is a pointer because the column is nullable: a task created
// without a description serialises as "task_description": null.
//
// UserID is expected to reference a User, but nothing enforces it.
type Task struct {
	ID          int64   `json:"task_id"`
	UserID      int64   `json:"user_id"`
	Title       string  `json:"task_title"`
	Description *string `json:"task_description"`
	Status      string  `json:"status"`
}
