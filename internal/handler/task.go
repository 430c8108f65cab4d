package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/taskboard/internal/service"
)

// TaskHandler serves task CRUD.
type TaskHandler struct {
	tasks  *service.TaskService
	logger *slog.Logger
}

func NewTaskHandler(tasks *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

type createTaskRequest struct {
	TaskTitle       string `json:"taskTitle"`
	TaskDescription string `json:"taskDescription"`
	UserID          int64  `json:"userId"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// editTaskRequest uses pointers so an omitted field can be told apart.
type editTaskRequest struct {
	TaskTitle       *string `json:"taskTitle"`
	TaskDescription *string `json:"taskDescription"`
}

// HandleList returns a user's tasks as a JSON array.
//
// HTTP: GET /tasks?user_id=123
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r, "User ID is required")
	if err != nil {
		writeError(w, err)
		return
	}

	tasks, err := h.tasks.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// HandleCreate adds a pending task.
//
// HTTP: POST /tasks
// REQUEST BODY: {"taskTitle":"new feature","taskDescription":"Add f6","userId":123456}
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warn("invalid task JSON", slog.String("path", r.URL.Path))
		writeError(w, err)
		return
	}

	if _, err := h.tasks.Create(r.Context(), req.TaskTitle, req.TaskDescription, req.UserID); err != nil {
		writeError(w, err)
		return
	}

	writeText(w, http.StatusCreated, "Task added successfully")
}

// HandleUpdateStatus sets a task's status.
//
// HTTP: PUT /tasks/{task_id}
// REQUEST BODY: {"status":"done"}
func (h *TaskHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathTaskID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.tasks.UpdateStatus(r.Context(), taskID, req.Status); err != nil {
		writeError(w, err)
		return
	}

	writeText(w, http.StatusOK, "Task status updated successfully")
}

// HandleEdit changes a task's title and/or description.
//
// HTTP: PUT /tasks/edit/{task_id}
// REQUEST BODY: {"taskTitle":"...","taskDescription":"..."} (either may be omitted)
func (h *TaskHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathTaskID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req editTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.tasks.Edit(r.Context(), taskID, req.TaskTitle, req.TaskDescription); err != nil {
		writeError(w, err)
		return
	}

	writeText(w, http.StatusOK, "Task updated successfully")
}

// HandleDelete removes a task.
//
// HTTP: DELETE /tasks/{task_id}
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathTaskID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.tasks.Delete(r.Context(), taskID); err != nil {
		writeError(w, err)
		return
	}

	writeText(w, http.StatusOK, "Task deleted successfully")
}
