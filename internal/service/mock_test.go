package service

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/sakif/taskboard/internal/apperror"
	"github.com/sakif/taskboard/internal/model"
	"github.com/sakif/taskboard/internal/repository"
)

// =========================================================================
// MOCK REPOSITORIES
// =========================================================================
//
// In-memory fakes of the repository interfaces. The error fields let a test
// make one specific step fail.

type mockIdentityRepo struct {
	identities map[int64]string
	err        error
}

func (m *mockIdentityRepo) LookupIdentity(_ context.Context, id int64) (*model.Identity, error) {
	if m.err != nil {
		return nil, m.err
	}
	name, ok := m.identities[id]
	if !ok {
		return nil, apperror.NotFound("identity", id)
	}
	return &model.Identity{ID: id, Username: name}, nil
}

type mockAppRepo struct {
	mu     sync.Mutex
	users  map[int64]model.User
	tasks  map[int64]model.Task
	nextID int64

	getUserErr    error
	createUserErr error
	listErr       error
	mutateErr     error

	userCalls int
}

func newMockAppRepo() *mockAppRepo {
	return &mockAppRepo{
		users: make(map[int64]model.User),
		tasks: make(map[int64]model.Task),
	}
}

func (m *mockAppRepo) GetUser(_ context.Context, userID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userCalls++
	if m.getUserErr != nil {
		return nil, m.getUserErr
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, apperror.NotFound("user", userID)
	}
	return &u, nil
}

func (m *mockAppRepo) CreateUser(_ context.Context, user *model.User) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userCalls++
	if m.createUserErr != nil {
		return false, m.createUserErr
	}
	if _, exists := m.users[user.UserID]; exists {
		return false, nil
	}
	m.users[user.UserID] = *user
	return true, nil
}

func (m *mockAppRepo) ListTasks(_ context.Context, userID int64) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Task // nil when empty, the service must normalise
	for _, t := range m.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockAppRepo) CreateTask(_ context.Context, task *model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mutateErr != nil {
		return m.mutateErr
	}
	m.nextID++
	task.ID = m.nextID
	m.tasks[task.ID] = *task
	return nil
}

func (m *mockAppRepo) UpdateTaskStatus(_ context.Context, taskID int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mutateErr != nil {
		return m.mutateErr
	}
	t, ok := m.tasks[taskID]
	if !ok {
		return apperror.NotFound("task", taskID)
	}
	t.Status = status
	m.tasks[taskID] = t
	return nil
}

func (m *mockAppRepo) UpdateTaskFields(_ context.Context, taskID int64, changes repository.TaskChanges) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mutateErr != nil {
		return m.mutateErr
	}
	t, ok := m.tasks[taskID]
	if !ok {
		return apperror.NotFound("task", taskID)
	}
	if changes.Title != nil {
		t.Title = *changes.Title
	}
	if changes.Description != nil {
		d := *changes.Description
		t.Description = &d
	}
	m.tasks[taskID] = t
	return nil
}

func (m *mockAppRepo) DeleteTask(_ context.Context, taskID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mutateErr != nil {
		return m.mutateErr
	}
	if _, ok := m.tasks[taskID]; !ok {
		return apperror.NotFound("task", taskID)
	}
	delete(m.tasks, taskID)
	return nil
}

// =========================================================================
// TEST HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestUserService(t *testing.T, identities map[int64]string) (*UserService, *mockIdentityRepo, *mockAppRepo) {
	t.Helper()
	idRepo := &mockIdentityRepo{identities: identities}
	app := newMockAppRepo()
	return NewUserService(idRepo, app, app, testLogger()), idRepo, app
}

func newTestTaskService(t *testing.T) (*TaskService, *mockAppRepo) {
	t.Helper()
	app := newMockAppRepo()
	return NewTaskService(app, testLogger()), app
}

func strPtr(s string) *string { return &s }
