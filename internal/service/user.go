// Package service contains the business logic layer of the application.
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, orchestrates, classifies errors
//	Repository (data layer)  → reads/writes the two stores
//
// Services accept and return plain Go values and apperror errors; they know
// nothing about HTTP. Store failures are logged here, with context, and
// handed upward as apperror.StoreFailed carrying an opaque message.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/taskboard/internal/apperror"
	"github.com/sakif/taskboard/internal/model"
	"github.com/sakif/taskboard/internal/repository"
)

// CheckInResult is what the check-user endpoint reports.
type CheckInResult struct {
	Message  string       `json:"message"`
	UserID   int64        `json:"userId"`
	Tasks    []model.Task `json:"tasks"`
	Username string       `json:"username"`
	// NewUser is true only for the request that created the application row.
	NewUser bool `json:"-"`
}

// UserService owns the resolve-or-provision flow that spans both stores.
type UserService struct {
	identities repository.IdentityRepository
	users      repository.UserRepository
	tasks      repository.TaskRepository
	logger     *slog.Logger
}

// NewUserService wires the flow to the identity store and the application store.
func NewUserService(
	identities repository.IdentityRepository,
	users repository.UserRepository,
	tasks repository.TaskRepository,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		identities: identities,
		users:      users,
		tasks:      tasks,
		logger:     logger,
	}
}

// ResolveOrProvision looks the user up in the identity store and makes sure
// the application store knows about them. It reads, and may write once.
//
// Steps run strictly in order, each returning early on failure:
//
//  1. identity store lookup; unknown id → NotFound, nothing else is touched
//  2. application store user lookup
//  3. known user → list their tasks, "welcome back"
//  4. unknown user → insert the user row, "welcome, new user", no tasks
//
// Nothing is rolled back if a later step fails. When the insert in step 4
// loses a race to a concurrent check-in, the user is treated as known.
func (s *UserService) ResolveOrProvision(ctx context.Context, userID int64) (*CheckInResult, error) {
	ident, err := s.identities.LookupIdentity(ctx, userID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NotFoundMessage("User ID does not exist in the identity store.")
	}
	if err != nil {
		return nil, s.storeError("Database error while fetching username.", "looking up identity", userID, err)
	}

	_, err = s.users.GetUser(ctx, userID)
	switch {
	case err == nil:
		return s.welcomeBack(ctx, ident)
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, s.storeError("Database error while checking user existence.", "checking user existence", userID, err)
	}

	created, err := s.users.CreateUser(ctx, &model.User{UserID: userID, Username: ident.Username})
	if err != nil {
		return nil, s.storeError("Error inserting new user.", "inserting new user", userID, err)
	}
	if !created {
		s.logger.Info("user provisioned concurrently, treating as existing",
			slog.Int64("userID", userID),
		)
		return s.welcomeBack(ctx, ident)
	}

	s.logger.Info("user provisioned",
		slog.Int64("userID", userID),
		slog.String("username", ident.Username),
	)

	return &CheckInResult{
		Message:  fmt.Sprintf("Welcome, new user %d!", userID),
		UserID:   userID,
		Tasks:    []model.Task{},
		Username: ident.Username,
		NewUser:  true,
	}, nil
}

func (s *UserService) welcomeBack(ctx context.Context, ident *model.Identity) (*CheckInResult, error) {
	tasks, err := s.tasks.ListTasks(ctx, ident.ID)
	if err != nil {
		return nil, s.storeError("Database error while fetching tasks.", "fetching tasks", ident.ID, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	return &CheckInResult{
		Message:  fmt.Sprintf("Welcome back, %s!", ident.Username),
		UserID:   ident.ID,
		Tasks:    tasks,
		Username: ident.Username,
	}, nil
}

func (s *UserService) storeError(message, step string, userID int64, err error) error {
	s.logger.Error("check-user step failed",
		slog.String("step", step),
		slog.Int64("userID", userID),
		slog.String("error", err.Error()),
	)
	return apperror.StoreFailed(message, err)
}
