package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/apiserver/types"
)

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]types.Task, error)
	Get(ctx context.Context, userID, id uuid.UUID) (types.Task, error)
	Create(ctx context.Context, task types.Task) (types.Task, error)
	Update(ctx context.Context, task types.Task) (types.Task, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// TaskService encapsulates ownership-scoped task use-cases. Every
// operation acts only within the given user's task set.
type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// Create stores a new task for the user. Priority defaults to Low when
// absent; a caller-proposed createdAt is honored, otherwise the server
// stamps now.
func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, task types.Task) (types.Task, error) {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return types.Task{}, &ValidationError{Field: "title", Message: "title is required"}
	}

	task.Priority = task.Priority.OrLow()
	if !task.Priority.Valid() {
		return types.Task{}, &ValidationError{Field: "priority", Message: "priority must be High or Low"}
	}

	task.ID = uuid.Nil
	task.UserID = userID
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	return s.repo.Create(ctx, task)
}

// List returns all of the user's tasks, newest createdAt first. An
// empty list is a valid result.
func (s *TaskService) List(ctx context.Context, userID uuid.UUID) ([]types.Task, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update applies a partial patch to a task the user owns. Only fields
// present in the patch change; in particular an omitted priority keeps
// its stored value rather than being re-defaulted to Low. An empty
// patch returns the task unchanged.
func (s *TaskService) Update(ctx context.Context, userID, id uuid.UUID, patch types.TaskPatch) (types.Task, error) {
	task, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return types.Task{}, err
	}
	if patch.IsZero() {
		return task, nil
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return types.Task{}, &ValidationError{Field: "title", Message: "title is required"}
		}
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return types.Task{}, &ValidationError{Field: "priority", Message: "priority must be High or Low"}
		}
		task.Priority = *patch.Priority
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.CreatedAt != nil {
		task.CreatedAt = *patch.CreatedAt
	}

	return s.repo.Update(ctx, task)
}

// Delete removes a task the user owns. Deleting a task that does not
// exist, or that belongs to someone else, is reported as not found
// rather than acknowledged as a no-op.
func (s *TaskService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}
