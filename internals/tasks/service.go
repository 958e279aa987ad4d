package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Oudwins/devtaskflow/internals/apperr"
	"github.com/Oudwins/devtaskflow/internals/schemas"
)

// Store is the persistence the service needs.
type Store interface {
	ListByOwner(ctx context.Context, owner string) ([]schemas.Task, error)
	Create(ctx context.Context, task schemas.Task) (schemas.Task, error)
	UpdateStatus(ctx context.Context, owner string, id int64, status schemas.TaskStatus) (int64, error)
	GetForOwner(ctx context.Context, owner string, id int64) (schemas.Task, error)
}

type Publisher interface {
	Publish(event schemas.Event)
}

type Service struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
}

func NewService(store Store, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{store: store, publisher: publisher, logger: logger}
}

func (s *Service) List(ctx context.Context, owner schemas.Identity) ([]schemas.Task, error) {
	return s.store.ListByOwner(ctx, owner.ID)
}

// Create stores a new open task for owner and broadcasts it.
func (s *Service) Create(ctx context.Context, owner schemas.Identity, title string, commitSHA *string) (schemas.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return schemas.Task{}, apperr.Validation("Title is required", map[string][]string{"title": {"title is required"}})
	}
	var sha *string
	if commitSHA != nil {
		if trimmed := strings.TrimSpace(*commitSHA); trimmed != "" {
			sha = &trimmed
		}
	}

	task, err := s.store.Create(ctx, schemas.Task{
		Title:     title,
		Status:    schemas.TaskStatusOpen,
		CommitSHA: sha,
		UserID:    owner.ID,
	})
	if err != nil {
		return schemas.Task{}, err
	}

	s.logger.Info("Task created", "task_id", task.ID, "user_id", owner.ID)
	s.publisher.Publish(schemas.Event{Kind: schemas.EventTaskUpdate, Data: task})
	return task, nil
}

// UpdateStatus changes the status of one of owner's tasks and broadcasts the
// persisted result. A task that does not exist or belongs to someone else is
// reported as not found and nothing is broadcast.
func (s *Service) UpdateStatus(ctx context.Context, owner schemas.Identity, id int64, status schemas.TaskStatus) (schemas.Task, error) {
	if !status.Valid() {
		return schemas.Task{}, apperr.Validation("Invalid status", map[string][]string{"status": {"Invalid status"}})
	}

	affected, err := s.store.UpdateStatus(ctx, owner.ID, id, status)
	if err != nil {
		return schemas.Task{}, err
	}
	if affected == 0 {
		return schemas.Task{}, fmt.Errorf("task %d: %w", id, apperr.ErrNotFound)
	}

	task, err := s.store.GetForOwner(ctx, owner.ID, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return schemas.Task{}, fmt.Errorf("task %d: %w", id, err)
		}
		return schemas.Task{}, err
	}

	s.logger.Info("Task status updated", "task_id", task.ID, "status", task.Status, "user_id", owner.ID)
	s.publisher.Publish(schemas.Event{Kind: schemas.EventTaskStatusUpdate, Data: task})
	return task, nil
}
