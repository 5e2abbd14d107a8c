package services

import (
	"context"
	"errors"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/app/repositories"
	"github.com/sevasetu/sevasetu/internal/pkg/apperrors"
)

// TaskStore is the persistence surface the task service needs
type TaskStore interface {
	ListFailed(ctx context.Context, offset uint64, limit int) ([]*models.OutboxTask, int64, error)
	Requeue(ctx context.Context, id int64) error
}

// TaskService exposes the failed-task queue to admins. Tasks that exhaust
// their attempts stay failed until someone requeues them here.
type TaskService struct {
	tasks TaskStore
}

// NewTaskService creates a new TaskService
func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

// ListFailed pages through failed tasks
func (s *TaskService) ListFailed(ctx context.Context, offset uint64, limit int) ([]*models.OutboxTask, int64, error) {
	return s.tasks.ListFailed(ctx, offset, limit)
}

// Requeue puts a failed task back in line with a fresh attempt budget
func (s *TaskService) Requeue(ctx context.Context, id int64) error {
	if err := s.tasks.Requeue(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewResourceNotFoundError("no failed task with that id")
		}
		return err
	}
	return nil
}
