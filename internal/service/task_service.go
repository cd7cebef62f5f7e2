package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tasktracker/internal/domain"
	"tasktracker/internal/logger"
	"tasktracker/internal/monitoring"
	"tasktracker/internal/repository"
)

const (
	// DefaultListLimit applies when the caller does not specify one.
	DefaultListLimit = 100
	// DefaultMaxListLimit bounds response size when no ceiling is configured.
	DefaultMaxListLimit = 1000
)

// TaskService applies business rules on top of a TaskStore: input
// validation, pagination clamping and the derived summary view.
type TaskService struct {
	store        repository.TaskStore
	maxListLimit int
}

func NewTaskService(store repository.TaskStore) *TaskService {
	return NewTaskServiceWithLimit(store, DefaultMaxListLimit)
}

func NewTaskServiceWithLimit(store repository.TaskStore, maxListLimit int) *TaskService {
	if maxListLimit <= 0 {
		maxListLimit = DefaultMaxListLimit
	}
	return &TaskService{store: store, maxListLimit: maxListLimit}
}

func (s *TaskService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *TaskService) Create(ctx context.Context, title, description string) (domain.Task, error) {
	if strings.TrimSpace(title) == "" {
		monitoring.TrackOperation("create", "invalid")
		return domain.Task{}, domain.ErrInvalidTitle
	}

	t, err := s.store.Insert(ctx, title, description)
	if err != nil {
		monitoring.TrackOperation("create", "error")
		return domain.Task{}, err
	}

	monitoring.TrackOperation("create", "success")
	s.refreshGauges()
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (domain.Task, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		monitoring.TrackOperation("read", trackStatus(err))
		return domain.Task{}, err
	}
	monitoring.TrackOperation("read", "success")
	return t, nil
}

// List returns tasks in ascending id order. The limit is clamped to the
// configured ceiling to bound response size.
func (s *TaskService) List(ctx context.Context, skip, limit int) ([]domain.Task, error) {
	if skip < 0 || limit <= 0 {
		monitoring.TrackOperation("list", "invalid")
		return nil, domain.ErrInvalidPagination
	}
	if limit > s.maxListLimit {
		limit = s.maxListLimit
	}

	tasks, err := s.store.List(ctx, skip, limit)
	if err != nil {
		monitoring.TrackOperation("list", trackStatus(err))
		return nil, err
	}
	monitoring.TrackOperation("list", "success")
	return tasks, nil
}

func (s *TaskService) Update(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		monitoring.TrackOperation("update", "invalid")
		return domain.Task{}, domain.ErrInvalidTitle
	}

	t, err := s.store.Update(ctx, id, patch)
	if err != nil {
		monitoring.TrackOperation("update", trackStatus(err))
		return domain.Task{}, err
	}

	monitoring.TrackOperation("update", "success")
	s.refreshGauges()
	return t, nil
}

// Delete is idempotent: deleting an absent id reports false, not an error.
func (s *TaskService) Delete(ctx context.Context, id int64) (bool, error) {
	existed, err := s.store.Delete(ctx, id)
	if err != nil {
		monitoring.TrackOperation("delete", "error")
		return false, err
	}

	if existed {
		monitoring.TrackOperation("delete", "success")
		s.refreshGauges()
	} else {
		monitoring.TrackOperation("delete", "not_found")
	}
	return existed, nil
}

// Summary computes the aggregate view from two separate counts. The counts
// are not taken in one snapshot; under concurrent writers they may observe
// different states, which is accepted behavior for this view.
func (s *TaskService) Summary(ctx context.Context) (domain.Summary, error) {
	total, err := s.store.Count(ctx, nil)
	if err != nil {
		monitoring.TrackOperation("summary", "error")
		return domain.Summary{}, err
	}

	done := true
	completed, err := s.store.Count(ctx, &done)
	if err != nil {
		monitoring.TrackOperation("summary", "error")
		return domain.Summary{}, err
	}

	monitoring.TrackOperation("summary", "success")
	return domain.Summary{
		Total:     total,
		Active:    total - completed,
		Completed: completed,
	}, nil
}

// refreshGauges updates the task gauges after a mutation. It runs detached
// with its own deadline so metrics can never block or fail the operation.
func (s *TaskService) refreshGauges() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		total, err := s.store.Count(ctx, nil)
		if err != nil {
			logger.Debug("gauge refresh skipped", "error", err)
			return
		}
		done := true
		completed, err := s.store.Count(ctx, &done)
		if err != nil {
			logger.Debug("gauge refresh skipped", "error", err)
			return
		}
		monitoring.SetTaskGauges(total-completed, completed)
	}()
}

func trackStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrTaskNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidPagination), errors.Is(err, domain.ErrInvalidTitle):
		return "invalid"
	default:
		return "error"
	}
}
