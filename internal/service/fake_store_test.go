package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"tasktracker/internal/domain"
)

// fakeStore is an in-memory TaskStore for service tests. Setting err makes
// every operation fail with it, standing in for a storage fault.
type fakeStore struct {
	mu     sync.RWMutex
	nextID int64
	tasks  map[int64]domain.Task
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID: 1,
		tasks:  make(map[int64]domain.Task),
	}
}

func (f *fakeStore) Ping(context.Context) error {
	return f.err
}

func (f *fakeStore) Close() {}

func (f *fakeStore) Insert(_ context.Context, title, description string) (domain.Task, error) {
	if f.err != nil {
		return domain.Task{}, f.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now().UTC()
	t := domain.Task{
		ID:          f.nextID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.nextID++
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (domain.Task, error) {
	if f.err != nil {
		return domain.Task{}, f.err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	t, ok := f.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return t, nil
}

func (f *fakeStore) List(_ context.Context, offset, limit int) ([]domain.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	if offset < 0 || limit <= 0 {
		return nil, domain.ErrInvalidPagination
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	all := make([]domain.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, patch domain.TaskPatch) (domain.Task, error) {
	if f.err != nil {
		return domain.Task{}, f.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}

	now := time.Now().UTC()
	if !now.After(t.CreatedAt) {
		now = t.CreatedAt.Add(time.Nanosecond)
	}
	t.UpdatedAt = now

	f.tasks[id] = t
	return t, nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tasks[id]; !ok {
		return false, nil
	}
	delete(f.tasks, id)
	return true, nil
}

func (f *fakeStore) Count(_ context.Context, completed *bool) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var n int64
	for _, t := range f.tasks {
		if completed == nil || t.Completed == *completed {
			n++
		}
	}
	return n, nil
}
