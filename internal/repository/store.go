package repository

import (
	"context"
	"strings"

	"tasktracker/internal/domain"
)

// TaskStore owns durable task rows. Each call acquires and releases its own
// connection; callers hold no state between calls.
type TaskStore interface {
	Ping(ctx context.Context) error
	Insert(ctx context.Context, title, description string) (domain.Task, error)
	Get(ctx context.Context, id int64) (domain.Task, error)
	List(ctx context.Context, offset, limit int) ([]domain.Task, error)
	Update(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context, completed *bool) (int64, error)
	Close()
}

// Open selects the storage engine from the DSN: postgres URLs get the pgx
// pool, anything else is treated as a SQLite file path.
func Open(ctx context.Context, databaseURL string) (TaskStore, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return NewPostgresStore(ctx, databaseURL)
	default:
		return NewSQLiteStore(ctx, strings.TrimPrefix(databaseURL, "sqlite://"))
	}
}

func validatePage(offset, limit int) error {
	if offset < 0 || limit <= 0 {
		return domain.ErrInvalidPagination
	}
	return nil
}
