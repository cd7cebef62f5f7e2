package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tasktracker/internal/domain"
	"tasktracker/internal/logger"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists tasks in a SQLite file. It is the default engine,
// suitable for local runs and tests.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	// SQLite benefits from a single writer connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteTasksUp); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply tasks migration: %w", err)
	}

	logger.Info("sqlite store ready", "path", path)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() {
	if err := s.db.Close(); err != nil {
		logger.Error("error closing db", "error", err)
	}
}

func (s *SQLiteStore) Insert(ctx context.Context, title, description string) (domain.Task, error) {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, completed, created_at, updated_at)
		 VALUES (?, ?, 0, ?, ?)`,
		title, description, now, now,
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}

	return domain.Task{
		ID:          id,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (domain.Task, error) {
	var t domain.Task
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, completed, created_at, updated_at FROM tasks WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *SQLiteStore) List(ctx context.Context, offset, limit int) ([]domain.Task, error) {
	if err := validatePage(offset, limit); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, completed, created_at, updated_at
		 FROM tasks ORDER BY id ASC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var res []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return res, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks
		 SET title       = COALESCE(?, title),
		     description = COALESCE(?, description),
		     completed   = COALESCE(?, completed),
		     updated_at  = ?
		 WHERE id = ?`,
		patch.Title, patch.Description, patch.Completed, time.Now().UTC(), id,
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("update task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Task{}, fmt.Errorf("update task: %w", err)
	}
	if affected == 0 {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	return s.Get(ctx, id)
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return affected > 0, nil
}

func (s *SQLiteStore) Count(ctx context.Context, completed *bool) (int64, error) {
	var n int64
	var err error
	if completed == nil {
		err = s.db.QueryRowContext(ctx, `SELECT count(*) FROM tasks`).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT count(*) FROM tasks WHERE completed = ?`, *completed).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}
