package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tasktracker/internal/domain"
	"tasktracker/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists tasks in PostgreSQL through a pgx pool.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(ctx, postgresTasksUp); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply tasks migration: %w", err)
	}

	logger.Info("postgres store ready")
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

func (s *PostgresStore) Insert(ctx context.Context, title, description string) (domain.Task, error) {
	now := time.Now().UTC()
	t := domain.Task{
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO tasks (title, description, completed, created_at, updated_at)
		 VALUES ($1, $2, FALSE, $3, $3) RETURNING id`,
		title, description, now,
	).Scan(&t.ID)
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (domain.Task, error) {
	var t domain.Task
	err := s.db.QueryRow(ctx,
		`SELECT id, title, description, completed, created_at, updated_at FROM tasks WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) List(ctx context.Context, offset, limit int) ([]domain.Task, error) {
	if err := validatePage(offset, limit); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, title, description, completed, created_at, updated_at
		 FROM tasks ORDER BY id ASC OFFSET $1 LIMIT $2`,
		offset, limit,
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

// Update merges the supplied patch fields in a single statement; concurrent
// updates to the same row are last-write-wins.
func (s *PostgresStore) Update(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error) {
	var t domain.Task
	err := s.db.QueryRow(ctx,
		`UPDATE tasks
		 SET title       = COALESCE($2, title),
		     description = COALESCE($3, description),
		     completed   = COALESCE($4, completed),
		     updated_at  = $5
		 WHERE id = $1
		 RETURNING id, title, description, completed, created_at, updated_at`,
		id, patch.Title, patch.Description, patch.Completed, time.Now().UTC(),
	).Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) (bool, error) {
	ct, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (s *PostgresStore) Count(ctx context.Context, completed *bool) (int64, error) {
	var n int64
	var err error
	if completed == nil {
		err = s.db.QueryRow(ctx, `SELECT count(*) FROM tasks`).Scan(&n)
	} else {
		err = s.db.QueryRow(ctx, `SELECT count(*) FROM tasks WHERE completed = $1`, *completed).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}
