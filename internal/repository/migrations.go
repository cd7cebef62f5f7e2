package repository

import (
	_ "embed"
)

//go:embed migrations/postgres_tasks.up.sql
var postgresTasksUp string

//go:embed migrations/sqlite_tasks.up.sql
var sqliteTasksUp string
