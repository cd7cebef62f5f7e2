package domain

import "errors"

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTitle      = errors.New("title must not be empty")
	ErrInvalidPagination = errors.New("invalid pagination arguments")
)
