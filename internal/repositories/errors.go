package repositories

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrTaskNotFound is returned when no task matches the lookup.
	ErrTaskNotFound = errors.New("task not found")
)
