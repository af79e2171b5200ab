package services

import "errors"

// Domain errors. Handlers translate these to HTTP status codes; anything
// else coming out of a service is treated as a server error.
var (
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials covers unknown email and wrong password alike
	// so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("expired session token")

	// ErrTaskNotFound covers both a missing task and a task owned by
	// another user; callers cannot distinguish the two.
	ErrTaskNotFound = errors.New("task not found")
	ErrUserNotFound = errors.New("user not found")

	ErrMissingTitle = errors.New("task title is required")

	ErrCompletedTask = errors.New("completed tasks cannot be marked as incomplete")
)
