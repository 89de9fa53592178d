package domain

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrNotFound          = errors.New("not found")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrAuthFailure       = errors.New("incorrect username or password")
	ErrForbidden         = errors.New("forbidden")
)
