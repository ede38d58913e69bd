package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInternalError = errors.New("internal server error")
)

// Persistence errors
var (
	ErrPersistence        = errors.New("persistence failure")
	ErrStorageUnavailable = errors.New("object storage unavailable")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotBootstrapped = errors.New("no session has been established")
)
