package entities

import "errors"

// Domain errors
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidName  = errors.New("invalid username")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Transcript errors
	ErrEmptyTranscript = errors.New("transcript text is empty")
)
