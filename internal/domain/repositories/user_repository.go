package repositories

import (
	"context"

	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// EnsureByUsername returns the user with the given username, creating it when absent
	EnsureByUsername(ctx context.Context, username, email string) (*entities.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
}
