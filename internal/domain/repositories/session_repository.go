package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
)

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	// Create creates a new session
	Create(ctx context.Context, session *entities.Session) error

	// FindByID finds a session by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Session, error)

	// UpdateMetadata persists the session's metadata column
	UpdateMetadata(ctx context.Context, session *entities.Session) error

	// SetSummaryIfEmpty stores summary only when none is stored yet.
	// It reports whether this call wrote the value.
	SetSummaryIfEmpty(ctx context.Context, id uuid.UUID, summary string) (bool, error)

	// ListWithTranscriptCounts returns all sessions newest first with their transcript counts
	ListWithTranscriptCounts(ctx context.Context) ([]*entities.SessionOverview, error)
}
