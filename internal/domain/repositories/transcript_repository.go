package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
)

// TranscriptRepository defines the interface for transcript data access
type TranscriptRepository interface {
	// Create creates a new transcript
	Create(ctx context.Context, transcript *entities.Transcript) error

	// ListBySession returns a session's transcripts ordered by start time, then insertion order
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*entities.Transcript, error)
}
