package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
)

// TranscriptRepository implements the transcript repository interface using GORM
type TranscriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Create creates a new transcript
func (r *TranscriptRepository) Create(ctx context.Context, transcript *entities.Transcript) error {
	if transcript.Text == "" {
		return entities.ErrEmptyTranscript
	}
	if err := r.db.WithContext(ctx).Create(transcript).Error; err != nil {
		return fmt.Errorf("failed to create transcript: %w", err)
	}
	return nil
}

// ListBySession returns transcripts ordered by start time; ids are time-ordered
// so they break ties in insertion order.
func (r *TranscriptRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*entities.Transcript, error) {
	var transcripts []*entities.Transcript
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("start_time ASC").
		Order("id ASC").
		Find(&transcripts).Error; err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}
	return transcripts, nil
}
