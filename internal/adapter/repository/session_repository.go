package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
)

// SessionRepository implements the session repository interface using GORM
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

// Create creates a new session
func (r *SessionRepository) Create(ctx context.Context, session *entities.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID finds a session by ID
func (r *SessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Session, error) {
	var session entities.Session
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session by ID: %w", err)
	}
	return &session, nil
}

// UpdateMetadata persists the session's metadata column
func (r *SessionRepository) UpdateMetadata(ctx context.Context, session *entities.Session) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Session{}).
		Where("id = ?", session.ID).
		Update("metadata", session.Metadata)
	if result.Error != nil {
		return fmt.Errorf("failed to update session metadata: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrSessionNotFound
	}
	return nil
}

// SetSummaryIfEmpty writes summary only when the stored one is NULL or empty
func (r *SessionRepository) SetSummaryIfEmpty(ctx context.Context, id uuid.UUID, summary string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Session{}).
		Where("id = ? AND (summary IS NULL OR summary = '')", id).
		Update("summary", summary)
	if result.Error != nil {
		return false, fmt.Errorf("failed to store session summary: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListWithTranscriptCounts returns every session, newest first, with its transcript count
func (r *SessionRepository) ListWithTranscriptCounts(ctx context.Context) ([]*entities.SessionOverview, error) {
	var overviews []*entities.SessionOverview
	if err := r.db.WithContext(ctx).
		Model(&entities.Session{}).
		Select("sessions.*, COUNT(transcripts.id) AS transcript_count").
		Joins("LEFT JOIN transcripts ON transcripts.session_id = sessions.id").
		Group("sessions.id").
		Order("sessions.started_at DESC").
		Scan(&overviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return overviews, nil
}
