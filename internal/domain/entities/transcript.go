package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DefaultLanguage is used when a fragment carries no language tag
const DefaultLanguage = "en-US"

// TranscriptTypeUserSpeech marks transcripts produced from a participant's speech
const TranscriptTypeUserSpeech = "user_speech"

// Transcript is one persisted speech-to-text fragment
type Transcript struct {
	ID         uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID  uuid.UUID         `json:"session_id" gorm:"type:uuid;not null;index:idx_transcripts_user_session,priority:2;index:idx_transcripts_session_start,priority:1"`
	UserID     uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index:idx_transcripts_user_session,priority:1"`
	Text       string            `json:"text" gorm:"type:text;not null"`
	Confidence *float64          `json:"confidence,omitempty"`
	IsFinal    bool              `json:"is_final" gorm:"not null"`
	Language   string            `json:"language" gorm:"type:varchar(10);not null;default:'en-US'"`
	DurationMs *int              `json:"duration_ms,omitempty"`
	StartTime  time.Time         `json:"start_time" gorm:"not null;index:idx_transcripts_session_start,priority:2"`
	EndTime    *time.Time        `json:"end_time,omitempty"`
	CreatedAt  time.Time         `json:"created_at" gorm:"autoCreateTime;index:idx_transcripts_created_at"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`

	Session *Session `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	User    *User    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// NewTranscript creates a transcript for the given session. Ids are time-ordered
// so rows with equal start times keep their insertion order.
func NewTranscript(sessionID, userID uuid.UUID, text string, now time.Time) *Transcript {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &Transcript{
		ID:        id,
		SessionID: sessionID,
		UserID:    userID,
		Text:      text,
		Language:  DefaultLanguage,
		StartTime: now,
		CreatedAt: now,
	}
}

// MarkFinal sets the end time; only final transcripts carry one
func (t *Transcript) MarkFinal(at time.Time) {
	t.IsFinal = true
	t.EndTime = &at
}
