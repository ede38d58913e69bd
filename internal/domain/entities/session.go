package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Metadata keys stored on sessions and transcripts
const (
	MetaSource      = "source"
	MetaRoomName    = "room_name"
	MetaType        = "type"
	MetaParticipant = "participant"
	MetaSegmentID   = "segment_id"
)

// SessionTitleLayout formats the default session title
const SessionTitleLayout = "2006-01-02 15:04"

// Session groups the transcripts captured during one run of the recorder
type Session struct {
	ID        uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	Title     string            `json:"title" gorm:"type:varchar(200)"`
	StartedAt time.Time         `json:"started_at" gorm:"not null;index"`
	EndedAt   *time.Time        `json:"ended_at,omitempty"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	Summary   *string           `json:"summary,omitempty" gorm:"type:text"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// NewSession creates a session owned by userID. roomName is recorded only when non-empty.
func NewSession(userID uuid.UUID, source, roomName string, now time.Time) *Session {
	s := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     now.Format(SessionTitleLayout),
		StartedAt: now,
		Metadata:  datatypes.JSONMap{MetaSource: source},
	}
	if roomName != "" {
		s.Metadata[MetaRoomName] = roomName
	}
	return s
}

// RoomName returns the room recorded in metadata, or "" when none
func (s *Session) RoomName() string {
	if s.Metadata == nil {
		return ""
	}
	name, _ := s.Metadata[MetaRoomName].(string)
	return name
}

// SetRoomName merges room_name into metadata, creating the map if absent
func (s *Session) SetRoomName(name string) {
	if s.Metadata == nil {
		s.Metadata = datatypes.JSONMap{}
	}
	s.Metadata[MetaRoomName] = name
}

// HasSummary reports whether a non-empty summary is stored
func (s *Session) HasSummary() bool {
	return s.Summary != nil && *s.Summary != ""
}

// SummaryText returns the stored summary or ""
func (s *Session) SummaryText() string {
	if s.Summary == nil {
		return ""
	}
	return *s.Summary
}

// SessionOverview is a session row with its transcript count, newest first in listings
type SessionOverview struct {
	Session
	TranscriptCount int64 `json:"transcript_count"`
}
