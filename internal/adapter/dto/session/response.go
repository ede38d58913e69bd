package session

import (
	"time"
)

// SessionResponse represents a session in API responses
type SessionResponse struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"user_id"`
	Title           string                 `json:"title"`
	RoomName        string                 `json:"room_name"`
	StartedAt       time.Time              `json:"started_at"`
	EndedAt         *time.Time             `json:"ended_at,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	Summary         *string                `json:"summary,omitempty"`
	TranscriptCount *int64                 `json:"transcript_count,omitempty"`
}

// SessionListResponse represents the session listing
type SessionListResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
	Total    int                `json:"total"`
}

// TranscriptResponse represents one transcript in API responses
type TranscriptResponse struct {
	ID         string                 `json:"id"`
	SessionID  string                 `json:"session_id"`
	Text       string                 `json:"text"`
	Confidence *float64               `json:"confidence,omitempty"`
	IsFinal    bool                   `json:"is_final"`
	Language   string                 `json:"language"`
	DurationMs *int                   `json:"duration_ms,omitempty"`
	StartTime  time.Time              `json:"start_time"`
	EndTime    *time.Time             `json:"end_time,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// SessionDetailResponse is a session with its ordered transcripts
type SessionDetailResponse struct {
	Session     *SessionResponse      `json:"session"`
	Transcripts []*TranscriptResponse `json:"transcripts"`
}

// CurrentSessionResponse is the identity the recorder writes into
type CurrentSessionResponse struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

// AnalysisResponse is the summary view of a session
type AnalysisResponse struct {
	SessionID       string `json:"session_id"`
	TranscriptCount int    `json:"transcript_count"`
	TotalCharacters int    `json:"total_characters"`
	Summary         string `json:"summary"`
	Cached          bool   `json:"cached"`
	Placeholder     bool   `json:"placeholder"`
	CombinedText    string `json:"combined_text"`
}

// ExportResponse describes an uploaded session export
type ExportResponse struct {
	ObjectName      string    `json:"object_name"`
	URL             string    `json:"url"`
	ExpiresAt       time.Time `json:"expires_at"`
	TranscriptCount int       `json:"transcript_count"`
}

// ExportListResponse lists previous exports of a session
type ExportListResponse struct {
	Objects []string `json:"objects"`
}
