package presenter

import (
	"github.com/johnquangdev/voice-transcripts/internal/adapter/dto/session"
	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
	"github.com/johnquangdev/voice-transcripts/internal/usecase/export"
	"github.com/johnquangdev/voice-transcripts/internal/usecase/summary"
)

// RoomNameUnknown is shown for sessions without a recorded room
const RoomNameUnknown = "N/A"

// ToSessionResponse converts a Session entity to SessionResponse DTO
func ToSessionResponse(s *entities.Session) *session.SessionResponse {
	if s == nil {
		return nil
	}

	roomName := s.RoomName()
	if roomName == "" {
		roomName = RoomNameUnknown
	}

	return &session.SessionResponse{
		ID:        s.ID.String(),
		UserID:    s.UserID.String(),
		Title:     s.Title,
		RoomName:  roomName,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		Metadata:  s.Metadata,
		Summary:   s.Summary,
	}
}

// ToSessionListResponse converts session overviews, keeping their order
func ToSessionListResponse(overviews []*entities.SessionOverview) *session.SessionListResponse {
	sessions := make([]*session.SessionResponse, len(overviews))
	for i, o := range overviews {
		resp := ToSessionResponse(&o.Session)
		count := o.TranscriptCount
		resp.TranscriptCount = &count
		sessions[i] = resp
	}
	return &session.SessionListResponse{
		Sessions: sessions,
		Total:    len(sessions),
	}
}

// ToTranscriptResponse converts a Transcript entity to TranscriptResponse DTO
func ToTranscriptResponse(t *entities.Transcript) *session.TranscriptResponse {
	if t == nil {
		return nil
	}
	return &session.TranscriptResponse{
		ID:         t.ID.String(),
		SessionID:  t.SessionID.String(),
		Text:       t.Text,
		Confidence: t.Confidence,
		IsFinal:    t.IsFinal,
		Language:   t.Language,
		DurationMs: t.DurationMs,
		StartTime:  t.StartTime,
		EndTime:    t.EndTime,
		Metadata:   t.Metadata,
	}
}

// ToTranscriptResponses converts transcripts, keeping their order
func ToTranscriptResponses(transcripts []*entities.Transcript) []*session.TranscriptResponse {
	out := make([]*session.TranscriptResponse, len(transcripts))
	for i, t := range transcripts {
		out[i] = ToTranscriptResponse(t)
	}
	return out
}

// ToSessionDetailResponse combines a session and its transcripts
func ToSessionDetailResponse(s *entities.Session, transcripts []*entities.Transcript) *session.SessionDetailResponse {
	resp := ToSessionResponse(s)
	count := int64(len(transcripts))
	resp.TranscriptCount = &count
	return &session.SessionDetailResponse{
		Session:     resp,
		Transcripts: ToTranscriptResponses(transcripts),
	}
}

// ToAnalysisResponse converts a summary analysis
func ToAnalysisResponse(a *summary.Analysis) *session.AnalysisResponse {
	return &session.AnalysisResponse{
		SessionID:       a.SessionID.String(),
		TranscriptCount: a.TranscriptCount,
		TotalCharacters: a.TotalCharacters,
		Summary:         a.Summary,
		Cached:          a.Cached,
		Placeholder:     a.Placeholder,
		CombinedText:    a.Document,
	}
}

// ToExportResponse converts an export result
func ToExportResponse(r *export.Result) *session.ExportResponse {
	return &session.ExportResponse{
		ObjectName:      r.ObjectName,
		URL:             r.URL,
		ExpiresAt:       r.ExpiresAt,
		TranscriptCount: r.TranscriptCount,
	}
}
