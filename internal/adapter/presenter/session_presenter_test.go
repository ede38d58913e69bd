package presenter

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
)

func TestToSessionResponse_RoomName(t *testing.T) {
	now := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)

	withRoom := entities.NewSession(uuid.New(), "livekit_agent", "standup", now)
	if got := ToSessionResponse(withRoom).RoomName; got != "standup" {
		t.Errorf("RoomName = %q, want standup", got)
	}

	withoutRoom := entities.NewSession(uuid.New(), "livekit_agent", "", now)
	if got := ToSessionResponse(withoutRoom).RoomName; got != RoomNameUnknown {
		t.Errorf("RoomName = %q, want %q", got, RoomNameUnknown)
	}

	if ToSessionResponse(nil) != nil {
		t.Error("ToSessionResponse(nil) should be nil")
	}
}

func TestToSessionListResponse_KeepsOrderAndCounts(t *testing.T) {
	now := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	newer := entities.NewSession(uuid.New(), "src", "", now.Add(time.Hour))
	older := entities.NewSession(uuid.New(), "src", "", now)

	resp := ToSessionListResponse([]*entities.SessionOverview{
		{Session: *newer, TranscriptCount: 3},
		{Session: *older, TranscriptCount: 0},
	})

	if resp.Total != 2 {
		t.Fatalf("Total = %d, want 2", resp.Total)
	}
	if resp.Sessions[0].ID != newer.ID.String() || *resp.Sessions[0].TranscriptCount != 3 {
		t.Errorf("first = %+v", resp.Sessions[0])
	}
	if *resp.Sessions[1].TranscriptCount != 0 {
		t.Errorf("second count = %d, want 0", *resp.Sessions[1].TranscriptCount)
	}
}
