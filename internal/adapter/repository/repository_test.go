package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
	"github.com/johnquangdev/voice-transcripts/internal/domain/repositories"
	"github.com/johnquangdev/voice-transcripts/internal/infrastructure/database"
)

var _ repositories.Store = (*Store)(nil)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.CloseDB(db) })
	return db
}

func seedSession(t *testing.T, store *Store) (*entities.User, *entities.Session) {
	t.Helper()
	ctx := context.Background()
	user, err := store.Users().EnsureByUsername(ctx, "agent_user", "agent@example.com")
	if err != nil {
		t.Fatalf("EnsureByUsername() error = %v", err)
	}
	session := entities.NewSession(user.ID, "livekit_agent", "", time.Now().UTC())
	if err := store.Sessions().Create(ctx, session); err != nil {
		t.Fatalf("Create session error = %v", err)
	}
	return user, session
}

// =============================================================================
// Users
// =============================================================================

func TestUserRepository_EnsureByUsername_Idempotent(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	first, err := store.Users().EnsureByUsername(ctx, "agent_user", "agent@example.com")
	if err != nil {
		t.Fatalf("first EnsureByUsername() error = %v", err)
	}
	second, err := store.Users().EnsureByUsername(ctx, "agent_user", "agent@example.com")
	if err != nil {
		t.Fatalf("second EnsureByUsername() error = %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected the same user, got %s and %s", first.ID, second.ID)
	}
	if first.Email == nil || *first.Email != "agent@example.com" {
		t.Errorf("email = %v, want agent@example.com", first.Email)
	}
}

func TestUserRepository_FindByUsername_NotFound(t *testing.T) {
	store := NewStore(setupTestDB(t))

	_, err := store.Users().FindByUsername(context.Background(), "nobody")
	if err != entities.ErrUserNotFound {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_EnsureByUsername_RejectsEmpty(t *testing.T) {
	store := NewStore(setupTestDB(t))

	_, err := store.Users().EnsureByUsername(context.Background(), "  ", "")
	if err != entities.ErrInvalidName {
		t.Errorf("error = %v, want ErrInvalidName", err)
	}
}

// =============================================================================
// Sessions
// =============================================================================

func TestSessionRepository_FindByID(t *testing.T) {
	store := NewStore(setupTestDB(t))
	_, session := seedSession(t, store)

	got, err := store.Sessions().FindByID(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.Metadata[entities.MetaSource] != "livekit_agent" {
		t.Errorf("source = %v, want livekit_agent", got.Metadata[entities.MetaSource])
	}
	if got.RoomName() != "" {
		t.Errorf("room name = %q, want empty", got.RoomName())
	}

	if _, err := store.Sessions().FindByID(context.Background(), uuid.New()); err != entities.ErrSessionNotFound {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionRepository_UpdateMetadata(t *testing.T) {
	store := NewStore(setupTestDB(t))
	_, session := seedSession(t, store)
	ctx := context.Background()

	session.SetRoomName("standup")
	if err := store.Sessions().UpdateMetadata(ctx, session); err != nil {
		t.Fatalf("UpdateMetadata() error = %v", err)
	}

	got, err := store.Sessions().FindByID(ctx, session.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.RoomName() != "standup" {
		t.Errorf("room name = %q, want standup", got.RoomName())
	}
	if got.Metadata[entities.MetaSource] != "livekit_agent" {
		t.Errorf("source lost after merge: %v", got.Metadata)
	}

	missing := entities.NewSession(uuid.New(), "x", "", time.Now())
	if err := store.Sessions().UpdateMetadata(ctx, missing); err != entities.ErrSessionNotFound {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionRepository_SetSummaryIfEmpty_FirstWriterWins(t *testing.T) {
	store := NewStore(setupTestDB(t))
	_, session := seedSession(t, store)
	ctx := context.Background()

	wrote, err := store.Sessions().SetSummaryIfEmpty(ctx, session.ID, "first")
	if err != nil || !wrote {
		t.Fatalf("first write = (%v, %v), want (true, nil)", wrote, err)
	}
	wrote, err = store.Sessions().SetSummaryIfEmpty(ctx, session.ID, "second")
	if err != nil || wrote {
		t.Fatalf("second write = (%v, %v), want (false, nil)", wrote, err)
	}

	got, _ := store.Sessions().FindByID(ctx, session.ID)
	if got.SummaryText() != "first" {
		t.Errorf("summary = %q, want first", got.SummaryText())
	}
}

func TestSessionRepository_ListWithTranscriptCounts(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()
	user, older := seedSession(t, store)

	newer := entities.NewSession(user.ID, "livekit_agent", "demo", time.Now().UTC().Add(time.Minute))
	if err := store.Sessions().Create(ctx, newer); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	for _, text := range []string{"one", "two"} {
		tr := entities.NewTranscript(newer.ID, user.ID, text, time.Now().UTC())
		if err := store.Transcripts().Create(ctx, tr); err != nil {
			t.Fatalf("Create transcript error = %v", err)
		}
	}

	list, err := store.Sessions().ListWithTranscriptCounts(ctx)
	if err != nil {
		t.Fatalf("ListWithTranscriptCounts() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != newer.ID || list[0].TranscriptCount != 2 {
		t.Errorf("first = (%s, %d), want (%s, 2)", list[0].ID, list[0].TranscriptCount, newer.ID)
	}
	if list[1].ID != older.ID || list[1].TranscriptCount != 0 {
		t.Errorf("second = (%s, %d), want (%s, 0)", list[1].ID, list[1].TranscriptCount, older.ID)
	}
	if list[0].RoomName() != "demo" {
		t.Errorf("room = %q, want demo", list[0].RoomName())
	}
}

// =============================================================================
// Transcripts
// =============================================================================

func TestTranscriptRepository_ListBySession_OrderedByStartTime(t *testing.T) {
	store := NewStore(setupTestDB(t))
	user, session := seedSession(t, store)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	inserts := []struct {
		text   string
		offset time.Duration
	}{
		{"third", 3 * time.Second},
		{"first", 1 * time.Second},
		{"second-a", 2 * time.Second},
		{"second-b", 2 * time.Second},
	}
	for _, in := range inserts {
		tr := entities.NewTranscript(session.ID, user.ID, in.text, base.Add(in.offset))
		if err := store.Transcripts().Create(ctx, tr); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	list, err := store.Transcripts().ListBySession(ctx, session.ID)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	want := []string{"first", "second-a", "second-b", "third"}
	if len(list) != len(want) {
		t.Fatalf("len = %d, want %d", len(list), len(want))
	}
	for i, w := range want {
		if list[i].Text != w {
			t.Errorf("list[%d] = %q, want %q", i, list[i].Text, w)
		}
	}

}

func TestTranscriptRepository_Create_RejectsEmptyText(t *testing.T) {
	store := NewStore(setupTestDB(t))
	user, session := seedSession(t, store)

	tr := entities.NewTranscript(session.ID, user.ID, "", time.Now())
	if err := store.Transcripts().Create(context.Background(), tr); err != entities.ErrEmptyTranscript {
		t.Errorf("error = %v, want ErrEmptyTranscript", err)
	}
}

// =============================================================================
// Referential integrity
// =============================================================================

func TestStore_RejectsOrphanRows(t *testing.T) {
	store := NewStore(setupTestDB(t))
	user, session := seedSession(t, store)
	ctx := context.Background()

	orphanSession := entities.NewSession(uuid.New(), "livekit_agent", "", time.Now().UTC())
	if err := store.Sessions().Create(ctx, orphanSession); err == nil {
		t.Error("session with an unknown user was accepted")
	}

	tests := []struct {
		name      string
		sessionID uuid.UUID
		userID    uuid.UUID
	}{
		{"unknown session", uuid.New(), user.ID},
		{"unknown user", session.ID, uuid.New()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := entities.NewTranscript(tt.sessionID, tt.userID, "orphan", time.Now().UTC())
			if err := store.Transcripts().Create(ctx, tr); err == nil {
				t.Error("transcript with a dangling reference was accepted")
			}
		})
	}

	list, err := store.Transcripts().ListBySession(ctx, session.ID)
	if err != nil || len(list) != 0 {
		t.Errorf("ListBySession() = (%d, %v), want (0, nil)", len(list), err)
	}
}

func TestStore_DeletingSessionCascadesToTranscripts(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	user, session := seedSession(t, store)
	ctx := context.Background()

	tr := entities.NewTranscript(session.ID, user.ID, "kept until the session goes", time.Now().UTC())
	if err := store.Transcripts().Create(ctx, tr); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := db.Delete(&entities.Session{}, "id = ?", session.ID).Error; err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var count int64
	db.Model(&entities.Transcript{}).Where("session_id = ?", session.ID).Count(&count)
	if count != 0 {
		t.Errorf("transcripts after session delete = %d, want 0", count)
	}
}

// =============================================================================
// Transactions
// =============================================================================

func TestStore_Transaction_RollsBackOnError(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	err := store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Users().EnsureByUsername(ctx, "ghost", ""); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	if err != gorm.ErrInvalidTransaction {
		t.Fatalf("Transaction() error = %v", err)
	}

	if _, err := store.Users().FindByUsername(ctx, "ghost"); err != entities.ErrUserNotFound {
		t.Errorf("user survived rollback: err = %v", err)
	}
}

func TestStore_ConcurrentEnsureCreatesOneUser(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]uuid.UUID, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := store.Users().EnsureByUsername(ctx, "agent_user", "")
			if err != nil {
				t.Errorf("EnsureByUsername() error = %v", err)
				return
			}
			ids[i] = u.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatalf("got distinct user ids %s and %s", ids[0], id)
		}
	}
}
