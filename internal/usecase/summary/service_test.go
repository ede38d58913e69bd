package summary

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/voice-transcripts/internal/adapter/repository"
	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
	"github.com/johnquangdev/voice-transcripts/internal/infrastructure/cache"
	"github.com/johnquangdev/voice-transcripts/internal/infrastructure/database"
	ucerrors "github.com/johnquangdev/voice-transcripts/internal/usecase/errors"
	"github.com/johnquangdev/voice-transcripts/pkg/ai"
)

type mockCompleter struct {
	calls        atomic.Int32
	CompleteFunc func(ctx context.Context, messages []ai.Message) ([]string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, messages []ai.Message) ([]string, error) {
	m.calls.Add(1)
	return m.CompleteFunc(ctx, messages)
}

func replying(text string) *mockCompleter {
	return &mockCompleter{
		CompleteFunc: func(context.Context, []ai.Message) ([]string, error) {
			return []string{text}, nil
		},
	}
}

func setupStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "summary.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.CloseDB(db) })
	return repository.NewStore(db)
}

func seedSession(t *testing.T, store *repository.Store, texts ...string) *entities.Session {
	t.Helper()
	ctx := context.Background()
	user, err := store.Users().EnsureByUsername(ctx, "agent_user", "")
	if err != nil {
		t.Fatalf("EnsureByUsername() error = %v", err)
	}
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	session := entities.NewSession(user.ID, "livekit_agent", "", base)
	if err := store.Sessions().Create(ctx, session); err != nil {
		t.Fatalf("Create session error = %v", err)
	}
	for i, text := range texts {
		tr := entities.NewTranscript(session.ID, user.ID, text, base.Add(time.Duration(i)*time.Second))
		if err := store.Transcripts().Create(ctx, tr); err != nil {
			t.Fatalf("Create transcript error = %v", err)
		}
	}
	return session
}

func TestGetOrCreateSummary_GeneratesAndCaches(t *testing.T) {
	store := setupStore(t)
	session := seedSession(t, store, "hello", "world")

	var gotMessages []ai.Message
	completer := &mockCompleter{
		CompleteFunc: func(_ context.Context, messages []ai.Message) ([]string, error) {
			gotMessages = messages
			return []string{"  Greeting exchange \n"}, nil
		},
	}
	svc := NewSummaryService(store, completer, nil, Options{Timeout: time.Second}, nil)
	ctx := context.Background()

	first, err := svc.GetOrCreateSummary(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetOrCreateSummary() error = %v", err)
	}
	if first.Summary != "Greeting exchange" || first.Cached || first.Placeholder {
		t.Errorf("first = %+v", first)
	}
	if first.Document != "hello\nworld" || first.TranscriptCount != 2 || first.TotalCharacters != 11 {
		t.Errorf("document stats = %q/%d/%d", first.Document, first.TranscriptCount, first.TotalCharacters)
	}
	if len(gotMessages) != 2 || gotMessages[0].Content != SystemPrompt ||
		gotMessages[1].Content != "Please summarize the following transcript:\n\nhello\nworld" {
		t.Errorf("messages = %+v", gotMessages)
	}

	stored, _ := store.Sessions().FindByID(ctx, session.ID)
	if stored.SummaryText() != "Greeting exchange" {
		t.Errorf("stored summary = %q", stored.SummaryText())
	}

	second, err := svc.GetOrCreateSummary(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetOrCreateSummary() error = %v", err)
	}
	if second.Summary != "Greeting exchange" || !second.Cached {
		t.Errorf("second = %+v", second)
	}
	if calls := completer.calls.Load(); calls != 1 {
		t.Errorf("completion calls = %d, want 1", calls)
	}
}

func TestGetOrCreateSummary_CachedSummaryNeverCallsService(t *testing.T) {
	store := setupStore(t)
	session := seedSession(t, store, "anything")
	if _, err := store.Sessions().SetSummaryIfEmpty(context.Background(), session.ID, "already here"); err != nil {
		t.Fatalf("SetSummaryIfEmpty() error = %v", err)
	}

	completer := replying("new")
	svc := NewSummaryService(store, completer, nil, Options{}, nil)

	got, err := svc.GetOrCreateSummary(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("GetOrCreateSummary() error = %v", err)
	}
	if got.Summary != "already here" || !got.Cached || got.Reason != ReasonCached {
		t.Errorf("analysis = %+v", got)
	}
	if completer.calls.Load() != 0 {
		t.Error("completion service called despite a cached summary")
	}
}

func TestGetOrCreateSummary_AppendedTranscriptsKeepCache(t *testing.T) {
	store := setupStore(t)
	session := seedSession(t, store, "first words")
	completer := replying("Short chat")
	svc := NewSummaryService(store, completer, nil, Options{}, nil)
	ctx := context.Background()

	if _, err := svc.GetOrCreateSummary(ctx, session.ID); err != nil {
		t.Fatalf("GetOrCreateSummary() error = %v", err)
	}
	late := entities.NewTranscript(session.ID, session.UserID, "more words", time.Now().UTC())
	if err := store.Transcripts().Create(ctx, late); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, _ := svc.GetOrCreateSummary(ctx, session.ID)
	if got.Summary != "Short chat" || got.TranscriptCount != 2 {
		t.Errorf("analysis = %+v", got)
	}
	if completer.calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", completer.calls.Load())
	}
}

func TestGetOrCreateSummary_Placeholders(t *testing.T) {
	tests := []struct {
		name      string
		texts     []string
		completer *mockCompleter
		noClient  bool
		want      string
		reason    Reason
		wantCalls int32
	}{
		{
			name:     "no client",
			texts:    []string{"hi"},
			noClient: true,
			want:     PlaceholderNoClient,
			reason:   ReasonNoClient,
		},
		{
			name:      "empty session",
			completer: replying("unused"),
			want:      PlaceholderEmpty,
			reason:    ReasonEmpty,
		},
		{
			name:  "no choices",
			texts: []string{"hi"},
			completer: &mockCompleter{CompleteFunc: func(context.Context, []ai.Message) ([]string, error) {
				return nil, nil
			}},
			want:      PlaceholderNoChoices,
			reason:    ReasonNoChoices,
			wantCalls: 1,
		},
		{
			name:      "blank choice",
			texts:     []string{"hi"},
			completer: replying("   "),
			want:      PlaceholderNoChoices,
			reason:    ReasonNoChoices,
			wantCalls: 1,
		},
		{
			name:  "service error",
			texts: []string{"hi"},
			completer: &mockCompleter{CompleteFunc: func(context.Context, []ai.Message) ([]string, error) {
				return nil, errors.New("connection refused")
			}},
			want:      PlaceholderUnavailable,
			reason:    ReasonUnavailable,
			wantCalls: 1,
		},
		{
			name:  "timeout",
			texts: []string{"hi"},
			completer: &mockCompleter{CompleteFunc: func(ctx context.Context, _ []ai.Message) ([]string, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			}},
			want:      PlaceholderUnavailable,
			reason:    ReasonUnavailable,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupStore(t)
			session := seedSession(t, store, tt.texts...)

			var completer Completer
			if !tt.noClient {
				completer = tt.completer
			}
			svc := NewSummaryService(store, completer, nil, Options{Timeout: 50 * time.Millisecond}, nil)

			got, err := svc.GetOrCreateSummary(context.Background(), session.ID)
			if err != nil {
				t.Fatalf("GetOrCreateSummary() error = %v", err)
			}
			if got.Summary != tt.want || !got.Placeholder || got.Reason != tt.reason {
				t.Errorf("analysis = %+v, want %q", got, tt.want)
			}
			if tt.completer != nil && tt.completer.calls.Load() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", tt.completer.calls.Load(), tt.wantCalls)
			}

			stored, _ := store.Sessions().FindByID(context.Background(), session.ID)
			if stored.HasSummary() {
				t.Errorf("placeholder was stored: %q", stored.SummaryText())
			}
		})
	}
}

func TestGetOrCreateSummary_UnknownSession(t *testing.T) {
	svc := NewSummaryService(setupStore(t), replying("x"), nil, Options{}, nil)

	if _, err := svc.GetOrCreateSummary(context.Background(), uuid.New()); !errors.Is(err, ucerrors.ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestGetOrCreateSummary_ConcurrentCallsShareOneCompletion(t *testing.T) {
	store := setupStore(t)
	session := seedSession(t, store, "hello", "world")

	release := make(chan struct{})
	completer := &mockCompleter{
		CompleteFunc: func(context.Context, []ai.Message) ([]string, error) {
			<-release
			return []string{"Greeting exchange"}, nil
		},
	}
	svc := NewSummaryService(store, completer, cache.NewMemoryStore(), Options{Timeout: 5 * time.Second}, nil)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*Analysis, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = svc.GetOrCreateSummary(context.Background(), session.ID)
		}(i)
	}

	// wait until the first call is in flight before letting it finish
	for completer.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	close(release)
	wg.Wait()

	for i, r := range results {
		if r == nil || r.Summary != "Greeting exchange" {
			t.Fatalf("result[%d] = %+v", i, r)
		}
	}
	if calls := completer.calls.Load(); calls != 1 {
		t.Errorf("completion calls = %d, want 1", calls)
	}
}

func TestGetOrCreateSummary_LockHeldElsewhere(t *testing.T) {
	store := setupStore(t)
	session := seedSession(t, store, "hello")
	locker := cache.NewMemoryStore()
	defer locker.Close()

	ok, _ := locker.Acquire(context.Background(), "summary:"+session.ID.String(), "other-process", time.Minute)
	if !ok {
		t.Fatal("failed to pre-acquire lock")
	}

	completer := replying("never")
	svc := NewSummaryService(store, completer, locker, Options{}, nil)

	got, err := svc.GetOrCreateSummary(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("GetOrCreateSummary() error = %v", err)
	}
	if got.Summary != PlaceholderInProgress || got.Reason != ReasonInProgress {
		t.Errorf("analysis = %+v", got)
	}
	if completer.calls.Load() != 0 {
		t.Error("completion called while another process holds the lock")
	}
}

func TestBuildDocument(t *testing.T) {
	got := BuildDocument([]*entities.Transcript{{Text: "a"}, {Text: "b c"}})
	if got != "a\nb c" {
		t.Errorf("BuildDocument() = %q", got)
	}
	if BuildDocument(nil) != "" {
		t.Error("BuildDocument(nil) should be empty")
	}
}
