package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
	"github.com/johnquangdev/voice-transcripts/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/voice-transcripts/internal/usecase/errors"
)

// Identity is the user and session the recorder writes into
type Identity struct {
	UserID    uuid.UUID `json:"user_id"`
	SessionID uuid.UUID `json:"session_id"`
}

// IsZero reports whether the identity is unset
func (i Identity) IsZero() bool {
	return i.UserID == uuid.Nil && i.SessionID == uuid.Nil
}

// Service defines the interface for session use case
type Service interface {
	// EnsureSession returns the process session, creating the well-known user
	// and a new session on first use. roomHint is stored when non-empty.
	EnsureSession(ctx context.Context, roomHint string) (Identity, error)

	// UpdateSessionRoom records the room name on the established session
	UpdateSessionRoom(ctx context.Context, roomName string) error

	// Current returns the established identity, if any
	Current() (Identity, bool)

	// ListSessions returns all sessions newest first with transcript counts
	ListSessions(ctx context.Context) ([]*entities.SessionOverview, error)

	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, sessionID uuid.UUID) (*entities.Session, error)

	// ListTranscripts returns a session's transcripts in start-time order
	ListTranscripts(ctx context.Context, sessionID uuid.UUID) ([]*entities.Transcript, error)
}

// Ensure SessionService implements Service interface
var _ Service = (*SessionService)(nil)

// Options configures the well-known user and session tagging
type Options struct {
	Username string
	Email    string
	Source   string
	Now      func() time.Time
}

// SessionService owns the process-wide session state
type SessionService struct {
	store  repositories.Store
	opts   Options
	logger *zap.Logger

	current atomic.Pointer[Identity]
	mu      sync.Mutex
}

// NewSessionService creates a new session service
func NewSessionService(store repositories.Store, opts Options, logger *zap.Logger) *SessionService {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &SessionService{
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

// Current returns the established identity without touching the database
func (s *SessionService) Current() (Identity, bool) {
	if id := s.current.Load(); id != nil {
		return *id, true
	}
	return Identity{}, false
}

// EnsureSession lazily creates the user and session. Concurrent first calls
// serialize on the mutex so exactly one user and one session are created.
func (s *SessionService) EnsureSession(ctx context.Context, roomHint string) (Identity, error) {
	if id := s.current.Load(); id != nil {
		return *id, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id := s.current.Load(); id != nil {
		return *id, nil
	}

	roomHint = strings.TrimSpace(roomHint)
	var identity Identity
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().EnsureByUsername(ctx, s.opts.Username, s.opts.Email)
		if err != nil {
			return err
		}

		session := entities.NewSession(user.ID, s.opts.Source, roomHint, s.opts.Now())
		if err := tx.Sessions().Create(ctx, session); err != nil {
			return err
		}

		identity = Identity{UserID: user.ID, SessionID: session.ID}
		return nil
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to bootstrap session",
				zap.String("username", s.opts.Username),
				zap.String("room_hint", roomHint),
				zap.Error(err),
			)
		}
		return Identity{}, fmt.Errorf("%w: %w", ucerrors.ErrPersistence, err)
	}

	s.current.Store(&identity)

	if s.logger != nil {
		s.logger.Info("✅ Session established",
			zap.String("user_id", identity.UserID.String()),
			zap.String("session_id", identity.SessionID.String()),
			zap.String("room_name", roomHint),
		)
	}
	return identity, nil
}

// UpdateSessionRoom merges room_name into the session metadata
func (s *SessionService) UpdateSessionRoom(ctx context.Context, roomName string) error {
	roomName = strings.TrimSpace(roomName)
	if roomName == "" {
		return fmt.Errorf("%w: room name is required", ucerrors.ErrInvalidInput)
	}

	identity, ok := s.Current()
	if !ok {
		if s.logger != nil {
			s.logger.Warn("⚠️ Room update before session bootstrap", zap.String("room_name", roomName))
		}
		return ucerrors.ErrNotBootstrapped
	}

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		session, err := tx.Sessions().FindByID(ctx, identity.SessionID)
		if err != nil {
			return err
		}
		session.SetRoomName(roomName)
		return tx.Sessions().UpdateMetadata(ctx, session)
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to update session room",
				zap.String("session_id", identity.SessionID.String()),
				zap.String("room_name", roomName),
				zap.Error(err),
			)
		}
		return translateStoreError(err)
	}

	if s.logger != nil {
		s.logger.Info("🏷️ Session room updated",
			zap.String("session_id", identity.SessionID.String()),
			zap.String("room_name", roomName),
		)
	}
	return nil
}

// ListSessions returns all sessions newest first with transcript counts
func (s *SessionService) ListSessions(ctx context.Context) ([]*entities.SessionOverview, error) {
	sessions, err := s.store.Sessions().ListWithTranscriptCounts(ctx)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return sessions, nil
}

// GetSession retrieves a session by ID
func (s *SessionService) GetSession(ctx context.Context, sessionID uuid.UUID) (*entities.Session, error) {
	session, err := s.store.Sessions().FindByID(ctx, sessionID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return session, nil
}

// ListTranscripts returns a session's transcripts; unknown sessions are reported as not found
func (s *SessionService) ListTranscripts(ctx context.Context, sessionID uuid.UUID) ([]*entities.Transcript, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	transcripts, err := s.store.Transcripts().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return transcripts, nil
}

func translateStoreError(err error) error {
	if errors.Is(err, entities.ErrSessionNotFound) {
		return ucerrors.ErrSessionNotFound
	}
	return fmt.Errorf("%w: %w", ucerrors.ErrPersistence, err)
}
