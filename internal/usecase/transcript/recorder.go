package transcript

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
	"github.com/johnquangdev/voice-transcripts/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/voice-transcripts/internal/usecase/errors"
	"github.com/johnquangdev/voice-transcripts/internal/usecase/session"
)

// Fragment is one speech-to-text result handed over by the voice pipeline
type Fragment struct {
	Text       string
	Confidence *float64
	IsFinal    bool
	DurationMs *int
	Language   string
	Metadata   map[string]interface{}
}

// SessionProvider yields the session transcripts are written into
type SessionProvider interface {
	EnsureSession(ctx context.Context, roomHint string) (session.Identity, error)
}

// Service defines the interface for transcript recording
type Service interface {
	// Record persists one fragment into the current session
	Record(ctx context.Context, fragment Fragment) (*entities.Transcript, error)
}

// Ensure Recorder implements Service interface
var _ Service = (*Recorder)(nil)

// Options configures transcript tagging
type Options struct {
	Source string
	Now    func() time.Time
}

// Recorder writes fragments as transcripts, bootstrapping the session on demand
type Recorder struct {
	sessions SessionProvider
	store    repositories.Store
	opts     Options
	logger   *zap.Logger
}

// NewRecorder creates a new transcript recorder
func NewRecorder(sessions SessionProvider, store repositories.Store, opts Options, logger *zap.Logger) *Recorder {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Recorder{
		sessions: sessions,
		store:    store,
		opts:     opts,
		logger:   logger,
	}
}

// Record saves fragment in its own transaction. A failed write is returned
// to the caller and is not retried; the established session is kept.
func (r *Recorder) Record(ctx context.Context, fragment Fragment) (*entities.Transcript, error) {
	if strings.TrimSpace(fragment.Text) == "" {
		return nil, fmt.Errorf("%w: transcript text is empty", ucerrors.ErrInvalidInput)
	}

	identity, err := r.sessions.EnsureSession(ctx, "")
	if err != nil {
		return nil, err
	}

	transcript := r.build(identity, fragment)
	err = r.store.Transaction(ctx, func(tx repositories.Store) error {
		return tx.Transcripts().Create(ctx, transcript)
	})
	if err != nil {
		if r.logger != nil {
			r.logger.Error("❌ Failed to save transcript",
				zap.String("session_id", identity.SessionID.String()),
				zap.Bool("is_final", fragment.IsFinal),
				zap.Int("text_length", len(fragment.Text)),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("%w: %w", ucerrors.ErrPersistence, err)
	}

	if r.logger != nil {
		r.logger.Debug("📝 Transcript saved",
			zap.String("transcript_id", transcript.ID.String()),
			zap.String("session_id", identity.SessionID.String()),
			zap.Bool("is_final", transcript.IsFinal),
		)
	}
	return transcript, nil
}

func (r *Recorder) build(identity session.Identity, fragment Fragment) *entities.Transcript {
	now := r.opts.Now()
	t := entities.NewTranscript(identity.SessionID, identity.UserID, fragment.Text, now)
	t.Confidence = fragment.Confidence
	t.DurationMs = fragment.DurationMs
	if lang := strings.TrimSpace(fragment.Language); lang != "" {
		t.Language = lang
	}
	if fragment.IsFinal {
		t.MarkFinal(now)
	}

	if fragment.Metadata != nil {
		t.Metadata = datatypes.JSONMap(fragment.Metadata)
	} else {
		t.Metadata = datatypes.JSONMap{
			entities.MetaSource: r.opts.Source,
			entities.MetaType:   entities.TranscriptTypeUserSpeech,
		}
	}
	return t
}
