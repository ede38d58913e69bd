package voice

import (
	"context"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
	"github.com/johnquangdev/voice-transcripts/internal/infrastructure/external/livekit"
	"github.com/johnquangdev/voice-transcripts/internal/usecase/session"
	"github.com/johnquangdev/voice-transcripts/internal/usecase/transcript"
)

// Submitter accepts fragments without blocking
type Submitter interface {
	Submit(fragment transcript.Fragment) bool
}

// SessionBootstrapper establishes the session and records its room
type SessionBootstrapper interface {
	EnsureSession(ctx context.Context, roomHint string) (session.Identity, error)
	UpdateSessionRoom(ctx context.Context, roomName string) error
}

// Options controls which segments are recorded
type Options struct {
	Source        string
	RecordInterim bool
}

// Pipeline turns room transcription segments into recorded fragments
type Pipeline struct {
	sessions SessionBootstrapper
	queue    Submitter
	opts     Options
	logger   *zap.Logger
}

// NewPipeline creates a new voice pipeline
func NewPipeline(sessions SessionBootstrapper, queue Submitter, opts Options, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		sessions: sessions,
		queue:    queue,
		opts:     opts,
		logger:   logger,
	}
}

// Bootstrap creates the session seeded with roomName and makes sure the room
// is recorded even when the session already existed.
func (p *Pipeline) Bootstrap(ctx context.Context, roomName string) (session.Identity, error) {
	identity, err := p.sessions.EnsureSession(ctx, roomName)
	if err != nil {
		return session.Identity{}, err
	}
	if roomName != "" {
		if err := p.sessions.UpdateSessionRoom(ctx, roomName); err != nil {
			return identity, err
		}
	}

	if p.logger != nil {
		p.logger.Info("🎙️ Voice session ready",
			zap.String("session_id", identity.SessionID.String()),
			zap.String("room", roomName),
		)
	}
	return identity, nil
}

// HandleSegment is the listener callback. Interim segments are skipped unless
// configured.
func (p *Pipeline) HandleSegment(seg livekit.Segment) {
	if !seg.Final && !p.opts.RecordInterim {
		return
	}
	if !p.queue.Submit(FragmentFromSegment(seg, p.opts.Source)) && p.logger != nil {
		p.logger.Warn("⚠️ Segment dropped",
			zap.String("segment_id", seg.ID),
			zap.Bool("is_final", seg.Final),
		)
	}
}

// FragmentFromSegment builds the fragment recorded for seg
func FragmentFromSegment(seg livekit.Segment, source string) transcript.Fragment {
	metadata := map[string]interface{}{
		entities.MetaSource: source,
		entities.MetaType:   entities.TranscriptTypeUserSpeech,
	}
	if seg.Participant != "" {
		metadata[entities.MetaParticipant] = seg.Participant
	}
	if seg.ID != "" {
		metadata[entities.MetaSegmentID] = seg.ID
	}

	return transcript.Fragment{
		Text:       seg.Text,
		IsFinal:    seg.Final,
		DurationMs: seg.DurationMs(),
		Language:   seg.Language,
		Metadata:   metadata,
	}
}
