package livekit

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/livekit/protocol/auth"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-transcripts/pkg/config"
)

// Segment is one transcription update received from the room.
// StartTime and EndTime are milliseconds on the stream clock.
type Segment struct {
	ID          string
	Text        string
	Language    string
	Participant string
	Final       bool
	StartTime   uint64
	EndTime     uint64
	ReceivedAt  time.Time
}

// DurationMs returns the spoken duration when both bounds are known
func (s Segment) DurationMs() *int {
	if s.EndTime <= s.StartTime || s.StartTime == 0 {
		return nil
	}
	d := int(s.EndTime - s.StartTime)
	return &d
}

// SegmentHandler receives segments on the SDK callback goroutine and must not block
type SegmentHandler func(Segment)

// maxTrackedFinals bounds the set of final segment ids remembered for dedup
const maxTrackedFinals = 1024

// Listener joins a room as a hidden subscriber and forwards transcription segments
type Listener struct {
	cfg     config.LiveKitConfig
	handler SegmentHandler
	logger  *zap.Logger

	mu           sync.Mutex
	room         *lksdk.Room
	finals       map[string]struct{}
	disconnected chan struct{}
	closeOnce    sync.Once
}

// NewListener creates a listener for cfg.Room
func NewListener(cfg config.LiveKitConfig, handler SegmentHandler, logger *zap.Logger) *Listener {
	return &Listener{
		cfg:          cfg,
		handler:      handler,
		logger:       logger,
		finals:       make(map[string]struct{}),
		disconnected: make(chan struct{}),
	}
}

// GenerateToken generates the access token the listener joins with
func GenerateToken(cfg config.LiveKitConfig, validFor time.Duration) (string, error) {
	canPublish := false
	canSubscribe := true
	canPublishData := false

	at := auth.NewAccessToken(cfg.APIKey, cfg.APISecret)
	grant := &auth.VideoGrant{
		RoomJoin:       true,
		Room:           cfg.Room,
		Hidden:         true,
		CanPublish:     &canPublish,
		CanSubscribe:   &canSubscribe,
		CanPublishData: &canPublishData,
	}
	at.AddGrant(grant).
		SetIdentity(cfg.Identity).
		SetName(cfg.Identity).
		SetValidFor(validFor)

	token, err := at.ToJWT()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Connect joins the room. Segments are delivered until Close or a disconnect.
func (l *Listener) Connect() error {
	token, err := GenerateToken(l.cfg, 24*time.Hour)
	if err != nil {
		return err
	}

	cb := &lksdk.RoomCallback{
		OnDisconnected: l.markDisconnected,
		ParticipantCallback: lksdk.ParticipantCallback{
			OnTranscriptionReceived: l.onTranscription,
		},
	}

	room, err := lksdk.ConnectToRoomWithToken(l.cfg.URL, token, cb, lksdk.WithAutoSubscribe(false))
	if err != nil {
		return fmt.Errorf("failed to join room %s: %w", l.cfg.Room, err)
	}

	l.mu.Lock()
	l.room = room
	l.mu.Unlock()

	if l.logger != nil {
		l.logger.Info("🎧 Joined LiveKit room",
			zap.String("room", l.cfg.Room),
			zap.String("identity", l.cfg.Identity),
		)
	}
	return nil
}

// Disconnected is closed when the room connection ends
func (l *Listener) Disconnected() <-chan struct{} {
	return l.disconnected
}

// Close leaves the room
func (l *Listener) Close() {
	l.mu.Lock()
	room := l.room
	l.room = nil
	l.mu.Unlock()

	if room != nil {
		room.Disconnect()
	}
	l.markDisconnected()
}

func (l *Listener) markDisconnected() {
	l.closeOnce.Do(func() {
		close(l.disconnected)
		if l.logger != nil {
			l.logger.Info("👋 Left LiveKit room", zap.String("room", l.cfg.Room))
		}
	})
}

func (l *Listener) onTranscription(segments []*lksdk.TranscriptionSegment, p lksdk.Participant, _ lksdk.TrackPublication) {
	identity := ""
	if p != nil {
		identity = p.Identity()
	}

	for _, s := range segments {
		if s == nil || strings.TrimSpace(s.Text) == "" {
			continue
		}
		if s.Final && !l.trackFinal(s.ID) {
			continue
		}

		l.handler(Segment{
			ID:          s.ID,
			Text:        s.Text,
			Language:    s.Language,
			Participant: identity,
			Final:       s.Final,
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			ReceivedAt:  time.Now().UTC(),
		})
	}
}

// trackFinal reports whether id is seen as final for the first time
func (l *Listener) trackFinal(id string) bool {
	if id == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, seen := l.finals[id]; seen {
		return false
	}
	if len(l.finals) >= maxTrackedFinals {
		l.finals = make(map[string]struct{})
	}
	l.finals[id] = struct{}{}
	return true
}
