package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
	"github.com/johnquangdev/voice-transcripts/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/voice-transcripts/internal/usecase/errors"
	"github.com/johnquangdev/voice-transcripts/pkg/ai"
)

// Prompt sent to the completion service
const (
	SystemPrompt     = "You are a helpful assistant that summarizes text concisely."
	UserPromptPrefix = "Please summarize the following transcript:\n\n"
)

// Placeholders returned as summary text when no summary can be produced
const (
	PlaceholderNoClient    = "LLM client not initialized. Cannot generate summary."
	PlaceholderEmpty       = "No text to summarize."
	PlaceholderNoChoices   = "LLM returned no choices for summary."
	PlaceholderUnavailable = "LLM service unavailable. Cannot generate summary."
	PlaceholderInProgress  = "Summary generation already in progress."
)

// Reason explains where a summary came from
type Reason string

const (
	ReasonGenerated   Reason = "generated"
	ReasonCached      Reason = "cached"
	ReasonNoClient    Reason = "no_client"
	ReasonEmpty       Reason = "empty"
	ReasonNoChoices   Reason = "no_choices"
	ReasonUnavailable Reason = "unavailable"
	ReasonInProgress  Reason = "in_progress"
)

var placeholders = map[Reason]string{
	ReasonNoClient:    PlaceholderNoClient,
	ReasonEmpty:       PlaceholderEmpty,
	ReasonNoChoices:   PlaceholderNoChoices,
	ReasonUnavailable: PlaceholderUnavailable,
	ReasonInProgress:  PlaceholderInProgress,
}

// Analysis is the summary of one session plus the document it was built from
type Analysis struct {
	SessionID       uuid.UUID `json:"session_id"`
	TranscriptCount int       `json:"transcript_count"`
	TotalCharacters int       `json:"total_characters"`
	Summary         string    `json:"summary"`
	Cached          bool      `json:"cached"`
	Placeholder     bool      `json:"placeholder"`
	Reason          Reason    `json:"reason"`
	Document        string    `json:"combined_text"`
}

// Completer produces chat completions; every returned string is one choice
type Completer interface {
	Complete(ctx context.Context, messages []ai.Message) ([]string, error)
}

// Locker guards generation across processes
type Locker interface {
	Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, token string) error
}

// Service defines the interface for the summary use case
type Service interface {
	// GetOrCreateSummary returns the stored summary or generates and stores one.
	// The only error besides read failures is ErrSessionNotFound.
	GetOrCreateSummary(ctx context.Context, sessionID uuid.UUID) (*Analysis, error)
}

// Ensure SummaryService implements Service interface
var _ Service = (*SummaryService)(nil)

// Options tunes generation
type Options struct {
	// Timeout bounds one completion call
	Timeout time.Duration
	// LockTTL bounds how long another process is kept out
	LockTTL time.Duration
}

// SummaryService caches per-session summaries in sessions.summary
type SummaryService struct {
	store     repositories.Store
	completer Completer
	locker    Locker
	opts      Options
	logger    *zap.Logger
	group     singleflight.Group
}

// NewSummaryService creates a summary service. completer and locker may be nil.
func NewSummaryService(store repositories.Store, completer Completer, locker Locker, opts Options, logger *zap.Logger) *SummaryService {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = opts.Timeout + 10*time.Second
	}
	return &SummaryService{
		store:     store,
		completer: completer,
		locker:    locker,
		opts:      opts,
		logger:    logger,
	}
}

// GetOrCreateSummary implements Service
func (s *SummaryService) GetOrCreateSummary(ctx context.Context, sessionID uuid.UUID) (*Analysis, error) {
	session, err := s.store.Sessions().FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, entities.ErrSessionNotFound) {
			return nil, ucerrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %w", ucerrors.ErrPersistence, err)
	}

	transcripts, err := s.store.Transcripts().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ucerrors.ErrPersistence, err)
	}

	document := BuildDocument(transcripts)
	analysis := &Analysis{
		SessionID:       sessionID,
		TranscriptCount: len(transcripts),
		TotalCharacters: utf8.RuneCountInString(document),
		Document:        document,
	}

	if session.HasSummary() {
		analysis.Summary = session.SummaryText()
		analysis.Cached = true
		analysis.Reason = ReasonCached
		return analysis, nil
	}

	if s.completer == nil {
		return withPlaceholder(analysis, ReasonNoClient), nil
	}
	if strings.TrimSpace(document) == "" {
		return withPlaceholder(analysis, ReasonEmpty), nil
	}

	v, _, _ := s.group.Do(sessionID.String(), func() (interface{}, error) {
		return s.generate(context.WithoutCancel(ctx), sessionID, document), nil
	})
	res := v.(result)

	if res.reason != ReasonGenerated && res.reason != ReasonCached {
		return withPlaceholder(analysis, res.reason), nil
	}
	analysis.Summary = res.text
	analysis.Cached = res.reason == ReasonCached
	analysis.Reason = res.reason
	return analysis, nil
}

// BuildDocument joins transcript texts in order, one per line
func BuildDocument(transcripts []*entities.Transcript) string {
	texts := make([]string, 0, len(transcripts))
	for _, t := range transcripts {
		texts = append(texts, t.Text)
	}
	return strings.Join(texts, "\n")
}

type result struct {
	text   string
	reason Reason
}

// generate runs once per session at a time inside this process. It takes the
// cross-process lock, calls the completion service, then stores the text with
// a compare-and-set so the first stored summary wins.
func (s *SummaryService) generate(ctx context.Context, sessionID uuid.UUID, document string) result {
	lockKey := "summary:" + sessionID.String()
	token := uuid.NewString()

	if s.locker != nil {
		acquired, err := s.locker.Acquire(ctx, lockKey, token, s.opts.LockTTL)
		if err != nil {
			// lock backend down: generate anyway, the CAS write still picks one winner
			if s.logger != nil {
				s.logger.Warn("⚠️ Summary lock unavailable", zap.String("session_id", sessionID.String()), zap.Error(err))
			}
		} else if !acquired {
			if stored, ok := s.storedSummary(ctx, sessionID); ok {
				return result{text: stored, reason: ReasonCached}
			}
			return result{reason: ReasonInProgress}
		} else {
			defer func() {
				if err := s.locker.Release(ctx, lockKey, token); err != nil && s.logger != nil {
					s.logger.Warn("⚠️ Failed to release summary lock", zap.String("session_id", sessionID.String()), zap.Error(err))
				}
			}()
		}
	}

	// another caller may have finished while this one waited
	if stored, ok := s.storedSummary(ctx, sessionID); ok {
		return result{text: stored, reason: ReasonCached}
	}

	text, reason := s.complete(ctx, sessionID, document)
	if reason != ReasonGenerated {
		return result{reason: reason}
	}

	wrote, err := s.store.Sessions().SetSummaryIfEmpty(ctx, sessionID, text)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to store summary",
				zap.String("session_id", sessionID.String()),
				zap.Error(err),
			)
		}
		return result{text: text, reason: ReasonGenerated}
	}
	if !wrote {
		if stored, ok := s.storedSummary(ctx, sessionID); ok {
			return result{text: stored, reason: ReasonCached}
		}
	}

	if s.logger != nil {
		s.logger.Info("✅ Summary generated and saved",
			zap.String("session_id", sessionID.String()),
			zap.Int("summary_length", len(text)),
		)
	}
	return result{text: text, reason: ReasonGenerated}
}

func (s *SummaryService) complete(ctx context.Context, sessionID uuid.UUID, document string) (string, Reason) {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	choices, err := s.completer.Complete(callCtx, []ai.Message{
		{Role: ai.RoleSystem, Content: SystemPrompt},
		{Role: ai.RoleUser, Content: UserPromptPrefix + document},
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Completion call failed",
				zap.String("session_id", sessionID.String()),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
		}
		return "", ReasonUnavailable
	}

	if len(choices) == 0 {
		return "", ReasonNoChoices
	}
	text := strings.TrimSpace(choices[0])
	if text == "" {
		return "", ReasonNoChoices
	}
	return text, ReasonGenerated
}

func (s *SummaryService) storedSummary(ctx context.Context, sessionID uuid.UUID) (string, bool) {
	session, err := s.store.Sessions().FindByID(ctx, sessionID)
	if err != nil || !session.HasSummary() {
		return "", false
	}
	return session.SummaryText(), true
}

func withPlaceholder(a *Analysis, reason Reason) *Analysis {
	a.Summary = placeholders[reason]
	a.Placeholder = true
	a.Reason = reason
	return a
}
