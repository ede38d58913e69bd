package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
	"github.com/johnquangdev/voice-transcripts/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/voice-transcripts/internal/usecase/errors"
)

// ObjectStore is the part of the object storage client used for exports
type ObjectStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	ListFiles(ctx context.Context, prefix string) ([]string, error)
}

// Document is the JSON written for one exported session
type Document struct {
	Session     *entities.Session      `json:"session"`
	Transcripts []*entities.Transcript `json:"transcripts"`
	ExportedAt  time.Time              `json:"exported_at"`
}

// Result describes an uploaded export
type Result struct {
	SessionID       uuid.UUID `json:"session_id"`
	ObjectName      string    `json:"object_name"`
	URL             string    `json:"url"`
	ExpiresAt       time.Time `json:"expires_at"`
	TranscriptCount int       `json:"transcript_count"`
}

// Service defines the interface for the export use case
type Service interface {
	ExportSession(ctx context.Context, sessionID uuid.UUID) (*Result, error)
	ListExports(ctx context.Context, sessionID uuid.UUID) ([]string, error)
}

// Ensure ExportService implements Service interface
var _ Service = (*ExportService)(nil)

// ExportService writes session snapshots to object storage
type ExportService struct {
	store   repositories.Store
	objects ObjectStore
	expiry  time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewExportService creates an export service. A nil objects store disables exports.
func NewExportService(store repositories.Store, objects ObjectStore, expiry time.Duration, logger *zap.Logger) *ExportService {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &ExportService{
		store:   store,
		objects: objects,
		expiry:  expiry,
		now:     time.Now,
		logger:  logger,
	}
}

// ExportSession uploads the session, its transcripts and any cached summary as JSON
func (s *ExportService) ExportSession(ctx context.Context, sessionID uuid.UUID) (*Result, error) {
	if s.objects == nil {
		return nil, ucerrors.ErrStorageUnavailable
	}

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

	now := s.now().UTC()
	payload, err := json.MarshalIndent(Document{
		Session:     session,
		Transcripts: transcripts,
		ExportedAt:  now,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode export: %w", ucerrors.ErrInternalError, err)
	}

	objectName := ObjectName(sessionID, now)
	if err := s.objects.UploadFile(ctx, objectName, bytes.NewReader(payload), int64(len(payload)), "application/json"); err != nil {
		return nil, fmt.Errorf("%w: %w", ucerrors.ErrStorageUnavailable, err)
	}

	url, err := s.objects.GetFileURL(ctx, objectName, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ucerrors.ErrStorageUnavailable, err)
	}

	if s.logger != nil {
		s.logger.Info("📦 Session exported",
			zap.String("session_id", sessionID.String()),
			zap.String("object", objectName),
			zap.Int("transcripts", len(transcripts)),
		)
	}

	return &Result{
		SessionID:       sessionID,
		ObjectName:      objectName,
		URL:             url,
		ExpiresAt:       now.Add(s.expiry),
		TranscriptCount: len(transcripts),
	}, nil
}

// ListExports returns the object names previously exported for a session
func (s *ExportService) ListExports(ctx context.Context, sessionID uuid.UUID) ([]string, error) {
	if s.objects == nil {
		return nil, ucerrors.ErrStorageUnavailable
	}
	files, err := s.objects.ListFiles(ctx, Prefix(sessionID))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ucerrors.ErrStorageUnavailable, err)
	}
	return files, nil
}

// Prefix is the object key prefix of every export of a session
func Prefix(sessionID uuid.UUID) string {
	return "sessions/" + sessionID.String() + "/"
}

// ObjectName builds a sortable object key for one export
func ObjectName(sessionID uuid.UUID, at time.Time) string {
	return Prefix(sessionID) + "transcript-" + at.UTC().Format("20060102T150405Z") + ".json"
}
