package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/johnquangdev/voice-transcripts/internal/domain/repositories"
)

// Store bundles the GORM repositories over one connection or transaction
type Store struct {
	db          *gorm.DB
	users       *UserRepository
	sessions    *SessionRepository
	transcripts *TranscriptRepository
}

// NewStore creates a store over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		users:       NewUserRepository(db),
		sessions:    NewSessionRepository(db),
		transcripts: NewTranscriptRepository(db),
	}
}

func (s *Store) Users() repositories.UserRepository             { return s.users }
func (s *Store) Sessions() repositories.SessionRepository       { return s.sessions }
func (s *Store) Transcripts() repositories.TranscriptRepository { return s.transcripts }

// Transaction runs fn in a database transaction
func (s *Store) Transaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
