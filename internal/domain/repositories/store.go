package repositories

import "context"

// Store groups the repositories and runs work inside one transaction
type Store interface {
	Users() UserRepository
	Sessions() SessionRepository
	Transcripts() TranscriptRepository

	// Transaction runs fn against a transactional Store. The transaction
	// commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
