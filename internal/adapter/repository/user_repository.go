package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
)

// UserRepository implements the user repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// EnsureByUsername returns the user named username, inserting it when absent.
// A concurrent insert of the same username is absorbed by the unique index.
func (r *UserRepository) EnsureByUsername(ctx context.Context, username, email string) (*entities.User, error) {
	user, err := r.FindByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if err != entities.ErrUserNotFound {
		return nil, err
	}

	candidate := entities.NewUser(username, email)
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
		Create(candidate).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return r.FindByUsername(ctx, username)
}

// FindByUsername finds a user by username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return &user, nil
}
