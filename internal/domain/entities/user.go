package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the owner of recorded sessions. The recorder runs as a single
// well-known user created on first use.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username  string    `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	Email     *string   `json:"email,omitempty" gorm:"type:varchar(120);uniqueIndex"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// NewUser creates a new user; an empty email is stored as NULL
func NewUser(username, email string) *User {
	u := &User{
		ID:        uuid.New(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	if email = strings.TrimSpace(email); email != "" {
		u.Email = &email
	}
	return u
}

// Validate validates user data
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrInvalidName
	}
	return nil
}
