package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a panel user with login credentials. The remote data
// service only sees the string form of the ID (posts carry it as user_id).
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the session-derived view of the current user that the
// gateway's currentUser lookup returns. Posts created through the panel are
// stamped with both fields.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Identity returns the gateway identity for this user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID.String(), Email: u.Email}
}
