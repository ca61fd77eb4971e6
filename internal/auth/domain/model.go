package domain

import (
	"errors"
	"time"
)

// User represents an account in the application.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the authenticated principal carried by a session: an
// opaque user identifier plus email. It lives for the duration of the
// session and is discarded on logout.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
