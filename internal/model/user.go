package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MaxFailedLogins is the number of consecutive failed login attempts after
// which an account is locked. Once the counter reaches this value the
// password is no longer verified until a successful security-answer reset.
const MaxFailedLogins = 3

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
	// IncrementFailedLogins atomically bumps the failed-attempt counter and
	// returns the new value. A single statement so concurrent failures
	// cannot under-count.
	IncrementFailedLogins(ctx context.Context, id uuid.UUID) (int, error)
	ResetFailedLogins(ctx context.Context, id uuid.UUID) error
}

// PasswordHasher is a one-way hash/verify capability used for passwords
// and security answers.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// User represents a stored user with credential material.
// SecurityQuestion and SecurityAnswerHash are set together or not at all.
type User struct {
	ID                  uuid.UUID
	FullName            string
	Email               string
	PasswordHash        string
	ProfileImageURL     string
	Currency            string
	SecurityQuestion    string
	SecurityAnswerHash  string
	FailedLoginAttempts int
	CompletedTours      []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Locked reports whether the account is in the locked state.
func (u User) Locked() bool {
	return u.FailedLoginAttempts >= MaxFailedLogins
}

// HasSecurityQuestion reports whether a recovery question is configured.
func (u User) HasSecurityQuestion() bool {
	return u.SecurityQuestion != "" && u.SecurityAnswerHash != ""
}
