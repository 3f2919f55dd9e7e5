package identity

import (
	"context"
	"time"
)

// User is passage's canonical security principal.
// PasswordHash is only populated on credential-verification lookups and
// must never cross the API boundary.
type User struct {
	ID           string
	Email        string
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateUserInput describes a registration request.
// Email must already be shape-validated by the caller; the store normalizes
// it and enforces uniqueness.
type CreateUserInput struct {
	Email    string
	Password string
	Now      time.Time
}

// Store is the user persistence boundary.
//
// The advisory duplicate pre-check inside CreateUser is best-effort; the
// database unique constraint is the final arbiter under races, and
// implementations must map that violation to ErrConflict as well.
type Store interface {
	// CreateUser hashes the password and inserts a new user.
	// Returns ErrConflict when the normalized email is already registered.
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)

	// GetUserAuthByEmail looks up a user by normalized email, including the
	// password hash, for credential verification. Returns ErrNotFound when
	// no such user exists.
	GetUserAuthByEmail(ctx context.Context, email string) (User, error)

	// GetUserByID loads a user by ID with the password hash omitted.
	GetUserByID(ctx context.Context, id string) (User, error)
}
