// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Role classifies a user account.
type Role string

// Account roles. New accounts default to RoleUser; RoleAdmin unlocks the
// admin page and the role toggle.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Toggled returns the opposite role.
func (r Role) Toggled() Role {
	if r == RoleAdmin {
		return RoleUser
	}
	return RoleAdmin
}

// User represents a registered account. Role is the only field that mutates
// after creation, via UserRepository.SetRole.
type User struct {
	ID           ulid.ULID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a validated User with a fresh ID and the default role.
// The caller provides an already-computed password hash; plaintext passwords
// never reach this constructor.
func NewUser(name, email, passwordHash string) (*User, error) {
	if name == "" {
		return nil, oops.Code("USER_INVALID_NAME").Errorf("name cannot be empty")
	}
	if email == "" {
		return nil, oops.Code("USER_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code("USER_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	now := time.Now().UTC()
	return &User{
		ID:           ulid.Make(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Snapshot captures the session-facing view of the user. The copy is taken
// at signup/login time and is NOT refreshed when the user record changes;
// a role toggle becomes visible only once the session is re-issued.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:   u.ID,
		Name: u.Name,
		Role: u.Role,
	}
}

// NormalizeEmail lowercases an email for comparison. Storage keeps the
// original casing; lookups and the uniqueness index compare normalized.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserRepository manages user persistence. Implementations must enforce
// email uniqueness atomically at the storage layer: the service's
// GetByEmail pre-check alone leaves a check-then-act gap under concurrent
// signups.
type UserRepository interface {
	// Create stores a new user. Returns ErrDuplicateEmail if another user
	// already holds the same normalized email.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByEmail retrieves a user by email (case-insensitive).
	// Returns ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// SetRole updates a user's role and returns the updated record.
	// Returns ErrNotFound if the id is absent.
	SetRole(ctx context.Context, id ulid.ULID, role Role) (*User, error)

	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]*User, error)
}
