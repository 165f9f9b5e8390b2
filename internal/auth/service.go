// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service orchestrates signup, login, logout, and the admin role toggle.
// It owns no storage: users live behind UserRepository, sessions behind the
// SessionManager.
type Service struct {
	users    UserRepository
	sessions *SessionManager
	hasher   PasswordHasher
}

// NewService creates a Service.
func NewService(users UserRepository, sessions *SessionManager, hasher PasswordHasher) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("user repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("session manager is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("password hasher is required")
	}
	return &Service{users: users, sessions: sessions, hasher: hasher}, nil
}

// dummyPasswordHash is used when a user doesn't exist to prevent timing
// attacks: password verification still runs so response time does not reveal
// whether the email is registered. This is NOT a real credential - it is a
// fake bcrypt digest that will never match any password.
//
//nolint:gosec // G101: intentionally fake digest for timing attack prevention, not a credential.
const dummyPasswordHash = "$2a$12$abcdefghijklmnopqrstuvABCDEFGHIJKLMNOPQRSTUVWXYZabcde"

// Signup registers a new account and establishes a session for it.
// Returns the user snapshot captured into the session and the plaintext
// session token.
//
// Stage order: validate, uniqueness pre-check, hash, persist, session. The
// pre-check gives the friendly DuplicateEmail error; the repository's unique
// constraint closes the race when two identical signups interleave, and that
// violation surfaces as the same ErrDuplicateEmail.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*UserSnapshot, string, error) {
	in, err := in.Validate()
	if err != nil {
		return nil, "", err
	}

	_, err = s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, "", oops.Code("USER_DUPLICATE_EMAIL").
			With("email", NormalizeEmail(in.Email)).
			Wrap(ErrDuplicateEmail)
	case !errors.Is(err, ErrNotFound):
		return nil, "", oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "check email uniqueness").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(in.Name, in.Email, hash)
	if err != nil {
		return nil, "", oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "construct user").
			Wrap(err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			// Lost the race against a concurrent signup with the same email.
			return nil, "", oops.Code("USER_DUPLICATE_EMAIL").
				With("email", NormalizeEmail(in.Email)).
				Wrap(ErrDuplicateEmail)
		}
		return nil, "", oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "persist user").
			Wrap(err)
	}

	return s.establishSession(ctx, user, "AUTH_SIGNUP_FAILED")
}

// Login authenticates an existing account and establishes a session.
// Unknown email and failed verification both produce ErrInvalidCredentials;
// a dummy digest is verified when the user is absent so the two paths cost
// the same.
func (s *Service) Login(ctx context.Context, in LoginInput) (*UserSnapshot, string, error) {
	in, err := in.Validate()
	if err != nil {
		return nil, "", err
	}

	user, lookupErr := s.users.GetByEmail(ctx, in.Email)

	targetHash := dummyPasswordHash
	userExists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(in.Password, targetHash)
	if verifyErr != nil {
		if !userExists {
			// Dummy digest failed to parse; the outcome is the same.
			return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	return s.establishSession(ctx, user, "AUTH_LOGIN_FAILED")
}

// Logout destroys the session for the given token. Idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// ToggleRole flips the target user's role between user and admin and
// returns the updated record. Returns ErrNotFound if the target is absent.
// Existing sessions - including the caller's own - keep their snapshot; the
// new role takes effect when a session is next issued.
func (s *Service) ToggleRole(ctx context.Context, id ulid.ULID) (*User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("USER_NOT_FOUND").
				With("id", id.String()).
				Wrap(ErrNotFound)
		}
		return nil, oops.Code("AUTH_TOGGLE_FAILED").
			With("operation", "get user by id").
			With("id", id.String()).
			Wrap(err)
	}

	updated, err := s.users.SetRole(ctx, user.ID, user.Role.Toggled())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("USER_NOT_FOUND").
				With("id", id.String()).
				Wrap(ErrNotFound)
		}
		return nil, oops.Code("AUTH_TOGGLE_FAILED").
			With("operation", "set role").
			With("id", id.String()).
			Wrap(err)
	}
	return updated, nil
}

// ListUsers returns all registered users for the admin page.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, oops.Code("AUTH_LIST_FAILED").
			With("operation", "list users").
			Wrap(err)
	}
	return users, nil
}

// establishSession snapshots the user and issues a session for it.
func (s *Service) establishSession(ctx context.Context, user *User, failCode string) (*UserSnapshot, string, error) {
	snapshot := user.Snapshot()
	token, err := s.sessions.Create(ctx, snapshot)
	if err != nil {
		return nil, "", oops.Code(failCode).
			With("operation", "establish session").
			Wrap(err)
	}
	return &snapshot, token, nil
}
