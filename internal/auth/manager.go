// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
)

// SessionManager issues, reads, and destroys server-side sessions. It is
// stateless logic over a SessionRepository; the absolute expiry is fixed at
// issuance and never extended on activity.
type SessionManager struct {
	sessions SessionRepository
	ttl      time.Duration
}

// NewSessionManager creates a SessionManager. A non-positive ttl falls back
// to DefaultSessionTTL.
func NewSessionManager(sessions SessionRepository, ttl time.Duration) (*SessionManager, error) {
	if sessions == nil {
		return nil, oops.Code("SESSION_MANAGER_INVALID").Errorf("session repository is required")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{sessions: sessions, ttl: ttl}, nil
}

// TTL returns the session lifetime applied at issuance.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Create issues a new session for the given snapshot and returns the
// plaintext token for the client cookie. Only the token's hash is persisted.
func (m *SessionManager) Create(ctx context.Context, user UserSnapshot) (string, error) {
	token, tokenHash, err := GenerateSessionToken()
	if err != nil {
		return "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "generate session token").
			Wrap(err)
	}

	session, err := NewSession(user, tokenHash, time.Now().Add(m.ttl))
	if err != nil {
		return "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "construct session").
			Wrap(err)
	}

	if err := m.sessions.Create(ctx, session); err != nil {
		return "", oops.Code("SESSION_STORE_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}
	return token, nil
}

// Read resolves a token to its user snapshot. Missing, malformed, and
// expired tokens all yield ErrNoSession; an expired row is removed
// best-effort so it cannot be resurrected.
func (m *SessionManager) Read(ctx context.Context, token string) (*UserSnapshot, error) {
	if token == "" {
		return nil, oops.Code("SESSION_INVALID").Wrap(ErrNoSession)
	}

	session, err := m.sessions.GetByTokenHash(ctx, HashSessionToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("SESSION_INVALID").Wrap(ErrNoSession)
		}
		return nil, oops.Code("SESSION_STORE_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}

	if session.IsExpired() {
		_ = m.sessions.Delete(ctx, session.TokenHash) //nolint:errcheck // Lazy cleanup, read outcome is the same
		return nil, oops.Code("SESSION_EXPIRED").Wrap(ErrNoSession)
	}

	user := session.User
	return &user, nil
}

// Destroy removes the session for the given token. Idempotent: destroying
// an unknown or already-destroyed session is not an error.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.sessions.Delete(ctx, HashSessionToken(token)); err != nil {
		return oops.Code("SESSION_STORE_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	return nil
}
