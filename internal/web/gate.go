// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package web

import (
	"errors"
	"net/http"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/samber/oops"
)

// Gate resolves the session cookie into a user snapshot for route
// protection. It distinguishes three cases: no usable session, a session for
// a regular user, and a session for an admin. Expired sessions are
// indistinguishable from absent ones.
type Gate struct {
	sessions *auth.SessionManager
}

// NewGate creates a Gate over the given session manager.
func NewGate(sessions *auth.SessionManager) (*Gate, error) {
	if sessions == nil {
		return nil, oops.Code("GATE_INVALID").Errorf("session manager is required")
	}
	return &Gate{sessions: sessions}, nil
}

// Optional resolves the session if one exists. Unauthenticated requests get
// a nil snapshot and no error; only storage failures propagate.
func (g *Gate) Optional(r *http.Request) (*auth.UserSnapshot, error) {
	user, err := g.sessions.Read(r.Context(), sessionToken(r))
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Require resolves the session or produces the outcome that ends the
// request: a redirect to redirectPath when unauthenticated, a failure on
// storage errors. The snapshot is non-nil exactly when the returned outcome
// is the zero value.
func (g *Gate) Require(r *http.Request, redirectPath string) (*auth.UserSnapshot, Outcome) {
	user, err := g.Optional(r)
	if err != nil {
		return nil, Fail(err)
	}
	if user == nil {
		return nil, Redirect(redirectPath)
	}
	return user, Outcome{}
}

// RequireAdmin resolves the session and checks the snapshot's role.
// Unauthenticated requests redirect to the login page; authenticated
// non-admins get the 403 page, never a redirect.
func (g *Gate) RequireAdmin(r *http.Request) (*auth.UserSnapshot, Outcome) {
	user, out := g.Require(r, "/login")
	if user == nil {
		return nil, out
	}
	if !user.IsAdmin() {
		return nil, RenderedStatus(http.StatusForbidden, ViewForbidden, nil)
	}
	return user, Outcome{}
}
