// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package auth provides the authentication and session core for Gatehouse.
//
// # Domain Types
//
// Domain types (User, Session) should be created using their respective
// constructors:
//   - NewUser - creates a User with a validated name, email, and password hash
//   - NewSession - creates a Session with a validated snapshot and expiry
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors.
//
// # Services
//
// Service types coordinate domain operations:
//   - Service - signup, login, logout, role toggling
//   - SessionManager - issues, reads, and destroys server-side sessions
//
// Both are stateless: all durable state lives behind UserRepository and
// SessionRepository. Password hashing is the only CPU-bound step; it runs on
// the calling goroutine and never blocks other connections.
package auth
