// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when signup is attempted with an email that
// is already registered. The check is case-insensitive.
var ErrDuplicateEmail = errors.New("email already in use")

// ErrInvalidCredentials is returned on login when the email is unknown or
// the password does not verify. The two causes are deliberately
// indistinguishable so responses cannot be used as an account oracle.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrNoSession is returned when a session token is missing, unknown, or
// expired. Expired sessions are treated identically to absent ones.
var ErrNoSession = errors.New("no session")
