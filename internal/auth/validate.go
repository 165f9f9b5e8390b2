// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samber/oops"
)

// Signup field constraints. The password maximum is bcrypt's input limit:
// GenerateFromPassword rejects anything longer than 72 bytes, so the form
// must catch it as a validation error rather than a hashing failure.
const (
	MaxNameLength     = 30
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

// emailRegex accepts addresses of the shape local@domain.tld. It is a
// structural check, not an RFC 5322 parser; deliverability is out of scope.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// SignupInput is the raw signup form payload.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Validate trims and checks the payload, returning the normalized value or
// the first violated constraint as a human-readable error. Pure function;
// no side effects.
func (in SignupInput) Validate() (SignupInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if in.Name == "" {
		return SignupInput{}, oops.Code("AUTH_INVALID_INPUT").Errorf("name is required")
	}
	if utf8.RuneCountInString(in.Name) > MaxNameLength {
		return SignupInput{}, oops.Code("AUTH_INVALID_INPUT").
			With("max", MaxNameLength).
			Errorf("name must be at most %d characters", MaxNameLength)
	}
	if err := validateEmail(in.Email); err != nil {
		return SignupInput{}, err
	}
	if len(in.Password) < MinPasswordLength {
		return SignupInput{}, oops.Code("AUTH_INVALID_INPUT").
			With("min", MinPasswordLength).
			Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if len(in.Password) > MaxPasswordBytes {
		return SignupInput{}, oops.Code("AUTH_INVALID_INPUT").
			With("max", MaxPasswordBytes).
			Errorf("password must be at most %d characters", MaxPasswordBytes)
	}
	return in, nil
}

// LoginInput is the raw login form payload.
type LoginInput struct {
	Email    string
	Password string
}

// Validate trims and checks the payload, returning the normalized value or
// the first violated constraint as a human-readable error.
func (in LoginInput) Validate() (LoginInput, error) {
	in.Email = strings.TrimSpace(in.Email)

	if err := validateEmail(in.Email); err != nil {
		return LoginInput{}, err
	}
	if in.Password == "" {
		return LoginInput{}, oops.Code("AUTH_INVALID_INPUT").Errorf("password is required")
	}
	return in, nil
}

func validateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_INPUT").Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return oops.Code("AUTH_INVALID_INPUT").
			With("email", email).
			Errorf("email must be a valid address")
	}
	return nil
}
