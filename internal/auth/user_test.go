// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth_test

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/auth"
)

func TestNewUser(t *testing.T) {
	t.Run("defaults to user role", func(t *testing.T) {
		user, err := auth.NewUser("Ann", "ann@x.com", "hash")
		require.NoError(t, err)
		assert.Equal(t, auth.RoleUser, user.Role)
		assert.NotEqual(t, ulid.ULID{}, user.ID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := auth.NewUser("", "ann@x.com", "hash")
		assert.Error(t, err)
		_, err = auth.NewUser("Ann", "", "hash")
		assert.Error(t, err)
		_, err = auth.NewUser("Ann", "ann@x.com", "")
		assert.Error(t, err)
	})
}

func TestUser_Snapshot(t *testing.T) {
	user, err := auth.NewUser("Ann", "ann@x.com", "hash")
	require.NoError(t, err)

	snapshot := user.Snapshot()
	assert.Equal(t, user.ID, snapshot.ID)
	assert.Equal(t, user.Name, snapshot.Name)
	assert.Equal(t, user.Role, snapshot.Role)

	// The snapshot is a copy; mutating the record does not change it.
	user.Role = auth.RoleAdmin
	assert.Equal(t, auth.RoleUser, snapshot.Role)
}

func TestRole_Toggled(t *testing.T) {
	assert.Equal(t, auth.RoleAdmin, auth.RoleUser.Toggled())
	assert.Equal(t, auth.RoleUser, auth.RoleAdmin.Toggled())

	// Toggle twice yields the original role.
	assert.Equal(t, auth.RoleUser, auth.RoleUser.Toggled().Toggled())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, auth.RoleUser.Valid())
	assert.True(t, auth.RoleAdmin.Valid())
	assert.False(t, auth.Role("root").Valid())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ann@x.com", auth.NormalizeEmail("  Ann@X.Com "))
}
