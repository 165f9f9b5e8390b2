// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/auth"
)

// testCost keeps hashing fast in tests; production uses DefaultBcryptCost.
const testCost = 4

func TestHashPassword(t *testing.T) {
	hasher := auth.NewBcryptHasher(testCost)

	t.Run("produces valid bcrypt digest", func(t *testing.T) {
		hash, err := hasher.Hash("password123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$2a$"))
	})

	t.Run("different passwords produce different hashes", func(t *testing.T) {
		hash1, err := hasher.Hash("password1")
		require.NoError(t, err)
		hash2, err := hasher.Hash("password2")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("same password produces different hashes (salt)", func(t *testing.T) {
		hash1, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		hash2, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)

		ok, err := hasher.Verify("samepassword", hash1)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = hasher.Verify("samepassword", hash2)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash("")
		assert.Error(t, err)
	})
}

func TestVerifyPassword(t *testing.T) {
	hasher := auth.NewBcryptHasher(testCost)

	t.Run("correct password verifies", func(t *testing.T) {
		hash, err := hasher.Hash("correctpassword")
		require.NoError(t, err)

		ok, err := hasher.Verify("correctpassword", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("incorrect password fails without error", func(t *testing.T) {
		hash, err := hasher.Hash("correctpassword")
		require.NoError(t, err)

		ok, err := hasher.Verify("wrongpassword", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed digest errors", func(t *testing.T) {
		ok, err := hasher.Verify("anything", "not-a-bcrypt-digest")
		require.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("password beyond bcrypt limit mismatches without error", func(t *testing.T) {
		hash, err := hasher.Hash("correctpassword")
		require.NoError(t, err)

		ok, err := hasher.Verify(strings.Repeat("a", 100), hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestNewBcryptHasher_CostClamping(t *testing.T) {
	// Out-of-range costs fall back to the default rather than failing at
	// hash time.
	for _, cost := range []int{-1, 0, 3, 32} {
		hasher := auth.NewBcryptHasher(cost)
		hash, err := hasher.Hash("password123")
		require.NoError(t, err, "cost %d", cost)
		assert.Contains(t, hash, "$12$", "cost %d should clamp to default", cost)
	}
}
