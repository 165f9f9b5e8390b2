// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/pkg/errutil"
)

func TestNewSeedCmd(t *testing.T) {
	cmd := NewSeedCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "seed", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotNil(t, cmd.RunE)
}

func TestNewSeedCmd_Flags(t *testing.T) {
	cmd := NewSeedCmd()

	name, err := cmd.Flags().GetString("name")
	require.NoError(t, err)
	assert.Equal(t, "Admin", name)

	timeout, err := cmd.Flags().GetDuration("timeout")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout, "default timeout should be 30s")

	for _, flag := range []string{"email", "password"} {
		value, err := cmd.Flags().GetString(flag)
		require.NoError(t, err)
		assert.Empty(t, value, "%s should default to empty", flag)
	}
}

func TestRunSeed_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		cfg  *seedConfig
		want string
	}{
		{
			name: "missing email",
			cfg:  &seedConfig{name: "Admin", password: "secret123", timeout: time.Second},
			want: "email is required",
		},
		{
			name: "short password",
			cfg:  &seedConfig{name: "Admin", email: "admin@example.com", password: "123", timeout: time.Second},
			want: "password must be at least",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.SetContext(context.Background())
			cmd.SetOut(&bytes.Buffer{})

			err := runSeed(cmd, nil, tt.cfg)
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "AUTH_INVALID_INPUT")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunSeed_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	configFile = ""

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})

	cfg := &seedConfig{
		name:     "Admin",
		email:    "admin@example.com",
		password: "secret123",
		timeout:  30 * time.Second,
	}
	err := runSeed(cmd, nil, cfg)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	assert.Contains(t, err.Error(), "database URL")
}

func TestRunSeed_UnsupportedScheme(t *testing.T) {
	t.Setenv("DATABASE_URL", "invalid://not-a-valid-url")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	configFile = ""

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})

	cfg := &seedConfig{
		name:     "Admin",
		email:    "admin@example.com",
		password: "secret123",
		timeout:  30 * time.Second,
	}
	err := runSeed(cmd, nil, cfg)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
}
