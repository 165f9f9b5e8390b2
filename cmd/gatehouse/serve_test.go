// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/pkg/errutil"
)

func TestNewServeCmd(t *testing.T) {
	cmd := NewServeCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "serve", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	for _, flag := range []string{"http.addr", "metrics.addr", "session.ttl", "password.cost", "log.format"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %q", flag)
	}
}

func TestRunServe_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	configFile = ""

	cmd := NewServeCmd()
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})

	err := runServe(cmd)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	assert.Contains(t, err.Error(), "database URL")
}

func TestRunServe_InvalidDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "invalid://not-a-valid-url")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	configFile = ""

	cmd := NewServeCmd()
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})

	err := runServe(cmd)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
}

func TestRunServe_InvalidLogFormat(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	configFile = ""

	cmd := NewServeCmd()
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, cmd.Flags().Set("log.format", "xml"))

	err := runServe(cmd)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	assert.Contains(t, err.Error(), "log.format")
}
