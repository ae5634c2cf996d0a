package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallHook(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "hooks")

	state, err := inspectHook(dir, "pre-commit")
	require.NoError(t, err)
	assert.Equal(t, hookMissing, state)

	path, err := installHook(dir, "pre-commit", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pre-commit"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o100, "hook must be executable")

	state, err = inspectHook(dir, "pre-commit")
	require.NoError(t, err)
	assert.Equal(t, hookInstalled, state)

	// reinstalling our own hook needs no force
	_, err = installHook(dir, "pre-commit", false)
	assert.NoError(t, err)
}

func TestInstallHookForeign(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commit-msg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o644))

	state, err := inspectHook(dir, "commit-msg")
	require.NoError(t, err)
	assert.Equal(t, hookForeign, state)

	_, err = installHook(dir, "commit-msg", false)
	assert.EqualError(t, err, "a commit-msg hook already exists; use --force to replace it")

	_, err = installHook(dir, "commit-msg", true)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `static-review commit-msg "$1"`)
}

func TestInstallUnknownHook(t *testing.T) {
	_, err := installHook(t.TempDir(), "post-merge", false)
	assert.EqualError(t, err, `unknown hook "post-merge"`)
}

func TestHookNames(t *testing.T) {
	assert.Equal(t, []string{"commit-msg", "pre-commit"}, hookNames())
}
