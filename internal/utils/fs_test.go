package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	require.NoError(t, SaveTOMLFile(map[string]int{"k": 1}, path))
	require.NoError(t, SaveTOMLFile(map[string]int{"k": 2}, path))
	assert.True(t, FileExists(path))

	var got map[string]int
	_, err := toml.DecodeFile(path, &got)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"k": 2}, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSaveTOMLFileErrors(t *testing.T) {
	dir := t.TempDir()

	err := SaveTOMLFile(map[string]int{"k": 1}, filepath.Join(dir, "missing", "config.toml"))
	assert.Error(t, err)

	path := filepath.Join(dir, "config.toml")
	assert.Error(t, SaveTOMLFile(42, path), "a bare integer is not a TOML document")
	assert.False(t, FileExists(path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "x", "y")
	status := CheckDirStatus(dir)
	assert.True(t, status.Exists)
	assert.True(t, status.Writable)
	assert.NoError(t, status.Err)
	assert.False(t, FileExists(dir), "directories are not files")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "write probe is removed")

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	status = CheckDirStatus(filepath.Join(blocker, "sub"))
	assert.False(t, status.Exists)
	assert.False(t, status.Writable)
	assert.Error(t, status.Err)
}

func TestGetAbsolutePath(t *testing.T) {
	assert.Equal(t, "unknown", GetAbsolutePath(""))
	assert.True(t, filepath.IsAbs(GetAbsolutePath("config.toml")))
	assert.Equal(t, "/etc/x.toml", GetAbsolutePath("/etc/x.toml"))
}
