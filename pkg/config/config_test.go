package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), reloaded)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[index]
backend = "btree"
shuffle = false
seed = 42

[query]
cost_factor = 3
sorted = true

[cli]
prompt = "?"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "btree", cfg.Index.Backend)
	assert.False(t, cfg.Index.Shuffle)
	assert.Equal(t, int64(42), cfg.Index.Seed)
	assert.Equal(t, 0.01, cfg.Index.BloomFPRate, "missing keys keep defaults")
	assert.Equal(t, 3, cfg.Query.CostFactor)
	assert.True(t, cfg.Query.Sorted)
	assert.Equal(t, 1000, cfg.Server.MaxLimit)
	assert.Equal(t, "?", cfg.CLI.Prompt)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// cost_factor has the wrong type, so strict decoding fails
	path := writeConfig(t, `
[index]
backend = "hash"
bloom_fp_rate = 0

[query]
cost_factor = "lots"
max_results = 7

[server]
max_pattern = 64
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "hash", cfg.Index.Backend)
	assert.Equal(t, 0.0, cfg.Index.BloomFPRate)
	assert.Equal(t, 2, cfg.Query.CostFactor)
	assert.Equal(t, 7, cfg.Query.MaxResults)
	assert.Equal(t, 64, cfg.Server.MaxPattern)
	assert.Equal(t, 1000, cfg.Server.MaxLimit)
}

func TestLoadConfigUnparsable(t *testing.T) {
	path := writeConfig(t, "[index\nbackend = ")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, "[server]\nmax_limit = 5\n")
	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 5, cfg.Server.MaxLimit)
}

func TestGetActiveConfigPath(t *testing.T) {
	abs := GetActiveConfigPath("config.toml")
	assert.True(t, filepath.IsAbs(abs))
}
