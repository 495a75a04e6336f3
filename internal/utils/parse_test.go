package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTOMLWithRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte("[a]\nn = 3\nf = 0.5\ng = 2\nb = true\ns = \"x\"\n"), 0644))

	data, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)

	section, ok := ExtractSection(data, "a")
	require.True(t, ok)
	_, ok = ExtractSection(data, "missing")
	assert.False(t, ok)

	n, ok := ExtractInt64(section, "n")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	f, ok := ExtractFloat(section, "f")
	assert.True(t, ok)
	assert.Equal(t, 0.5, f)
	g, ok := ExtractFloat(section, "g")
	assert.True(t, ok)
	assert.Equal(t, 2.0, g)

	b, ok := ExtractBool(section, "b")
	assert.True(t, ok)
	assert.True(t, b)

	s, ok := ExtractString(section, "s")
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = ExtractString(section, "n")
	assert.False(t, ok)
}
