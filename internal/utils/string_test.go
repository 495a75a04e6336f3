package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReverse(t *testing.T) {
	testCases := map[string]string{
		"":        "",
		"a":       "a",
		"help":    "pleh",
		"übel":    "lebü",
		"日本語":     "語本日",
		"abc\x00d": "d\x00cba",
	}
	for in, expected := range testCases {
		assert.Equal(t, expected, Reverse(in))
		assert.Equal(t, in, Reverse(Reverse(in)))
	}
}

func TestFormatWithCommas(t *testing.T) {
	testCases := []struct {
		n        int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, FormatWithCommas(tc.n))
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.0 KiB", FormatBytes(1024))
	assert.Equal(t, "1.5 KiB", FormatBytes(1536))
	assert.Equal(t, "2.0 MiB", FormatBytes(2<<20))
}
