// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")

	require.NoError(t, AtomicWriteFile(path, []byte(`{"ok":true}`), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))

	// Overwrite replaces content fully.
	require.NoError(t, AtomicWriteFile(path, []byte("v2"), 0o600))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"shorter than limit", "hola", 10, "hola"},
		{"exactly at limit", "hola", 4, "hola"},
		{"truncated with ellipsis", "regulaciones bancarias", 10, "regulac..."},
		{"accented runes intact", "políticas de crédito", 12, "políticas..."},
		{"tiny limit", "abcdef", 2, "ab"},
		{"zero limit", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateRunes(tt.input, tt.max))
		})
	}
}

func TestTruncateWidth(t *testing.T) {
	assert.Equal(t, "abc", TruncateWidth("abc", 10))
	assert.Equal(t, "ab...", TruncateWidth("abcdefgh", 5))
	assert.Equal(t, "", TruncateWidth("abc", 0))
}

func TestPadWidth(t *testing.T) {
	assert.Equal(t, "ab   ", PadWidth("ab", 5))
	assert.Equal(t, "ab...", PadWidth("abcdefgh", 5))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "primera", FirstLine("primera\nsegunda"))
	assert.Equal(t, "sola", FirstLine("  sola  "))
}

func TestFormatMillis(t *testing.T) {
	assert.Equal(t, "352 ms", FormatMillis(352))
	assert.Equal(t, "2.41 s", FormatMillis(2410))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KB", FormatBytes(1536))
	assert.Equal(t, "2.0 MB", FormatBytes(2*1024*1024))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "0%", FormatPercent(-3))
	assert.Equal(t, "42%", FormatPercent(42))
	assert.Equal(t, "100%", FormatPercent(250))
}
