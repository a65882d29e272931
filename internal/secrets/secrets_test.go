// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Secrets
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ContactEmailKey, "  crawler@example.org \n")
				writeFile(t, dir, "search-proxy", "http://proxy:3128")
				return dir
			},
			want: Secrets{
				ContactEmailKey: "crawler@example.org",
				"search-proxy":  "http://proxy:3128",
			},
		},
		{
			name: "returns empty secrets for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Secrets{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ContactEmailKey, "ops@example.org")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: Secrets{ContactEmailKey: "ops@example.org"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, ContactEmailKey, "ops@example.org")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Secrets{ContactEmailKey: "ops@example.org"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), &bytes.Buffer{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	var warn bytes.Buffer
	got, err := Load(dir, &warn)
	require.NoError(t, err)
	assert.Equal(t, "value123", got["good-key"])
	assert.NotContains(t, got, "bad-key")
	assert.Contains(t, warn.String(), "could not read secret bad-key")
}

func TestKeys(t *testing.T) {
	s := Secrets{"b": "1", "a": "2", ContactEmailKey: "x@y.z"}
	assert.Equal(t, []string{"a", "b", ContactEmailKey}, s.Keys())
}

func TestContactEmail(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"crawler@example.org", "crawler@example.org"},
		{"", ""},
		{"not an address", ""},
		{"Crawler <crawler@example.org>", ""},
	}
	for _, tt := range tests {
		s := Secrets{ContactEmailKey: tt.value}
		assert.Equal(t, tt.want, s.ContactEmail(), tt.value)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
