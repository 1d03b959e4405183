package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryLoadConfigPrimaryPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"typescript": {"command": ["tsserver"], "filePatterns": ["**/*.ts"]}
	}`), 0o644))

	config := tryLoadConfig(path, dir)
	assert.Equal(t, []string{"typescript"}, config.ServerNames())
}

func TestTryLoadConfigFallsBackToProjectRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lspmux.json"), []byte(`{
		"ruby": {"command": ["ruby-lsp"], "filePatterns": ["**/*.rb"]}
	}`), 0o644))

	config := tryLoadConfig("", dir)
	assert.Equal(t, []string{"ruby"}, config.ServerNames())
}

func TestTryLoadConfigDotDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".lspmux"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".lspmux", "config.json"), []byte(`{
		"rust": {"command": ["rust-analyzer"], "filePatterns": ["**/*.rs"]}
	}`), 0o644))

	config := tryLoadConfig("", dir)
	assert.Equal(t, []string{"rust"}, config.ServerNames())
}

func TestTryLoadConfigMissingEverywhere(t *testing.T) {
	config := tryLoadConfig("", t.TempDir())

	// The bridge still runs; tool calls explain the missing config.
	assert.Empty(t, config.Servers)
}
