package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenFile(t *testing.T) {
	client := newFakeClient("typescript")

	tc := newToolCapture()
	RegisterOpenFileTool(tc, newFakeBridge(client))

	result := tc.call(t, "open_file", map[string]any{"file": "src/a.ts"})

	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"file":"src/a.ts","opened":true}`, textOf(t, result))
	assert.Equal(t, []string{"/proj/src/a.ts"}, client.openedPaths)
}

func TestOpenFileRequiresFile(t *testing.T) {
	tc := newToolCapture()
	RegisterOpenFileTool(tc, newFakeBridge(newFakeClient("typescript")))

	result := tc.call(t, "open_file", map[string]any{})

	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "file")
}

func TestOpenFileNoConfiguredPeers(t *testing.T) {
	bridge := newFakeBridge(nil)

	tc := newToolCapture()
	RegisterOpenFileTool(tc, bridge)

	result := tc.call(t, "open_file", map[string]any{"file": "a.xyz"})

	assert.True(t, result.IsError)
}
