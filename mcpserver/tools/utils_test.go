package tools

import (
	"encoding/json"
	"testing"

	"github.com/myleshyson/lsprotocol-go/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolKindNames(t *testing.T) {
	assert.Equal(t, "File", symbolKindName(protocol.SymbolKindFile))
	assert.Equal(t, "Class", symbolKindName(protocol.SymbolKindClass))
	assert.Equal(t, "TypeParameter", symbolKindName(protocol.SymbolKindTypeParameter))
	assert.Equal(t, "Kind(42)", symbolKindName(protocol.SymbolKind(42)))
}

func TestFlattenContents(t *testing.T) {
	assert.Equal(t, "plain", flattenContents("plain"))

	assert.Equal(t, "**bold**", flattenContents(map[string]any{
		"kind":  "markdown",
		"value": "**bold**",
	}))

	assert.Equal(t, "```ts\nlet x\n```", flattenContents(map[string]any{
		"language": "ts",
		"value":    "let x",
	}))

	assert.Equal(t, "a\n\nb", flattenContents([]any{"a", "b"}))

	assert.Equal(t, "", flattenContents(nil))
	assert.Equal(t, "", flattenContents(42.0))
}

func TestErrorResultShape(t *testing.T) {
	result := errorResult("something broke")

	assert.True(t, result.IsError)
	assert.JSONEq(t, `{"error":"something broke"}`, textOf(t, result))
}

func TestJSONResultIsCanonicalJSON(t *testing.T) {
	result := jsonResult(map[string]any{"b": 1, "a": "x"})

	assert.False(t, result.IsError)
	assert.Equal(t, `{"a":"x","b":1}`, textOf(t, result))
}

func TestNormalizeWorkspaceEditPrefersDocumentChanges(t *testing.T) {
	bridge := newFakeBridge(nil)

	var edit map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"changes": {
			"file:///proj/stale.ts": [{
				"range": {"start": {"line": 0, "character": 0}, "end": {"line": 0, "character": 1}},
				"newText": "stale"
			}]
		},
		"documentChanges": [{
			"textDocument": {"uri": "file:///proj/fresh.ts", "version": 1},
			"edits": [{
				"range": {"start": {"line": 0, "character": 0}, "end": {"line": 0, "character": 1}},
				"newText": "fresh"
			}]
		}]
	}`), &edit))

	normalized := normalizeWorkspaceEdit(bridge, edit)
	changes := normalized["changes"].(map[string][]map[string]any)

	assert.Contains(t, changes, "fresh.ts")
	assert.NotContains(t, changes, "stale.ts")
}

func TestNormalizeWorkspaceEditSkipsFileOperations(t *testing.T) {
	bridge := newFakeBridge(nil)

	var edit map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"documentChanges": [
			{"kind": "create", "uri": "file:///proj/new.ts"},
			{
				"textDocument": {"uri": "file:///proj/a.ts", "version": 2},
				"edits": [{
					"range": {"start": {"line": 0, "character": 0}, "end": {"line": 0, "character": 1}},
					"newText": "x"
				}]
			}
		]
	}`), &edit))

	normalized := normalizeWorkspaceEdit(bridge, edit)
	changes := normalized["changes"].(map[string][]map[string]any)

	require.Len(t, changes, 1)
	assert.Contains(t, changes, "a.ts")
}

func TestDecodeAny(t *testing.T) {
	value, err := decodeAny(nil)
	require.NoError(t, err)
	assert.Nil(t, value)

	value, err = decodeAny(json.RawMessage("null"))
	require.NoError(t, err)
	assert.Nil(t, value)

	value, err = decodeAny(json.RawMessage(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, value)

	_, err = decodeAny(json.RawMessage(`{broken`))
	assert.Error(t, err)
}

func TestFirstItem(t *testing.T) {
	item, err := firstItem(json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.Nil(t, item)

	item, err = firstItem(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Nil(t, item)

	item, err = firstItem(json.RawMessage(`[{"name":"x"},{"name":"y"}]`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "x"}, item)
}
