package tools

import (
	"encoding/json"
	"testing"

	"github.com/myleshyson/lsprotocol-go/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureHelp(t *testing.T) {
	client := newFakeClient("typescript")
	client.requestFunc["signatureHelp"] = func(uri string, position protocol.Position) (json.RawMessage, error) {
		return json.RawMessage(`{
			"signatures": [{
				"label": "add(a: number, b: number): number",
				"documentation": {"kind": "markdown", "value": "Adds two numbers."},
				"parameters": [
					{"label": "a: number", "documentation": "first operand"},
					{"label": "b: number"}
				]
			}],
			"activeSignature": 0,
			"activeParameter": 1
		}`), nil
	}

	tc := newToolCapture()
	RegisterSignatureHelpTool(tc, newFakeBridge(client))

	result := tc.call(t, "signature_help", map[string]any{"file": "a.ts", "line": 1, "col": 10})

	require.False(t, result.IsError)

	payload := decodeResult(t, result).(map[string]any)
	assert.EqualValues(t, 0, payload["activeSignature"])
	assert.EqualValues(t, 1, payload["activeParameter"])

	signatures := payload["signatures"].([]any)
	require.Len(t, signatures, 1)

	signature := signatures[0].(map[string]any)
	assert.Equal(t, "add(a: number, b: number): number", signature["label"])
	assert.Equal(t, "Adds two numbers.", signature["documentation"])

	parameters := signature["parameters"].([]any)
	require.Len(t, parameters, 2)
	assert.Equal(t, "first operand", parameters[0].(map[string]any)["documentation"])
}

func TestSignatureHelpDefaultsActiveFields(t *testing.T) {
	client := newFakeClient("typescript")
	client.requestFunc["signatureHelp"] = func(uri string, position protocol.Position) (json.RawMessage, error) {
		return json.RawMessage(`{"signatures": []}`), nil
	}

	tc := newToolCapture()
	RegisterSignatureHelpTool(tc, newFakeBridge(client))

	result := tc.call(t, "signature_help", map[string]any{"file": "a.ts", "line": 1, "col": 1})

	assert.JSONEq(t, `{"signatures":[],"activeSignature":0,"activeParameter":0}`, textOf(t, result))
}

func TestSignatureHelpNull(t *testing.T) {
	client := newFakeClient("typescript")

	tc := newToolCapture()
	RegisterSignatureHelpTool(tc, newFakeBridge(client))

	result := tc.call(t, "signature_help", map[string]any{"file": "a.ts", "line": 1, "col": 1})

	assert.Equal(t, "null", textOf(t, result))
}
