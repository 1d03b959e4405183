package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"codemux/lspmux/interfaces"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/myleshyson/lsprotocol-go/protocol"
	"github.com/tidwall/gjson"
)

type ToolServer interface {
	AddTool(tool mcp.Tool, handler server.ToolHandlerFunc)
}

// jsonResult wraps a payload as a single text content block holding its
// canonical JSON serialization.
func jsonResult(payload any) *mcp.CallToolResult {
	data, err := json.Marshal(payload)
	if err != nil {
		return errorResult("failed to encode result: " + err.Error())
	}
	return mcp.NewToolResultText(string(data))
}

// errorResult produces an isError result whose text is {"error": msg}.
func errorResult(msg string) *mcp.CallToolResult {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return mcp.NewToolResultError(string(data))
}

// decodeAny unmarshals a raw peer reply. A missing or null reply decodes to
// nil.
func decodeAny(raw json.RawMessage) (any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// ensureDocument resolves the owning client for a file, starting it if
// needed, and synchronizes the document. Returns the client and the
// document URI.
func ensureDocument(bridge interfaces.BridgeInterface, file string) (interfaces.LanguageClient, string, error) {
	client, err := bridge.EnsureClientForFile(file)
	if err != nil {
		return nil, "", err
	}

	abs, err := bridge.AbsolutePath(file)
	if err != nil {
		return nil, "", err
	}

	uri, err := client.EnsureOpen(abs)
	if err != nil {
		return nil, "", err
	}

	return client, uri, nil
}

// symbolKindName renders an LSP symbol kind by its canonical name.
func symbolKindName(kind protocol.SymbolKind) string {
	switch kind {
	case protocol.SymbolKindFile:
		return "File"
	case protocol.SymbolKindModule:
		return "Module"
	case protocol.SymbolKindNamespace:
		return "Namespace"
	case protocol.SymbolKindPackage:
		return "Package"
	case protocol.SymbolKindClass:
		return "Class"
	case protocol.SymbolKindMethod:
		return "Method"
	case protocol.SymbolKindProperty:
		return "Property"
	case protocol.SymbolKindField:
		return "Field"
	case protocol.SymbolKindConstructor:
		return "Constructor"
	case protocol.SymbolKindEnum:
		return "Enum"
	case protocol.SymbolKindInterface:
		return "Interface"
	case protocol.SymbolKindFunction:
		return "Function"
	case protocol.SymbolKindVariable:
		return "Variable"
	case protocol.SymbolKindConstant:
		return "Constant"
	case protocol.SymbolKindString:
		return "String"
	case protocol.SymbolKindNumber:
		return "Number"
	case protocol.SymbolKindBoolean:
		return "Boolean"
	case protocol.SymbolKindArray:
		return "Array"
	case protocol.SymbolKindObject:
		return "Object"
	case protocol.SymbolKindKey:
		return "Key"
	case protocol.SymbolKindNull:
		return "Null"
	case protocol.SymbolKindEnumMember:
		return "EnumMember"
	case protocol.SymbolKindStruct:
		return "Struct"
	case protocol.SymbolKindEvent:
		return "Event"
	case protocol.SymbolKindOperator:
		return "Operator"
	case protocol.SymbolKindTypeParameter:
		return "TypeParameter"
	default:
		return fmt.Sprintf("Kind(%d)", kind)
	}
}

// symbolKindNameFromValue renders a kind decoded from dynamic JSON.
func symbolKindNameFromValue(value any) string {
	if n, ok := value.(float64); ok {
		return symbolKindName(protocol.SymbolKind(n))
	}
	return "Kind(0)"
}

// severityName renders a diagnostic severity, defaulting unknown values to
// their number.
func severityName(severity *protocol.DiagnosticSeverity) string {
	if severity == nil {
		return ""
	}

	switch *severity {
	case protocol.DiagnosticSeverityError:
		return "Error"
	case protocol.DiagnosticSeverityWarning:
		return "Warning"
	case protocol.DiagnosticSeverityInformation:
		return "Information"
	case protocol.DiagnosticSeverityHint:
		return "Hint"
	default:
		return fmt.Sprintf("Severity(%d)", *severity)
	}
}

// severityNameFromValue renders a severity decoded from dynamic JSON.
func severityNameFromValue(value float64) string {
	severity := protocol.DiagnosticSeverity(value)
	return severityName(&severity)
}

// flattenContents collapses the hover/documentation content variants into a
// single string: plain strings pass through, {kind,value} yields the value,
// {language,value} becomes a fenced code block, arrays join with blank
// lines.
func flattenContents(contents any) string {
	switch v := contents.(type) {
	case string:
		return v

	case map[string]any:
		value, _ := v["value"].(string)
		if language, ok := v["language"].(string); ok {
			return "```" + language + "\n" + value + "\n```"
		}
		return value

	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, flattenContents(item))
		}
		return strings.Join(parts, "\n\n")

	default:
		return ""
	}
}

// normalizeLocationValue collapses Location and LocationLink to
// {file, line, col}. LocationLink is recognized by its targetUri field.
func normalizeLocationValue(bridge interfaces.BridgeInterface, value map[string]any) map[string]any {
	uri, _ := value["uri"].(string)
	rng, _ := value["range"].(map[string]any)

	if target, ok := value["targetUri"].(string); ok {
		uri = target
		rng, _ = value["targetSelectionRange"].(map[string]any)
	}

	line, col := rangeStart(rng)

	return map[string]any{
		"file": bridge.RelativePath(uri),
		"line": line,
		"col":  col,
	}
}

// normalizeLocations collapses location-valued replies: null stays null,
// one location (bare or in a one-element array) yields a single object,
// more yield an array.
func normalizeLocations(bridge interfaces.BridgeInterface, raw json.RawMessage) (any, error) {
	value, err := decodeAny(raw)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case nil:
		return nil, nil

	case map[string]any:
		return normalizeLocationValue(bridge, v), nil

	case []any:
		if len(v) == 0 {
			return nil, nil
		}

		locations := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				locations = append(locations, normalizeLocationValue(bridge, m))
			}
		}

		if len(locations) == 1 {
			return locations[0], nil
		}
		return locations, nil

	default:
		return nil, nil
	}
}

// normalizeWorkspaceEdit converts either workspace edit form into a
// {changes: {relativePath: [{range, newText}]}} map with 1-based ranges.
// documentChanges wins when both are present.
func normalizeWorkspaceEdit(bridge interfaces.BridgeInterface, value map[string]any) map[string]any {
	changes := make(map[string][]map[string]any)

	if documentChanges, ok := value["documentChanges"].([]any); ok {
		for _, entry := range documentChanges {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}

			// File operations (create/rename/delete) carry a kind; only
			// text document edits are representable here.
			if _, isFileOp := m["kind"]; isFileOp {
				continue
			}

			textDocument, _ := m["textDocument"].(map[string]any)
			uri, _ := textDocument["uri"].(string)
			edits, _ := m["edits"].([]any)

			appendEdits(bridge, changes, uri, edits)
		}
	} else if rawChanges, ok := value["changes"].(map[string]any); ok {
		for uri, edits := range rawChanges {
			editList, _ := edits.([]any)
			appendEdits(bridge, changes, uri, editList)
		}
	}

	return map[string]any{"changes": changes}
}

func appendEdits(bridge interfaces.BridgeInterface, changes map[string][]map[string]any, uri string, edits []any) {
	if uri == "" {
		return
	}

	file := bridge.RelativePath(uri)

	for _, edit := range edits {
		m, ok := edit.(map[string]any)
		if !ok {
			continue
		}

		rng, _ := m["range"].(map[string]any)
		newText, _ := m["newText"].(string)

		changes[file] = append(changes[file], map[string]any{
			"range":   outRange(rng),
			"newText": newText,
		})
	}
}

// normalizeHierarchyItem reduces a call/type hierarchy item to
// {name, kind, file, line, col} anchored at its selection range.
func normalizeHierarchyItem(bridge interfaces.BridgeInterface, item map[string]any) map[string]any {
	uri, _ := item["uri"].(string)

	rng, ok := item["selectionRange"].(map[string]any)
	if !ok {
		rng, _ = item["range"].(map[string]any)
	}

	line, col := rangeStart(rng)

	return map[string]any{
		"name": item["name"],
		"kind": symbolKindNameFromValue(item["kind"]),
		"file": bridge.RelativePath(uri),
		"line": line,
		"col":  col,
	}
}

// firstItem returns the first element of a raw JSON array result, or nil.
func firstItem(raw json.RawMessage) (any, error) {
	if !gjson.GetBytes(raw, "0").Exists() {
		return nil, nil
	}

	value, err := decodeAny(raw)
	if err != nil {
		return nil, err
	}

	items, ok := value.([]any)
	if !ok || len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}
