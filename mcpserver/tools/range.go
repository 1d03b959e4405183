package tools

import (
	"github.com/myleshyson/lsprotocol-go/protocol"
)

// External positions are 1-based {line, col}; wire positions are 0-based
// {line, character}. Conversions happen here and nowhere else.

// wirePosition converts an external 1-based position to a wire position.
func wirePosition(line, col int) protocol.Position {
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}

	return protocol.Position{
		Line:      uint32(line - 1),
		Character: uint32(col - 1),
	}
}

// wireRange builds a wire range from external start and end positions.
func wireRange(line, col, endLine, endCol int) protocol.Range {
	return protocol.Range{
		Start: wirePosition(line, col),
		End:   wirePosition(endLine, endCol),
	}
}

// outPosition converts a decoded wire position map to a 1-based map.
func outPosition(position map[string]any) map[string]any {
	line, _ := position["line"].(float64)
	character, _ := position["character"].(float64)

	return map[string]any{
		"line": int(line) + 1,
		"col":  int(character) + 1,
	}
}

// outRange converts a decoded wire range map to 1-based {start, end}.
func outRange(rng map[string]any) map[string]any {
	start, _ := rng["start"].(map[string]any)
	end, _ := rng["end"].(map[string]any)

	return map[string]any{
		"start": outPosition(start),
		"end":   outPosition(end),
	}
}

// rangeStart extracts the 1-based start coordinates of a decoded range.
func rangeStart(rng map[string]any) (int, int) {
	start, _ := rng["start"].(map[string]any)
	line, _ := start["line"].(float64)
	character, _ := start["character"].(float64)

	return int(line) + 1, int(character) + 1
}

// outProtocolRange converts a typed wire range to 1-based {start, end}.
func outProtocolRange(rng protocol.Range) map[string]any {
	return map[string]any{
		"start": map[string]any{
			"line": int(rng.Start.Line) + 1,
			"col":  int(rng.Start.Character) + 1,
		},
		"end": map[string]any{
			"line": int(rng.End.Line) + 1,
			"col":  int(rng.End.Character) + 1,
		},
	}
}
