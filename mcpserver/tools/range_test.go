package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWirePositionConversion(t *testing.T) {
	position := wirePosition(10, 5)
	assert.EqualValues(t, 9, position.Line)
	assert.EqualValues(t, 4, position.Character)

	// Out-of-range external coordinates clamp to the first cell.
	position = wirePosition(0, 0)
	assert.EqualValues(t, 0, position.Line)
	assert.EqualValues(t, 0, position.Character)
}

func TestPositionRoundTripIsIdentity(t *testing.T) {
	for line := 1; line <= 50; line += 7 {
		for col := 1; col <= 50; col += 7 {
			wire := wirePosition(line, col)
			out := outPosition(map[string]any{
				"line":      float64(wire.Line),
				"character": float64(wire.Character),
			})

			assert.Equal(t, line, out["line"])
			assert.Equal(t, col, out["col"])
		}
	}
}

func TestWireRange(t *testing.T) {
	rng := wireRange(2, 3, 4, 5)
	assert.EqualValues(t, 1, rng.Start.Line)
	assert.EqualValues(t, 2, rng.Start.Character)
	assert.EqualValues(t, 3, rng.End.Line)
	assert.EqualValues(t, 4, rng.End.Character)
}

func TestOutRange(t *testing.T) {
	out := outRange(map[string]any{
		"start": map[string]any{"line": float64(0), "character": float64(0)},
		"end":   map[string]any{"line": float64(2), "character": float64(10)},
	})

	start := out["start"].(map[string]any)
	end := out["end"].(map[string]any)
	assert.Equal(t, 1, start["line"])
	assert.Equal(t, 1, start["col"])
	assert.Equal(t, 3, end["line"])
	assert.Equal(t, 11, end["col"])
}

func TestRangeStartHandlesMissingFields(t *testing.T) {
	line, col := rangeStart(nil)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	line, col = rangeStart(map[string]any{})
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)
}
