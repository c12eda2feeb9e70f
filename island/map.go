package island

import (
	"fmt"
	"strings"

	"github.com/pthm-cable/biosim/systems"
)

// ParseMap reads island map text into a row-major terrain grid. Surrounding
// whitespace and per-line indentation are ignored. The grid must be
// rectangular, use only legal symbols and have an all-ocean border.
func ParseMap(text string) ([][]systems.Terrain, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &MapError{Reason: "empty map"}
	}

	lines := strings.Split(text, "\n")
	width := len([]rune(strings.TrimSpace(lines[0])))
	grid := make([][]systems.Terrain, len(lines))

	for r, line := range lines {
		symbols := []rune(strings.TrimSpace(line))
		if len(symbols) != width {
			return nil, &MapError{Row: r, Reason: fmt.Sprintf("row has %d cells, want %d", len(symbols), width)}
		}

		row := make([]systems.Terrain, width)
		for c, sym := range symbols {
			t, ok := systems.ParseTerrain(sym)
			if !ok {
				return nil, &MapError{Row: r, Col: c, Symbol: sym, Reason: "illegal symbol"}
			}
			border := r == 0 || c == 0 || r == len(lines)-1 || c == width-1
			if border && t != systems.TerrainOcean {
				return nil, &MapError{Row: r, Col: c, Symbol: sym, Reason: "border cell is not ocean"}
			}
			row[c] = t
		}
		grid[r] = row
	}
	return grid, nil
}
