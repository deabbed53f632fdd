// Package headless provides an output device that keeps its cells in memory
// without drawing them.
package headless

import "strings"

type point struct {
	x, y int
}

// Screen is an output that only keeps track of its cells. It accepts any
// coordinate, cells that were never set read as 0.
type Screen struct {
	cells map[point]uint8
}

// NewScreen returns an empty screen.
func NewScreen() *Screen {
	return &Screen{cells: map[point]uint8{}}
}

// Set stores the state of a cell.
func (h *Screen) Set(x, y int, bit uint8) {
	if bit == 0 {
		delete(h.cells, point{x, y})
		return
	}
	h.cells[point{x, y}] = bit
}

// Get returns the state of a cell.
func (h *Screen) Get(x, y int) uint8 {
	return h.cells[point{x, y}]
}

// Clear resets all cells.
func (h *Screen) Clear() {
	h.cells = map[point]uint8{}
}

// Refresh does nothing.
func (h *Screen) Refresh() {}

// Lit returns the number of set cells.
func (h *Screen) Lit() int {
	return len(h.cells)
}

// Render draws the cells inside width x height as lines of '#' and '.'.
func (h *Screen) Render(width, height int) string {
	var sb strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if h.Get(x, y) != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
