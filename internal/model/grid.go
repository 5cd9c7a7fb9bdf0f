package model

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Canonical board dimensions
const (
	GridWidth  = 10
	GridHeight = 20
)

// Grid is a fixed-size matrix of cell color codes stored as a flat row-major
// buffer. Grids are values: Place and ClearRows return a new Grid and never
// touch the receiver's buffer.
type Grid struct {
	width  int
	height int
	cells  []int
}

// NewGrid creates an empty grid
func NewGrid(width, height int) Grid {
	return Grid{
		width:  width,
		height: height,
		cells:  make([]int, width*height),
	}
}

// GridFromRows builds a grid from row-major cell values.
// Every row must have the same width and every cell must be 0 or a palette code.
func GridFromRows(rows [][]int) (Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Grid{}, fmt.Errorf("%w: empty grid", ErrInvalidGrid)
	}
	width := len(rows[0])
	g := NewGrid(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return Grid{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidGrid, y, len(row), width)
		}
		for x, v := range row {
			if v < 0 || v > MaxColorCode {
				return Grid{}, fmt.Errorf("%w: cell (%d,%d) has code %d", ErrInvalidGrid, x, y, v)
			}
			g.cells[y*width+x] = v
		}
	}
	return g, nil
}

// Width returns the number of columns
func (g Grid) Width() int {
	return g.width
}

// Height returns the number of rows
func (g Grid) Height() int {
	return g.height
}

// IsZero reports whether the grid was never initialised
func (g Grid) IsZero() bool {
	return g.cells == nil
}

// InBounds reports whether (x, y) is a visible cell
func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the cell value at (x, y), or 0 outside the grid
func (g Grid) At(x, y int) int {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.cells[y*g.width+x]
}

// Rows returns a copy of the grid as row-major slices
func (g Grid) Rows() [][]int {
	rows := make([][]int, g.height)
	for y := range rows {
		rows[y] = slices.Clone(g.cells[y*g.width : (y+1)*g.width])
	}
	return rows
}

// Occupied returns the number of non-empty cells
func (g Grid) Occupied() int {
	n := 0
	for _, v := range g.cells {
		if v != 0 {
			n++
		}
	}
	return n
}

// Collides reports whether shape placed at pos leaves the grid horizontally,
// reaches the bottom bound, or overlaps an occupied cell. Cells above row 0
// are only checked against the side walls.
func (g Grid) Collides(shape Matrix, pos Position) bool {
	for _, c := range shape.Cells() {
		x, y := pos.X+c.X, pos.Y+c.Y
		if x < 0 || x >= g.width || y >= g.height {
			return true
		}
		if y >= 0 && g.cells[y*g.width+x] != 0 {
			return true
		}
	}
	return false
}

// Place returns a new grid with every filled cell of shape written as color.
// Cells above row 0 are clipped.
func (g Grid) Place(shape Matrix, pos Position, color int) Grid {
	out := g.clone()
	for _, c := range shape.Cells() {
		x, y := pos.X+c.X, pos.Y+c.Y
		if !out.InBounds(x, y) {
			continue
		}
		out.cells[y*out.width+x] = color
	}
	return out
}

// FindFullRows returns the indices of rows with no empty cell, ascending
func (g Grid) FindFullRows() []int {
	var full []int
	for y := 0; y < g.height; y++ {
		if !slices.Contains(g.cells[y*g.width:(y+1)*g.width], 0) {
			full = append(full, y)
		}
	}
	return full
}

// ClearRows returns a new grid without the given rows and the number removed.
// Surviving rows keep their order and settle at the bottom; empty rows fill
// the top.
func (g Grid) ClearRows(rows []int) (Grid, int) {
	remove := make(map[int]bool, len(rows))
	for _, y := range rows {
		if y >= 0 && y < g.height {
			remove[y] = true
		}
	}

	out := NewGrid(g.width, g.height)
	dst := g.height - 1
	for y := g.height - 1; y >= 0; y-- {
		if remove[y] {
			continue
		}
		copy(out.cells[dst*g.width:(dst+1)*g.width], g.cells[y*g.width:(y+1)*g.width])
		dst--
	}
	return out, len(remove)
}

func (g Grid) clone() Grid {
	return Grid{
		width:  g.width,
		height: g.height,
		cells:  slices.Clone(g.cells),
	}
}

// MarshalJSON encodes the grid as an array of rows
func (g Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Rows())
}

// UnmarshalJSON decodes an array of rows
func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows [][]int
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	parsed, err := GridFromRows(rows)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
