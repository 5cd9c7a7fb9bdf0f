package model

// Position identifies a cell on the grid
type Position struct {
	X int // Column, 0-indexed from left
	Y int // Row, 0-indexed from top; negative rows sit above the visible grid
}

// Add returns the position offset by o
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// ShapeType identifies one of the seven tetrominoes
type ShapeType string

const (
	ShapeI ShapeType = "I"
	ShapeO ShapeType = "O"
	ShapeT ShapeType = "T"
	ShapeS ShapeType = "S"
	ShapeZ ShapeType = "Z"
	ShapeJ ShapeType = "J"
	ShapeL ShapeType = "L"
)

// ShapeTypes lists every tetromino in catalog order
var ShapeTypes = [...]ShapeType{ShapeI, ShapeO, ShapeT, ShapeS, ShapeZ, ShapeJ, ShapeL}

// MaxColorCode is the highest palette index a grid cell may hold
const MaxColorCode = 18

// Matrix is a row-major shape mask; non-zero entries are filled cells
type Matrix [][]uint8

// Rows returns the matrix height
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the matrix width
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Rotate returns the matrix turned 90 degrees clockwise.
// rotated[j][rows-1-i] = original[i][j]
func (m Matrix) Rotate() Matrix {
	rows, cols := m.Rows(), m.Cols()
	out := make(Matrix, cols)
	for j := range out {
		out[j] = make([]uint8, rows)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[j][rows-1-i] = m[i][j]
		}
	}
	return out
}

// Equal reports whether two matrices have the same dimensions and cells
func (m Matrix) Equal(o Matrix) bool {
	if m.Rows() != o.Rows() || m.Cols() != o.Cols() {
		return false
	}
	for i := range m {
		for j := range m[i] {
			if m[i][j] != o[i][j] {
				return false
			}
		}
	}
	return true
}

// Cells returns the offsets of every filled cell relative to the matrix origin
func (m Matrix) Cells() []Position {
	var cells []Position
	for i, row := range m {
		for j, v := range row {
			if v != 0 {
				cells = append(cells, Position{X: j, Y: i})
			}
		}
	}
	return cells
}

func (m Matrix) clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]uint8(nil), row...)
	}
	return out
}

// Catalog tables. Read-only: accessors hand out copies.
var (
	baseShapes = map[ShapeType]Matrix{
		ShapeI: {{1, 1, 1, 1}},
		ShapeO: {{1, 1}, {1, 1}},
		ShapeT: {{0, 1, 0}, {1, 1, 1}},
		ShapeS: {{0, 1, 1}, {1, 1, 0}},
		ShapeZ: {{1, 1, 0}, {0, 1, 1}},
		ShapeJ: {{1, 0, 0}, {1, 1, 1}},
		ShapeL: {{0, 0, 1}, {1, 1, 1}},
	}

	colorCodes = map[ShapeType]int{
		ShapeI: 1,
		ShapeO: 2,
		ShapeT: 3,
		ShapeS: 4,
		ShapeZ: 5,
		ShapeJ: 6,
		ShapeL: 7,
	}
)

// IsValid reports whether t names a catalog shape
func (t ShapeType) IsValid() bool {
	_, ok := baseShapes[t]
	return ok
}

// BaseShape returns the spawn orientation of a shape, or nil if t is unknown
func BaseShape(t ShapeType) Matrix {
	m, ok := baseShapes[t]
	if !ok {
		return nil
	}
	return m.clone()
}

// ColorCode returns the canonical palette index of a shape
func ColorCode(t ShapeType) int {
	return colorCodes[t]
}

// RotatedShape returns the shape of t in its current rotation
func RotatedShape(t Tetromino) Matrix {
	m := BaseShape(t.Type)
	for i := 0; i < normalizeRotation(t.Rotation); i++ {
		m = m.Rotate()
	}
	return m
}

func normalizeRotation(r int) int {
	return ((r % 4) + 4) % 4
}

// Tetromino is a falling piece. Values are never mutated in place; moves and
// rotations return a new Tetromino so candidates can be collision tested first.
type Tetromino struct {
	Type     ShapeType `json:"type"`
	Color    int       `json:"color"`
	Position Position  `json:"position"`
	Rotation int       `json:"rotation"`
}

// NewTetromino creates a piece of type t at pos with its canonical color
func NewTetromino(t ShapeType, pos Position) Tetromino {
	return Tetromino{
		Type:     t,
		Color:    ColorCode(t),
		Position: pos,
	}
}

// Shape returns the piece's current matrix
func (t Tetromino) Shape() Matrix {
	return RotatedShape(t)
}

// Moved returns the piece shifted by (dx, dy)
func (t Tetromino) Moved(dx, dy int) Tetromino {
	t.Position = t.Position.Add(Position{X: dx, Y: dy})
	return t
}

// Rotated returns the piece turned one step clockwise
func (t Tetromino) Rotated() Tetromino {
	t.Rotation = normalizeRotation(t.Rotation + 1)
	return t
}
