package model

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type PieceSuite struct {
	suite.Suite
}

func TestPieceSuite(t *testing.T) {
	suite.Run(t, new(PieceSuite))
}

func (s *PieceSuite) TestFourRotationsReturnToBaseShape() {
	for _, shape := range ShapeTypes {
		base := BaseShape(shape)
		m := base
		for i := 0; i < 4; i++ {
			m = m.Rotate()
		}
		s.True(base.Equal(m), "shape %s", shape)
	}
}

func (s *PieceSuite) TestRotateUsesClockwiseTransform() {
	// T pointing up becomes T pointing right
	rotated := BaseShape(ShapeT).Rotate()
	s.Equal(Matrix{{1, 0}, {1, 1}, {1, 0}}, rotated)
}

func (s *PieceSuite) TestRotateIPieceIsVertical() {
	rotated := BaseShape(ShapeI).Rotate()
	s.Equal(4, rotated.Rows())
	s.Equal(1, rotated.Cols())
}

func (s *PieceSuite) TestORotationKeepsAppearance() {
	base := BaseShape(ShapeO)
	s.True(base.Equal(base.Rotate()))
}

func (s *PieceSuite) TestRotatedShapeHonoursRotationIndex() {
	piece := NewTetromino(ShapeS, Position{})
	piece.Rotation = 2
	s.Equal(BaseShape(ShapeS).Rotate().Rotate(), RotatedShape(piece))

	piece.Rotation = 6
	s.Equal(BaseShape(ShapeS).Rotate().Rotate(), RotatedShape(piece))
}

func (s *PieceSuite) TestBaseShapeReturnsCopy() {
	m := BaseShape(ShapeL)
	m[0][0] = 9
	s.Equal(uint8(0), BaseShape(ShapeL)[0][0])
}

func (s *PieceSuite) TestColorCodes() {
	expected := map[ShapeType]int{
		ShapeI: 1, ShapeO: 2, ShapeT: 3, ShapeS: 4, ShapeZ: 5, ShapeJ: 6, ShapeL: 7,
	}
	for shape, color := range expected {
		s.Equal(color, NewTetromino(shape, Position{}).Color)
	}
}

func (s *PieceSuite) TestMovedAndRotatedDoNotMutate() {
	piece := NewTetromino(ShapeT, Position{X: 3, Y: 0})

	moved := piece.Moved(1, 2)
	rotated := piece.Rotated()

	s.Equal(Position{X: 3, Y: 0}, piece.Position)
	s.Equal(0, piece.Rotation)
	s.Equal(Position{X: 4, Y: 2}, moved.Position)
	s.Equal(1, rotated.Rotation)
}

func (s *PieceSuite) TestRotatedWrapsAfterFourSteps() {
	piece := NewTetromino(ShapeJ, Position{})
	for i := 0; i < 4; i++ {
		piece = piece.Rotated()
	}
	s.Equal(0, piece.Rotation)
}

func (s *PieceSuite) TestUnknownShape() {
	s.False(ShapeType("X").IsValid())
	s.Nil(BaseShape("X"))
}
