package piece

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/neontetris/internal/dependencies/mocks"
	"github.com/mcoot/neontetris/internal/model"
)

type FactorySuite struct {
	suite.Suite
	random *mocks.MockRandom
}

func TestFactorySuite(t *testing.T) {
	suite.Run(t, new(FactorySuite))
}

func (s *FactorySuite) SetupTest() {
	s.random = mocks.NewMockRandom()
}

func (s *FactorySuite) TestBagDealsEveryShapeOnce() {
	factory := NewFactory(s.random, DefaultConfig())

	seen := make(map[model.ShapeType]int)
	for i := 0; i < 7; i++ {
		seen[factory.Next().Type]++
	}

	s.Len(seen, 7)
	for _, count := range seen {
		s.Equal(1, count)
	}
}

func (s *FactorySuite) TestBagOrderFollowsRandomDraws() {
	// Draw the last remaining entry each time
	s.random.QueueIntn(6, 5, 4)
	factory := NewFactory(s.random, DefaultConfig())

	s.Equal(model.ShapeL, factory.Next().Type)
	s.Equal(model.ShapeJ, factory.Next().Type)
	s.Equal(model.ShapeZ, factory.Next().Type)
	// Queue exhausted: mock returns 0
	s.Equal(model.ShapeI, factory.Next().Type)
}

func (s *FactorySuite) TestBagAvoidsRepeatAcrossRefill() {
	// First bag ends with I, second bag would start with I
	s.random.QueueIntn(1, 1, 1, 1, 1, 1, 0, 0)
	factory := NewFactory(s.random, DefaultConfig())

	var last model.ShapeType
	for i := 0; i < 7; i++ {
		last = factory.Next().Type
	}
	s.Equal(model.ShapeI, last)
	s.NotEqual(model.ShapeI, factory.Next().Type)
}

func (s *FactorySuite) TestUniformAvoidsImmediateRepeat() {
	cfg := DefaultConfig()
	cfg.Policy = PolicyUniform
	s.random.QueueIntn(2, 2, 0)
	factory := NewFactory(s.random, cfg)

	s.Equal(model.ShapeT, factory.Next().Type)
	s.Equal(model.ShapeS, factory.Next().Type)
}

func (s *FactorySuite) TestUniformAllowsRepeatWhenDisabled() {
	cfg := DefaultConfig()
	cfg.Policy = PolicyUniform
	cfg.AvoidRepeat = false
	s.random.QueueIntn(2, 2)
	factory := NewFactory(s.random, cfg)

	s.Equal(model.ShapeT, factory.Next().Type)
	s.Equal(model.ShapeT, factory.Next().Type)
}

func (s *FactorySuite) TestPiecesCarryCanonicalColorAndSpawn() {
	factory := NewFactory(s.random, DefaultConfig())

	piece := factory.Next()
	s.Equal(model.ShapeI, piece.Type)
	s.Equal(1, piece.Color)
	s.Equal(model.Position{X: 3, Y: 0}, piece.Position)
	s.Equal(0, piece.Rotation)
}

func (s *FactorySuite) TestSpawnPosition() {
	s.Equal(model.Position{X: 3, Y: 0}, SpawnPosition(10, model.ShapeI))
	s.Equal(model.Position{X: 4, Y: 0}, SpawnPosition(10, model.ShapeO))
	s.Equal(model.Position{X: 4, Y: 0}, SpawnPosition(10, model.ShapeT))
}
