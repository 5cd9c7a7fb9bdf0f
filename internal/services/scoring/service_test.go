package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New(DefaultRules())
}

func (s *ServiceSuite) TestBaseTableAtLevelOneComboOne() {
	s.Equal(100, s.service.ClearScore(1, 1, 1))
	s.Equal(300, s.service.ClearScore(2, 1, 1))
	s.Equal(500, s.service.ClearScore(3, 1, 1))
	s.Equal(800, s.service.ClearScore(4, 1, 1))
}

func (s *ServiceSuite) TestDoublingLevelDoublesScore() {
	for lines := 1; lines <= 4; lines++ {
		s.Equal(2*s.service.ClearScore(lines, 3, 1), s.service.ClearScore(lines, 6, 1))
	}
}

func (s *ServiceSuite) TestDoublingComboDoublesScore() {
	for lines := 1; lines <= 4; lines++ {
		s.Equal(2*s.service.ClearScore(lines, 1, 2), s.service.ClearScore(lines, 1, 4))
	}
}

func (s *ServiceSuite) TestUnknownLineCountScoresZero() {
	s.Equal(0, s.service.ClearScore(5, 3, 2))
	s.Equal(0, s.service.ClearScore(0, 1, 1))
}

func (s *ServiceSuite) TestComboMultiplierCanBeDisabled() {
	rules := DefaultRules()
	rules.ComboMultiplier = false
	service := New(rules)

	s.Equal(300, service.ClearScore(2, 1, 5))
}

func (s *ServiceSuite) TestLevelForLines() {
	s.Equal(1, s.service.LevelForLines(0))
	s.Equal(1, s.service.LevelForLines(9))
	s.Equal(2, s.service.LevelForLines(10))
	s.Equal(11, s.service.LevelForLines(100))
}

func (s *ServiceSuite) TestDropInterval() {
	s.Equal(1000*time.Millisecond, s.service.DropInterval(1))
	s.Equal(900*time.Millisecond, s.service.DropInterval(2))
	s.Equal(100*time.Millisecond, s.service.DropInterval(10))
	s.Equal(100*time.Millisecond, s.service.DropInterval(11))
	s.Equal(100*time.Millisecond, s.service.DropInterval(40))
}
