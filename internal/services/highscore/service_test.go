package highscore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/neontetris/internal/model"
	"github.com/mcoot/neontetris/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
	at      time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, DefaultLimit)
	s.ctx = context.Background()
	s.at = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *ServiceSuite) submit(mode model.GameMode, score int) int {
	rank, err := s.service.Submit(s.ctx, mode, model.HighScore{Score: score, AchievedAt: s.at})
	s.Require().NoError(err)
	return rank
}

func (s *ServiceSuite) scores(mode model.GameMode) []int {
	top, err := s.service.Top(s.ctx, mode)
	s.Require().NoError(err)
	out := make([]int, len(top))
	for i, hs := range top {
		out[i] = hs.Score
	}
	return out
}

func (s *ServiceSuite) TestEmptyLeaderboard() {
	s.Empty(s.scores(model.ModeClassic))
}

func (s *ServiceSuite) TestSubmitKeepsDescendingOrder() {
	s.Equal(1, s.submit(model.ModeClassic, 300))
	s.Equal(1, s.submit(model.ModeClassic, 800))
	s.Equal(3, s.submit(model.ModeClassic, 100))
	s.Equal(2, s.submit(model.ModeClassic, 500))

	s.Equal([]int{800, 500, 300, 100}, s.scores(model.ModeClassic))
}

func (s *ServiceSuite) TestLeaderboardIsBounded() {
	for _, score := range []int{100, 200, 300, 400, 500, 600} {
		s.submit(model.ModeClassic, score)
	}

	s.Equal(0, s.submit(model.ModeClassic, 50))
	s.Equal(6, s.submit(model.ModeClassic, 150))
	s.Equal([]int{600, 500, 400, 300, 200, 150}, s.scores(model.ModeClassic))
}

func (s *ServiceSuite) TestTiesRankBelowExisting() {
	first := model.HighScore{Score: 400, Lines: 1, AchievedAt: s.at}
	second := model.HighScore{Score: 400, Lines: 2, AchievedAt: s.at.Add(time.Minute)}

	_, _ = s.service.Submit(s.ctx, model.ModeClassic, first)
	rank, err := s.service.Submit(s.ctx, model.ModeClassic, second)
	s.Require().NoError(err)
	s.Equal(2, rank)

	top, _ := s.service.Top(s.ctx, model.ModeClassic)
	s.Equal(1, top[0].Lines)
	s.Equal(2, top[1].Lines)
}

func (s *ServiceSuite) TestTieAtCutoffDoesNotPlace() {
	for i := 0; i < DefaultLimit; i++ {
		s.submit(model.ModeClassic, 100)
	}
	s.Equal(0, s.submit(model.ModeClassic, 100))
}

func (s *ServiceSuite) TestZeroScoreNeverPlaces() {
	s.Equal(0, s.submit(model.ModeClassic, 0))
	s.Empty(s.scores(model.ModeClassic))
}

func (s *ServiceSuite) TestModesAreSeparate() {
	s.submit(model.ModeClassic, 100)
	s.submit(model.ModeInvisible, 900)

	s.Equal([]int{100}, s.scores(model.ModeClassic))
	s.Equal([]int{900}, s.scores(model.ModeInvisible))
	s.Empty(s.scores(model.ModeChallenge))
}

func (s *ServiceSuite) TestUnknownMode() {
	_, err := s.service.Submit(s.ctx, "zen", model.HighScore{Score: 1})
	s.ErrorIs(err, model.ErrUnknownMode)

	_, err = s.service.Top(s.ctx, "zen")
	s.ErrorIs(err, model.ErrUnknownMode)
}

func (s *ServiceSuite) TestCustomLimit() {
	service := New(s.storage, 2)
	for _, score := range []int{10, 20, 30} {
		_, _ = service.Submit(s.ctx, model.ModeClassic, model.HighScore{Score: score})
	}

	top, err := service.Top(s.ctx, model.ModeClassic)
	s.Require().NoError(err)
	s.Len(top, 2)
	s.Equal(30, top[0].Score)
}
