package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/neontetris/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) snapshot(id model.SessionID) *model.Snapshot {
	current := model.NewTetromino(model.ShapeT, model.Position{X: 4, Y: 3})
	return &model.Snapshot{
		SessionID:        id,
		Grid:             model.NewGrid(model.GridWidth, model.GridHeight),
		CurrentPiece:     &current,
		Score:            1200,
		Level:            3,
		Line:             24,
		GameMode:         model.ModeClassic,
		PendingClearRows: []int{18, 19},
		SavedAt:          time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Snapshot tests

func (s *StorageSuite) TestSaveAndGetSnapshot() {
	snap := s.snapshot("session-1")

	err := s.storage.SaveSnapshot(s.ctx, snap)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSnapshot(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(snap, retrieved)
}

func (s *StorageSuite) TestGetSnapshotNotFound() {
	_, err := s.storage.GetSnapshot(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}

func (s *StorageSuite) TestSnapshotIsCopied() {
	snap := s.snapshot("session-1")
	_ = s.storage.SaveSnapshot(s.ctx, snap)

	snap.CurrentPiece.Position.X = 0
	snap.PendingClearRows[0] = 0

	retrieved, _ := s.storage.GetSnapshot(s.ctx, "session-1")
	s.Equal(4, retrieved.CurrentPiece.Position.X)
	s.Equal([]int{18, 19}, retrieved.PendingClearRows)
}

func (s *StorageSuite) TestSaveSnapshotOverwrites() {
	snap := s.snapshot("session-1")
	_ = s.storage.SaveSnapshot(s.ctx, snap)

	snap.Score = 5000
	_ = s.storage.SaveSnapshot(s.ctx, snap)

	retrieved, _ := s.storage.GetSnapshot(s.ctx, "session-1")
	s.Equal(5000, retrieved.Score)
}

func (s *StorageSuite) TestDeleteSnapshot() {
	_ = s.storage.SaveSnapshot(s.ctx, s.snapshot("session-1"))

	err := s.storage.DeleteSnapshot(s.ctx, "session-1")
	s.Require().NoError(err)

	_, err = s.storage.GetSnapshot(s.ctx, "session-1")
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}

func (s *StorageSuite) TestListSnapshots() {
	_ = s.storage.SaveSnapshot(s.ctx, s.snapshot("b"))
	_ = s.storage.SaveSnapshot(s.ctx, s.snapshot("a"))

	ids, err := s.storage.ListSnapshots(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.SessionID{"a", "b"}, ids)
}

// High score tests

func (s *StorageSuite) TestHighScoresEmpty() {
	scores, err := s.storage.GetHighScores(s.ctx, model.ModeClassic)
	s.Require().NoError(err)
	s.Empty(scores)
}

func (s *StorageSuite) TestSaveHighScoresPerMode() {
	classic := []model.HighScore{{Score: 900}, {Score: 100}}
	invisible := []model.HighScore{{Score: 50}}

	s.Require().NoError(s.storage.SaveHighScores(s.ctx, model.ModeClassic, classic))
	s.Require().NoError(s.storage.SaveHighScores(s.ctx, model.ModeInvisible, invisible))

	got, err := s.storage.GetHighScores(s.ctx, model.ModeClassic)
	s.Require().NoError(err)
	s.Equal(classic, got)

	got, err = s.storage.GetHighScores(s.ctx, model.ModeInvisible)
	s.Require().NoError(err)
	s.Equal(invisible, got)
}

// Progress tests

func (s *StorageSuite) TestUnlockLevels() {
	s.Require().NoError(s.storage.UnlockLevel(s.ctx, 3))
	s.Require().NoError(s.storage.UnlockLevel(s.ctx, 2))
	s.Require().NoError(s.storage.UnlockLevel(s.ctx, 3))

	levels, err := s.storage.GetUnlockedLevels(s.ctx)
	s.Require().NoError(err)
	s.Equal([]int{2, 3}, levels)
}
