package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/neontetris/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SnapshotTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) snapshot(id model.SessionID) *model.Snapshot {
	rows := model.NewGrid(model.GridWidth, model.GridHeight).Rows()
	rows[19] = []int{1, 1, 1, 1, 0, 0, 3, 3, 3, 3}
	grid, err := model.GridFromRows(rows)
	s.Require().NoError(err)

	current := model.NewTetromino(model.ShapeL, model.Position{X: 4, Y: 2})
	next := model.NewTetromino(model.ShapeS, model.Position{X: 4, Y: 0})
	return &model.Snapshot{
		SessionID:      id,
		Grid:           grid,
		CurrentPiece:   &current,
		NextPiece:      &next,
		Score:          2400,
		Level:          4,
		Line:           31,
		IsPaused:       true,
		GameMode:       model.ModeInvisible,
		Combo:          2,
		DropIntervalMs: 700,
		SavedAt:        time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Snapshot tests

func (s *StorageSuite) TestSaveAndGetSnapshot() {
	snap := s.snapshot("session-1")

	err := s.storage.SaveSnapshot(s.ctx, snap)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSnapshot(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(snap.Grid.Rows(), retrieved.Grid.Rows())
	s.Equal(snap.CurrentPiece, retrieved.CurrentPiece)
	s.Equal(snap.NextPiece, retrieved.NextPiece)
	s.Equal(2400, retrieved.Score)
	s.Equal(31, retrieved.Line)
	s.True(retrieved.IsPaused)
	s.Equal(model.ModeInvisible, retrieved.GameMode)
	s.Equal(int64(700), retrieved.DropIntervalMs)
	s.True(snap.SavedAt.Equal(retrieved.SavedAt))
}

func (s *StorageSuite) TestGetSnapshotNotFound() {
	_, err := s.storage.GetSnapshot(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}

func (s *StorageSuite) TestDeleteSnapshot() {
	_ = s.storage.SaveSnapshot(s.ctx, s.snapshot("session-1"))

	err := s.storage.DeleteSnapshot(s.ctx, "session-1")
	s.Require().NoError(err)

	_, err = s.storage.GetSnapshot(s.ctx, "session-1")
	s.ErrorIs(err, model.ErrSnapshotNotFound)

	ids, err := s.storage.ListSnapshots(s.ctx)
	s.Require().NoError(err)
	s.Empty(ids)
}

func (s *StorageSuite) TestSnapshotTTL() {
	_ = s.storage.SaveSnapshot(s.ctx, s.snapshot("session-1"))

	ttl := s.mini.TTL(snapshotKey("session-1"))
	s.True(ttl > 0, "Snapshot should have TTL")
}

func (s *StorageSuite) TestListSnapshots() {
	_ = s.storage.SaveSnapshot(s.ctx, s.snapshot("b"))
	_ = s.storage.SaveSnapshot(s.ctx, s.snapshot("a"))

	ids, err := s.storage.ListSnapshots(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.SessionID{"a", "b"}, ids)
}

func (s *StorageSuite) TestListSnapshotsPrunesExpired() {
	_ = s.storage.SaveSnapshot(s.ctx, s.snapshot("old"))
	s.mini.FastForward(2 * time.Hour)
	_ = s.storage.SaveSnapshot(s.ctx, s.snapshot("new"))

	ids, err := s.storage.ListSnapshots(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.SessionID{"new"}, ids)

	members, err := s.mini.Members(snapshotIndexKey())
	s.Require().NoError(err)
	s.Equal([]string{"new"}, members)
}

// High score tests

func (s *StorageSuite) TestHighScoresEmpty() {
	scores, err := s.storage.GetHighScores(s.ctx, model.ModeClassic)
	s.Require().NoError(err)
	s.Empty(scores)
}

func (s *StorageSuite) TestSaveAndGetHighScores() {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	scores := []model.HighScore{
		{Score: 900, Lines: 12, Level: 2, AchievedAt: at},
		{Score: 100, Lines: 1, Level: 1, AchievedAt: at},
	}

	err := s.storage.SaveHighScores(s.ctx, model.ModeClassic, scores)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetHighScores(s.ctx, model.ModeClassic)
	s.Require().NoError(err)
	s.Require().Len(retrieved, 2)
	s.Equal(900, retrieved[0].Score)
	s.Equal(100, retrieved[1].Score)

	other, err := s.storage.GetHighScores(s.ctx, model.ModeInvisible)
	s.Require().NoError(err)
	s.Empty(other)
}

func (s *StorageSuite) TestHighScoresNoTTL() {
	_ = s.storage.SaveHighScores(s.ctx, model.ModeClassic, []model.HighScore{{Score: 1}})

	ttl := s.mini.TTL(highScoresKey(model.ModeClassic))
	s.Equal(time.Duration(0), ttl, "High scores should not have TTL")
}

// Progress tests

func (s *StorageSuite) TestUnlockLevels() {
	s.Require().NoError(s.storage.UnlockLevel(s.ctx, 10))
	s.Require().NoError(s.storage.UnlockLevel(s.ctx, 2))
	s.Require().NoError(s.storage.UnlockLevel(s.ctx, 10))

	levels, err := s.storage.GetUnlockedLevels(s.ctx)
	s.Require().NoError(err)
	s.Equal([]int{2, 10}, levels)
}

func (s *StorageSuite) TestUnlockedLevelsEmpty() {
	levels, err := s.storage.GetUnlockedLevels(s.ctx)
	s.Require().NoError(err)
	s.Empty(levels)
}
