package highscore

import (
	"context"
	"sync"

	"github.com/mcoot/neontetris/internal/model"
	"github.com/mcoot/neontetris/internal/storage"
)

// DefaultLimit is how many entries each mode keeps
const DefaultLimit = 6

// Service maintains a bounded leaderboard per game mode
type Service struct {
	storage storage.Storage
	limit   int

	// Serialises read-modify-write of leaderboards
	mu sync.Mutex
}

// New creates a new high score Service keeping limit entries per mode
func New(storage storage.Storage, limit int) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{
		storage: storage,
		limit:   limit,
	}
}

// Limit returns how many entries each mode keeps
func (s *Service) Limit() int {
	return s.limit
}

// Top returns the leaderboard for a mode, best first
func (s *Service) Top(ctx context.Context, mode model.GameMode) ([]model.HighScore, error) {
	if !mode.IsValid() {
		return nil, model.ErrUnknownMode
	}
	scores, err := s.storage.GetHighScores(ctx, mode)
	if err != nil {
		return nil, err
	}
	if len(scores) > s.limit {
		scores = scores[:s.limit]
	}
	return scores, nil
}

// Submit records entry if it places on the leaderboard and returns its
// 1-based rank, or 0 if it did not place. Ties rank below existing entries.
// Scores of zero never place.
func (s *Service) Submit(ctx context.Context, mode model.GameMode, entry model.HighScore) (int, error) {
	if !mode.IsValid() {
		return 0, model.ErrUnknownMode
	}
	if entry.Score <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scores, err := s.storage.GetHighScores(ctx, mode)
	if err != nil {
		return 0, err
	}

	idx := len(scores)
	for i, hs := range scores {
		if entry.Score > hs.Score {
			idx = i
			break
		}
	}
	if idx >= s.limit {
		return 0, nil
	}

	updated := make([]model.HighScore, 0, len(scores)+1)
	updated = append(updated, scores[:idx]...)
	updated = append(updated, entry)
	updated = append(updated, scores[idx:]...)
	if len(updated) > s.limit {
		updated = updated[:s.limit]
	}

	if err := s.storage.SaveHighScores(ctx, mode, updated); err != nil {
		return 0, err
	}
	return idx + 1, nil
}
