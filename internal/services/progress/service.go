package progress

import (
	"context"
	"fmt"
	"slices"

	"github.com/mcoot/neontetris/internal/model"
	"github.com/mcoot/neontetris/internal/storage"
)

// Service tracks which challenge levels have been unlocked. Level 1 is
// always unlocked; each win unlocks the next level.
type Service struct {
	storage   storage.Storage
	lastLevel int
}

// New creates a new progress Service for levels 1..lastLevel
func New(storage storage.Storage, lastLevel int) *Service {
	return &Service{
		storage:   storage,
		lastLevel: lastLevel,
	}
}

// IsUnlocked reports whether a level may be played
func (s *Service) IsUnlocked(ctx context.Context, level int) (bool, error) {
	if level < 1 || level > s.lastLevel {
		return false, fmt.Errorf("%w: %d", model.ErrChallengeLevelNotFound, level)
	}
	if level == 1 {
		return true, nil
	}
	levels, err := s.storage.GetUnlockedLevels(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(levels, level), nil
}

// Unlock marks level as playable and reports whether it was newly unlocked
func (s *Service) Unlock(ctx context.Context, level int) (bool, error) {
	unlocked, err := s.IsUnlocked(ctx, level)
	if err != nil || unlocked {
		return false, err
	}
	if err := s.storage.UnlockLevel(ctx, level); err != nil {
		return false, err
	}
	return true, nil
}

// Unlocked returns every playable level in ascending order
func (s *Service) Unlocked(ctx context.Context) ([]int, error) {
	stored, err := s.storage.GetUnlockedLevels(ctx)
	if err != nil {
		return nil, err
	}
	levels := []int{1}
	for _, level := range stored {
		if level > 1 && level <= s.lastLevel {
			levels = append(levels, level)
		}
	}
	slices.Sort(levels)
	return slices.Compact(levels), nil
}
