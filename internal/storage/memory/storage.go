package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mcoot/neontetris/internal/model"
	"github.com/mcoot/neontetris/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	snapshots  map[model.SessionID]*model.Snapshot
	highScores map[model.GameMode][]model.HighScore
	unlocked   map[int]bool
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		snapshots:  make(map[model.SessionID]*model.Snapshot),
		highScores: make(map[model.GameMode][]model.HighScore),
		unlocked:   make(map[int]bool),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Snapshot operations

func (s *Storage) SaveSnapshot(ctx context.Context, snap *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.SessionID] = cloneSnapshot(snap)
	return nil
}

func (s *Storage) GetSnapshot(ctx context.Context, id model.SessionID) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[id]
	if !ok {
		return nil, model.ErrSnapshotNotFound
	}
	return cloneSnapshot(snap), nil
}

func (s *Storage) DeleteSnapshot(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, id)
	return nil
}

func (s *Storage) ListSnapshots(ctx context.Context) ([]model.SessionID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]model.SessionID, 0, len(s.snapshots))
	for id := range s.snapshots {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// High score operations

func (s *Storage) GetHighScores(ctx context.Context, mode model.GameMode) ([]model.HighScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.highScores[mode]), nil
}

func (s *Storage) SaveHighScores(ctx context.Context, mode model.GameMode, scores []model.HighScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highScores[mode] = slices.Clone(scores)
	return nil
}

// Challenge progress operations

func (s *Storage) GetUnlockedLevels(ctx context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	levels := make([]int, 0, len(s.unlocked))
	for level := range s.unlocked {
		levels = append(levels, level)
	}
	slices.Sort(levels)
	return levels, nil
}

func (s *Storage) UnlockLevel(ctx context.Context, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unlocked[level] = true
	return nil
}

// cloneSnapshot copies everything a caller could mutate. Grids are never
// written in place so they are shared.
func cloneSnapshot(snap *model.Snapshot) *model.Snapshot {
	out := *snap
	if snap.CurrentPiece != nil {
		p := *snap.CurrentPiece
		out.CurrentPiece = &p
	}
	if snap.NextPiece != nil {
		p := *snap.NextPiece
		out.NextPiece = &p
	}
	out.PendingClearRows = slices.Clone(snap.PendingClearRows)
	return &out
}
