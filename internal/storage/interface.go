package storage

import (
	"context"

	"github.com/mcoot/neontetris/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Snapshot operations
	SaveSnapshot(ctx context.Context, snap *model.Snapshot) error
	GetSnapshot(ctx context.Context, id model.SessionID) (*model.Snapshot, error)
	DeleteSnapshot(ctx context.Context, id model.SessionID) error
	ListSnapshots(ctx context.Context) ([]model.SessionID, error)

	// High score operations. Lists are stored best first.
	GetHighScores(ctx context.Context, mode model.GameMode) ([]model.HighScore, error)
	SaveHighScores(ctx context.Context, mode model.GameMode, scores []model.HighScore) error

	// Challenge progress operations
	GetUnlockedLevels(ctx context.Context) ([]int, error)
	UnlockLevel(ctx context.Context, level int) error
}
