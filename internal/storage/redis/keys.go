package redis

import (
	"fmt"

	"github.com/mcoot/neontetris/internal/model"
)

// Key prefix for all tetris data
const keyPrefix = "tetris"

// snapshotKey returns the Redis key for a saved session
func snapshotKey(id model.SessionID) string {
	return fmt.Sprintf("%s:snapshot:%s", keyPrefix, id)
}

// snapshotIndexKey returns the Redis key for the SET of saved session IDs
func snapshotIndexKey() string {
	return fmt.Sprintf("%s:idx:snapshots", keyPrefix)
}

// highScoresKey returns the Redis key for a mode's leaderboard
func highScoresKey(mode model.GameMode) string {
	return fmt.Sprintf("%s:highscores:%s", keyPrefix, mode)
}

// unlockedLevelsKey returns the Redis key for the SET of unlocked challenge levels
func unlockedLevelsKey() string {
	return fmt.Sprintf("%s:progress:unlocked", keyPrefix)
}
