package redis

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/neontetris/internal/model"
	"github.com/mcoot/neontetris/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Snapshot operations

func (s *Storage) SaveSnapshot(ctx context.Context, snap *model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, snapshotKey(snap.SessionID), data, s.cfg.SnapshotTTL)
	pipe.SAdd(ctx, snapshotIndexKey(), string(snap.SessionID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSnapshot(ctx context.Context, id model.SessionID) (*model.Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSnapshotNotFound
		}
		return nil, err
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Storage) DeleteSnapshot(ctx context.Context, id model.SessionID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, snapshotKey(id))
	pipe.SRem(ctx, snapshotIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListSnapshots(ctx context.Context) ([]model.SessionID, error) {
	members, err := s.client.SMembers(ctx, snapshotIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []model.SessionID{}, nil
	}

	// Snapshots may have expired out from under the index
	pipe := s.client.Pipeline()
	exists := make([]*redis.IntCmd, len(members))
	for i, id := range members {
		exists[i] = pipe.Exists(ctx, snapshotKey(model.SessionID(id)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	ids := make([]model.SessionID, 0, len(members))
	var stale []any
	for i, id := range members {
		if exists[i].Val() == 0 {
			stale = append(stale, id)
			continue
		}
		ids = append(ids, model.SessionID(id))
	}
	if len(stale) > 0 {
		if err := s.client.SRem(ctx, snapshotIndexKey(), stale...).Err(); err != nil {
			return nil, err
		}
	}

	slices.Sort(ids)
	return ids, nil
}

// High score operations

func (s *Storage) GetHighScores(ctx context.Context, mode model.GameMode) ([]model.HighScore, error) {
	data, err := s.client.Get(ctx, highScoresKey(mode)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []model.HighScore{}, nil
		}
		return nil, err
	}

	var scores []model.HighScore
	if err := json.Unmarshal(data, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func (s *Storage) SaveHighScores(ctx context.Context, mode model.GameMode, scores []model.HighScore) error {
	data, err := json.Marshal(scores)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, highScoresKey(mode), data, 0).Err()
}

// Challenge progress operations

func (s *Storage) GetUnlockedLevels(ctx context.Context) ([]int, error) {
	members, err := s.client.SMembers(ctx, unlockedLevelsKey()).Result()
	if err != nil {
		return nil, err
	}

	levels := make([]int, 0, len(members))
	for _, m := range members {
		level, err := strconv.Atoi(m)
		if err != nil {
			continue // Skip invalid data
		}
		levels = append(levels, level)
	}
	slices.Sort(levels)
	return levels, nil
}

func (s *Storage) UnlockLevel(ctx context.Context, level int) error {
	return s.client.SAdd(ctx, unlockedLevelsKey(), strconv.Itoa(level)).Err()
}
