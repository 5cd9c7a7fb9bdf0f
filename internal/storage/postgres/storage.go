package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/mcoot/neontetris/internal/model"
	"github.com/mcoot/neontetris/internal/storage"
)

//go:embed schema.sql
var schema string

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New connects to PostgreSQL and applies the schema
func New(cfg Config) (*Storage, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	s := NewWithDB(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB creates a storage on an existing connection pool
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Migrate creates any missing tables
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Snapshot operations

func (s *Storage) SaveSnapshot(ctx context.Context, snap *model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO snapshots (session_id, data, saved_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (session_id) DO UPDATE SET
		data = EXCLUDED.data,
		saved_at = EXCLUDED.saved_at;
	`
	if _, err := s.db.ExecContext(ctx, query, string(snap.SessionID), data, snap.SavedAt); err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

func (s *Storage) GetSnapshot(ctx context.Context, id model.SessionID) (*model.Snapshot, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE session_id = $1;`, string(id)).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE session_id = $1;`, string(id))
	return err
}

func (s *Storage) ListSnapshots(ctx context.Context) ([]model.SessionID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT session_id FROM snapshots ORDER BY session_id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []model.SessionID{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, model.SessionID(id))
	}
	return ids, rows.Err()
}

// High score operations

func (s *Storage) GetHighScores(ctx context.Context, mode model.GameMode) ([]model.HighScore, error) {
	query := `
	SELECT score, lines, level, achieved_at
	FROM high_scores
	WHERE mode = $1
	ORDER BY rank;
	`
	rows, err := s.db.QueryContext(ctx, query, string(mode))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := []model.HighScore{}
	for rows.Next() {
		var hs model.HighScore
		if err := rows.Scan(&hs.Score, &hs.Lines, &hs.Level, &hs.AchievedAt); err != nil {
			return nil, err
		}
		scores = append(scores, hs)
	}
	return scores, rows.Err()
}

// SaveHighScores replaces the mode's leaderboard in one transaction
func (s *Storage) SaveHighScores(ctx context.Context, mode model.GameMode, scores []model.HighScore) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM high_scores WHERE mode = $1;`, string(mode)); err != nil {
		return fmt.Errorf("failed to clear high scores: %w", err)
	}

	query := `
	INSERT INTO high_scores (mode, rank, score, lines, level, achieved_at)
	VALUES ($1, $2, $3, $4, $5, $6);
	`
	for i, hs := range scores {
		if _, err := tx.ExecContext(ctx, query, string(mode), i+1, hs.Score, hs.Lines, hs.Level, hs.AchievedAt); err != nil {
			return fmt.Errorf("failed to insert high score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Challenge progress operations

func (s *Storage) GetUnlockedLevels(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT level FROM unlocked_levels ORDER BY level;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	levels := []int{}
	for rows.Next() {
		var level int
		if err := rows.Scan(&level); err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}

func (s *Storage) UnlockLevel(ctx context.Context, level int) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO unlocked_levels (level) VALUES ($1) ON CONFLICT (level) DO NOTHING;`, level)
	return err
}
