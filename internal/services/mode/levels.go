package mode

import (
	"fmt"
	"slices"

	"github.com/mcoot/neontetris/internal/model"
)

// bottomRows pads rows with empty rows above them to a full-height grid
func bottomRows(rows ...[]int) [][]int {
	grid := make([][]int, 0, model.GridHeight)
	for i := 0; i < model.GridHeight-len(rows); i++ {
		grid = append(grid, make([]int, model.GridWidth))
	}
	return append(grid, rows...)
}

var challengeLevels = []model.ChallengeLevelConfig{
	{Level: 1, TargetType: model.TargetLines, TargetValue: 3, PiecesLimit: 18, PresetGrid: bottomRows(
		[]int{1, 1, 1, 1, 1, 1, 1, 1, 0, 1},
		[]int{0, 0, 0, 0, 0, 0, 0, 0, 1, 0},
	)},
	{Level: 2, TargetType: model.TargetScore, TargetValue: 500, PiecesLimit: 15, PresetGrid: bottomRows(
		[]int{2, 2, 2, 2, 0, 2, 2, 2, 2, 2},
	)},
	{Level: 3, TargetType: model.TargetLines, TargetValue: 4, PiecesLimit: 18, PresetGrid: bottomRows(
		[]int{3, 0, 3, 0, 3, 3, 3, 3, 3, 0},
		[]int{1, 1, 1, 1, 1, 1, 1, 1, 0, 1},
		[]int{0, 4, 0, 4, 0, 0, 4, 4, 4, 0},
	)},
	{Level: 4, TargetType: model.TargetScore, TargetValue: 800, PiecesLimit: 20, PresetGrid: bottomRows(
		[]int{5, 5, 5, 5, 5, 0, 0, 0, 0, 0},
		[]int{0, 0, 5, 5, 5, 5, 5, 5, 5, 0},
	)},
	{Level: 5, TargetType: model.TargetLines, TargetValue: 5, PiecesLimit: 22, PresetGrid: bottomRows(
		[]int{0, 6, 0, 6, 6, 6, 6, 6, 6, 0},
		[]int{2, 2, 2, 2, 2, 2, 0, 2, 2, 2},
		[]int{1, 1, 1, 1, 1, 1, 1, 0, 1, 1},
		[]int{3, 3, 3, 3, 3, 0, 3, 3, 3, 3},
	)},
	{Level: 6, TargetType: model.TargetScore, TargetValue: 1200, PiecesLimit: 25, PresetGrid: bottomRows(
		[]int{4, 4, 4, 4, 4, 4, 4, 4, 0, 4},
		[]int{7, 7, 7, 7, 7, 7, 7, 7, 0, 7},
		[]int{0, 0, 0, 0, 0, 7, 7, 7, 7, 7},
	)},
	{Level: 7, TargetType: model.TargetLines, TargetValue: 6, PiecesLimit: 28, PresetGrid: bottomRows(
		[]int{8, 0, 8, 8, 8, 8, 8, 8, 8, 0},
		[]int{5, 5, 5, 5, 5, 5, 5, 5, 0, 5},
		[]int{1, 1, 1, 0, 1, 1, 1, 1, 1, 1},
		[]int{2, 2, 2, 2, 2, 2, 2, 2, 0, 2},
		[]int{3, 3, 3, 3, 3, 3, 3, 3, 0, 3},
	)},
	{Level: 8, TargetType: model.TargetScore, TargetValue: 1600, PiecesLimit: 30, PresetGrid: bottomRows(
		[]int{6, 0, 6, 0, 6, 0, 6, 0, 6, 0},
		[]int{4, 4, 4, 4, 4, 4, 4, 4, 4, 4},
		[]int{9, 9, 9, 9, 9, 9, 0, 9, 9, 0},
		[]int{0, 9, 9, 9, 9, 9, 9, 9, 9, 9},
	)},
	{Level: 9, TargetType: model.TargetLines, TargetValue: 7, PiecesLimit: 32, PresetGrid: bottomRows(
		[]int{0, 10, 0, 10, 10, 10, 10, 10, 10, 0},
		[]int{7, 7, 7, 7, 7, 7, 0, 7, 7, 7},
		[]int{5, 5, 5, 5, 5, 0, 5, 5, 5, 5},
		[]int{3, 3, 3, 3, 3, 3, 3, 0, 3, 3},
		[]int{1, 1, 1, 1, 1, 1, 1, 1, 0, 1},
		[]int{2, 2, 2, 2, 2, 2, 2, 2, 0, 2},
	)},
	{Level: 10, TargetType: model.TargetScore, TargetValue: 2000, PiecesLimit: 35, PresetGrid: bottomRows(
		[]int{4, 4, 0, 4, 4, 4, 4, 4, 4, 4},
		[]int{0, 6, 0, 6, 6, 6, 6, 6, 6, 0},
		[]int{8, 8, 8, 8, 8, 8, 0, 8, 8, 8},
		[]int{1, 1, 1, 1, 1, 1, 1, 1, 0, 1},
		[]int{2, 2, 0, 2, 2, 2, 2, 2, 2, 2},
	)},
	{Level: 11, TargetType: model.TargetLines, TargetValue: 8, PiecesLimit: 38, PresetGrid: bottomRows(
		[]int{9, 0, 9, 0, 9, 9, 9, 9, 9, 0},
		[]int{7, 7, 7, 7, 7, 7, 7, 7, 0, 7},
		[]int{5, 5, 0, 5, 5, 5, 5, 5, 5, 5},
		[]int{3, 3, 3, 3, 3, 3, 0, 3, 3, 3},
		[]int{1, 1, 1, 1, 1, 1, 1, 0, 1, 1},
		[]int{2, 2, 2, 2, 2, 2, 2, 2, 0, 2},
		[]int{4, 4, 4, 4, 4, 4, 4, 4, 0, 4},
	)},
	{Level: 12, TargetType: model.TargetScore, TargetValue: 2500, PiecesLimit: 40, PresetGrid: bottomRows(
		[]int{6, 0, 6, 6, 0, 6, 6, 6, 6, 6},
		[]int{0, 8, 0, 8, 8, 8, 8, 8, 8, 0},
		[]int{10, 10, 10, 10, 10, 10, 10, 10, 0, 10},
		[]int{1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
		[]int{2, 2, 2, 2, 2, 2, 2, 2, 2, 0},
		[]int{3, 3, 3, 3, 3, 3, 3, 3, 3, 0},
	)},
	{Level: 13, TargetType: model.TargetLines, TargetValue: 9, PiecesLimit: 42, PresetGrid: bottomRows(
		[]int{0, 11, 0, 11, 0, 11, 11, 11, 11, 0},
		[]int{9, 9, 9, 9, 9, 9, 0, 9, 9, 9},
		[]int{7, 7, 0, 7, 7, 7, 7, 7, 7, 7},
		[]int{5, 5, 5, 5, 5, 5, 0, 5, 5, 5},
		[]int{3, 3, 3, 3, 3, 0, 3, 3, 3, 3},
		[]int{1, 1, 1, 1, 1, 1, 1, 1, 0, 1},
		[]int{2, 2, 2, 2, 2, 2, 2, 0, 2, 2},
		[]int{4, 4, 4, 4, 0, 4, 4, 4, 4, 4},
	)},
	{Level: 14, TargetType: model.TargetScore, TargetValue: 3000, PiecesLimit: 45, PresetGrid: bottomRows(
		[]int{12, 12, 12, 12, 0, 12, 12, 12, 12, 12},
		[]int{0, 10, 0, 10, 10, 0, 10, 10, 10, 0},
		[]int{8, 8, 8, 8, 8, 8, 8, 8, 0, 8},
		[]int{6, 6, 6, 6, 6, 6, 6, 6, 6, 0},
		[]int{4, 4, 4, 4, 4, 4, 4, 4, 4, 4},
		[]int{2, 2, 2, 2, 2, 2, 2, 2, 0, 2},
		[]int{1, 1, 1, 1, 1, 1, 1, 1, 0, 1},
	)},
	{Level: 15, TargetType: model.TargetLines, TargetValue: 10, PiecesLimit: 48, PresetGrid: bottomRows(
		[]int{0, 13, 0, 13, 0, 13, 0, 13, 13, 0},
		[]int{11, 11, 11, 11, 11, 11, 11, 0, 11, 11},
		[]int{9, 9, 0, 9, 9, 9, 9, 9, 9, 9},
		[]int{7, 7, 7, 7, 7, 7, 0, 7, 7, 7},
		[]int{5, 5, 5, 5, 5, 0, 5, 5, 5, 5},
		[]int{3, 3, 3, 3, 3, 3, 3, 3, 0, 3},
		[]int{1, 1, 1, 1, 1, 1, 1, 1, 0, 1},
		[]int{2, 2, 2, 2, 2, 2, 0, 2, 2, 2},
		[]int{4, 4, 0, 4, 4, 4, 4, 4, 4, 4},
	)},
}

// ChallengeLevel returns a copy of the numbered challenge level
func ChallengeLevel(level int) (model.ChallengeLevelConfig, error) {
	for _, cfg := range challengeLevels {
		if cfg.Level == level {
			return cloneLevel(cfg), nil
		}
	}
	return model.ChallengeLevelConfig{}, fmt.Errorf("%w: %d", model.ErrChallengeLevelNotFound, level)
}

// ChallengeLevels returns copies of every challenge level in order
func ChallengeLevels() []model.ChallengeLevelConfig {
	out := make([]model.ChallengeLevelConfig, len(challengeLevels))
	for i, cfg := range challengeLevels {
		out[i] = cloneLevel(cfg)
	}
	return out
}

// LastChallengeLevel returns the highest level number
func LastChallengeLevel() int {
	return challengeLevels[len(challengeLevels)-1].Level
}

func cloneLevel(cfg model.ChallengeLevelConfig) model.ChallengeLevelConfig {
	grid := make([][]int, len(cfg.PresetGrid))
	for i, row := range cfg.PresetGrid {
		grid[i] = slices.Clone(row)
	}
	cfg.PresetGrid = grid
	return cfg
}
