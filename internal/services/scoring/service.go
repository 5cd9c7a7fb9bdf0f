package scoring

import "time"

// Rules holds the tunable scoring and speed constants
type Rules struct {
	// LinePoints maps lines cleared in one pass to base points.
	// Counts missing from the table score nothing.
	LinePoints map[int]int

	// ComboMultiplier multiplies each clear by the running combo count
	ComboMultiplier bool

	LinesPerLevel int

	// Gravity interval at level 1, decrease per level, and floor
	BaseInterval time.Duration
	IntervalStep time.Duration
	MinInterval  time.Duration
}

// DefaultRules returns the standard scoring table and speed ramp
func DefaultRules() Rules {
	return Rules{
		LinePoints: map[int]int{
			1: 100,
			2: 300,
			3: 500,
			4: 800,
		},
		ComboMultiplier: true,
		LinesPerLevel:   10,
		BaseInterval:    1000 * time.Millisecond,
		IntervalStep:    100 * time.Millisecond,
		MinInterval:     100 * time.Millisecond,
	}
}

// Service computes clear scores, levels and gravity speed
type Service struct {
	rules Rules
}

// New creates a new scoring Service
func New(rules Rules) *Service {
	return &Service{rules: rules}
}

// Rules returns the rules the service applies
func (s *Service) Rules() Rules {
	return s.rules
}

// ClearScore returns the points for clearing lines at once at the given
// level and combo count
func (s *Service) ClearScore(lines, level, combo int) int {
	points := s.rules.LinePoints[lines] * max(level, 1)
	if s.rules.ComboMultiplier {
		points *= max(combo, 1)
	}
	return points
}

// LevelForLines returns the level reached after clearing total lines
func (s *Service) LevelForLines(total int) int {
	if s.rules.LinesPerLevel <= 0 {
		return 1
	}
	return 1 + max(total, 0)/s.rules.LinesPerLevel
}

// DropInterval returns the gravity interval for a level
func (s *Service) DropInterval(level int) time.Duration {
	interval := s.rules.BaseInterval - time.Duration(max(level, 1)-1)*s.rules.IntervalStep
	return max(interval, s.rules.MinInterval)
}
