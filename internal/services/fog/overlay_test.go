package fog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/neontetris/internal/model"
)

type OverlaySuite struct {
	suite.Suite
	start   time.Time
	overlay *Overlay
}

func TestOverlaySuite(t *testing.T) {
	suite.Run(t, new(OverlaySuite))
}

func (s *OverlaySuite) SetupTest() {
	s.start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.overlay = NewOverlay(DefaultConfig(), s.start)
}

func (s *OverlaySuite) at(d time.Duration) time.Time {
	return s.start.Add(d)
}

func (s *OverlaySuite) TestVisibleBeforeDelay() {
	s.Equal(model.FogVisible, s.overlay.Phase(s.start))
	s.Equal(model.FogVisible, s.overlay.Phase(s.at(1499*time.Millisecond)))
}

func (s *OverlaySuite) TestHiddenAfterDelay() {
	s.Equal(model.FogHidden, s.overlay.Phase(s.at(1500*time.Millisecond)))
	s.Equal(model.FogHidden, s.overlay.Phase(s.at(6*time.Second)))
}

func (s *OverlaySuite) TestPeriodicFlash() {
	firstFlash := 1500*time.Millisecond + 5*time.Second
	s.Equal(model.FogFlash, s.overlay.Phase(s.at(firstFlash)))
	s.Equal(model.FogFlash, s.overlay.Phase(s.at(firstFlash+299*time.Millisecond)))
	s.Equal(model.FogHidden, s.overlay.Phase(s.at(firstFlash+300*time.Millisecond)))
	s.Equal(model.FogFlash, s.overlay.Phase(s.at(firstFlash+5*time.Second)))
}

func (s *OverlaySuite) TestResetRestoresVisibility() {
	later := s.at(10 * time.Second)
	s.Equal(model.FogHidden, s.overlay.Phase(later))

	s.overlay.Reset(later)
	s.Equal(model.FogVisible, s.overlay.Phase(later))
}

func (s *OverlaySuite) TestNextChange() {
	s.Equal(s.at(1500*time.Millisecond), s.overlay.NextChange(s.start))
	s.Equal(s.at(6500*time.Millisecond), s.overlay.NextChange(s.at(2*time.Second)))
	s.Equal(s.at(6800*time.Millisecond), s.overlay.NextChange(s.at(6600*time.Millisecond)))
	s.Equal(s.at(11500*time.Millisecond), s.overlay.NextChange(s.at(7*time.Second)))
}

func (s *OverlaySuite) TestOpacityHidesOnlyOccupiedCells() {
	grid := model.NewGrid(model.GridWidth, model.GridHeight).
		Place(model.BaseShape(model.ShapeO), model.Position{X: 0, Y: 18}, 2)

	visible := s.overlay.Opacity(grid, s.start)
	s.Equal(1.0, visible[19][0])

	hidden := s.overlay.Opacity(grid, s.at(2*time.Second))
	s.Equal(0.0, hidden[19][0])
	s.Equal(0.0, hidden[18][1])
	s.Equal(1.0, hidden[19][5])
}

func (s *OverlaySuite) TestNoFlashWhenDisabled() {
	overlay := NewOverlay(Config{HideDelay: time.Second}, s.start)
	s.Equal(model.FogHidden, overlay.Phase(s.at(time.Hour)))
	s.True(overlay.NextChange(s.at(2 * time.Second)).IsZero())
}
