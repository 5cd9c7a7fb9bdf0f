package piece

import (
	"slices"

	"github.com/mcoot/neontetris/internal/dependencies/random"
	"github.com/mcoot/neontetris/internal/model"
)

// Policy selects how shapes are drawn
type Policy string

const (
	// PolicyBag deals all seven shapes in random order before repeating any
	PolicyBag Policy = "bag"
	// PolicyUniform draws each shape independently
	PolicyUniform Policy = "uniform"
)

// Config holds piece factory settings
type Config struct {
	Policy      Policy
	AvoidRepeat bool
	Width       int // Grid width used for the spawn column
}

// DefaultConfig returns the standard 7-bag with anti-repeat
func DefaultConfig() Config {
	return Config{
		Policy:      PolicyBag,
		AvoidRepeat: true,
		Width:       model.GridWidth,
	}
}

// Factory produces the sequence of falling pieces for one engine
type Factory struct {
	random random.Random
	cfg    Config
	bag    []model.ShapeType
	last   model.ShapeType
}

// NewFactory creates a new piece Factory
func NewFactory(rnd random.Random, cfg Config) *Factory {
	if cfg.Width <= 0 {
		cfg.Width = model.GridWidth
	}
	return &Factory{
		random: rnd,
		cfg:    cfg,
	}
}

// Next returns a new piece at the spawn position
func (f *Factory) Next() model.Tetromino {
	var shape model.ShapeType
	if f.cfg.Policy == PolicyUniform {
		shape = f.drawUniform()
	} else {
		shape = f.drawFromBag()
	}
	f.last = shape
	return model.NewTetromino(shape, SpawnPosition(f.cfg.Width, shape))
}

// Seed records the previous shape so anti-repeat carries across a restore
func (f *Factory) Seed(last model.ShapeType) {
	f.last = last
}

func (f *Factory) drawUniform() model.ShapeType {
	n := len(model.ShapeTypes)
	idx := f.random.Intn(n)
	if f.cfg.AvoidRepeat && model.ShapeTypes[idx] == f.last {
		idx = (idx + 1 + f.random.Intn(n-1)) % n
	}
	return model.ShapeTypes[idx]
}

func (f *Factory) drawFromBag() model.ShapeType {
	if len(f.bag) == 0 {
		f.bag = slices.Clone(model.ShapeTypes[:])
	}
	idx := f.random.Intn(len(f.bag))
	if f.cfg.AvoidRepeat && f.bag[idx] == f.last && len(f.bag) > 1 {
		idx = (idx + 1) % len(f.bag)
	}
	shape := f.bag[idx]
	f.bag = slices.Delete(f.bag, idx, idx+1)
	return shape
}

// SpawnPosition returns the top-centre position for a shape in its spawn
// orientation
func SpawnPosition(width int, shape model.ShapeType) model.Position {
	return model.Position{
		X: width/2 - model.BaseShape(shape).Cols()/2,
		Y: 0,
	}
}
