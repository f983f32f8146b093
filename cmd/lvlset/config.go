package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvlset/levelset"
)

// Scene describes one optimisation step: the grid, the initial shape and
// the area constraint of the demo problem.
type Scene struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	MoveLimit float64 `yaml:"move_limit"`
	BandWidth float64 `yaml:"band_width"`

	// Holes are carved out of a plate filling the grid. Ignored when Circle is set.
	Holes  []HoleConfig  `yaml:"holes"`
	Circle *CircleConfig `yaml:"circle,omitempty"`

	// MinAreaFraction is the smallest material fraction the step may leave.
	MinAreaFraction float64 `yaml:"min_area_fraction"`

	Method  string `yaml:"method"`
	Workers int    `yaml:"workers"`
}

// HoleConfig is a circular void.
type HoleConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	R float64 `yaml:"r"`
}

// CircleConfig is a circular blob of material.
type CircleConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	R float64 `yaml:"r"`
}

var errInvalidScene = errors.New("invalid scene")

// DefaultScene is a 40×40 plate with two holes.
func DefaultScene() *Scene {
	return &Scene{
		Width:     40,
		Height:    40,
		MoveLimit: levelset.DefaultMoveLimit,
		BandWidth: levelset.DefaultBandWidth,
		Holes: []HoleConfig{
			{X: 12, Y: 20, R: 5},
			{X: 28, Y: 20, R: 5},
		},
		MinAreaFraction: 0.89,
		Method:          "lbfgs",
		Workers:         1,
	}
}

// loadScene reads a YAML scene over the defaults.
func loadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	scene := DefaultScene()
	if err := yaml.Unmarshal(data, scene); err != nil {
		return nil, fmt.Errorf("failed to parse scene file: %w", err)
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}

	return scene, nil
}

// Validate rejects values the library would panic on.
func (s *Scene) Validate() error {
	switch {
	case s.Width < 1 || s.Height < 1:
		return fmt.Errorf("%w: grid %dx%d", errInvalidScene, s.Width, s.Height)
	case !(s.MoveLimit > 0) || math.IsInf(s.MoveLimit, 0):
		return fmt.Errorf("%w: move_limit %g", errInvalidScene, s.MoveLimit)
	case !(s.BandWidth > 0) || math.IsInf(s.BandWidth, 0):
		return fmt.Errorf("%w: band_width %g", errInvalidScene, s.BandWidth)
	case s.MinAreaFraction < 0 || s.MinAreaFraction > 1:
		return fmt.Errorf("%w: min_area_fraction %g", errInvalidScene, s.MinAreaFraction)
	case s.Workers < 1:
		return fmt.Errorf("%w: workers %d", errInvalidScene, s.Workers)
	case s.Circle != nil && !(s.Circle.R > 0):
		return fmt.Errorf("%w: circle radius %g", errInvalidScene, s.Circle.R)
	}
	for i, h := range s.Holes {
		if !(h.R > 0) || math.IsInf(h.R, 0) {
			return fmt.Errorf("%w: hole %d radius %g", errInvalidScene, i, h.R)
		}
	}

	return nil
}

// levelSetOptions translates the scene shape into level-set options.
func (s *Scene) levelSetOptions() []levelset.Option {
	opts := []levelset.Option{
		levelset.WithMoveLimit(s.MoveLimit),
		levelset.WithBandWidth(s.BandWidth),
	}
	if s.Circle != nil {
		return append(opts, levelset.WithFunc(levelset.Circle(s.Circle.X, s.Circle.Y, s.Circle.R)))
	}
	holes := make([]levelset.Hole, len(s.Holes))
	for i, h := range s.Holes {
		holes[i] = levelset.Hole{X: h.X, Y: h.Y, R: h.R}
	}

	return append(opts, levelset.WithHoles(holes...))
}
