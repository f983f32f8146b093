package boundary

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/lvlset/geom"
	"github.com/katalvlaran/lvlset/levelset"
	"github.com/katalvlaran/lvlset/mesh"
)

// Boundary is the discretised zero contour of a level set.
type Boundary struct {
	Points   []Point
	Segments []Segment

	// Length is the total segment length after Discretise.
	Length float64
	// Area is the material area after ComputeAreaFractions.
	Area float64
	// Holes is the hole count after ComputeHoles.
	Holes int

	mesh     *mesh.Mesh
	levelSet *levelset.LevelSet
	opts     options
}

// New binds a Boundary to ls and the mesh it was built on. The boundary is
// empty until Discretise runs.
func New(ls *levelset.LevelSet, opts ...Option) (*Boundary, error) {
	if ls == nil || ls.Mesh == nil {
		return nil, ErrNilLevelSet
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Boundary{mesh: ls.Mesh, levelSet: ls, opts: o}, nil
}

// Mesh returns the mesh the boundary writes its scratch fields into.
func (b *Boundary) Mesh() *mesh.Mesh { return b.mesh }

// SetConstraints resizes every point's sensitivity vector to 1+n entries and
// sets the size used for points created by later passes. Existing values are
// kept where they fit.
func (b *Boundary) SetConstraints(n int) {
	if n < 0 {
		panic(panicConstraintsInvalid)
	}
	b.opts.constraints = n
	for i := range b.Points {
		s := make([]float64, 1+n)
		copy(s, b.Points[i].Sensitivities)
		b.Points[i].Sensitivities = s
	}
}

// ComputePerimeter returns the summed distance from a point to its neighbours.
// Complexity: O(deg).
func (b *Boundary) ComputePerimeter(point int) (float64, error) {
	if point < 0 || point >= len(b.Points) {
		return 0, fmt.Errorf("ComputePerimeter(%d): %w", point, ErrPointOutOfRange)
	}
	p := b.Points[point]
	var sum float64
	for _, n := range p.Neighbours {
		sum += geom.Distance(p.Coord, b.Points[n].Coord)
	}

	return sum, nil
}

// initialisePoint fills the per-point limits and the domain flag.
func (b *Boundary) initialisePoint(coord r2.Vec) Point {
	limit := b.levelSet.MoveLimit
	p := Point{
		Coord:         coord,
		NegativeLimit: -limit,
		PositiveLimit: limit,
		Sensitivities: make([]float64, 1+b.opts.constraints),
	}

	// Points close to the domain edge may not retreat past it.
	w, h := float64(b.mesh.Width), float64(b.mesh.Height)
	minBoundary := math.Min(math.Min(coord.X, w-coord.X), math.Min(coord.Y, h-coord.Y))
	if minBoundary < 0.5 {
		p.NegativeLimit = -minBoundary
		if minBoundary < geom.Epsilon {
			p.IsDomain = true
		}
	}

	return p
}
