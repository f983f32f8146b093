package levelset

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/lvlset/mesh"
)

// Sentinel errors for level-set construction.
var (
	// ErrNilMesh indicates New was called without a mesh.
	ErrNilMesh = errors.New("levelset: mesh is nil")
	// ErrFieldSize indicates a nodal array whose length differs from the node count.
	ErrFieldSize = errors.New("levelset: field length does not match node count")
	// ErrNoTarget indicates a target field was requested but not supplied.
	ErrNoTarget = errors.New("levelset: no target field")
)

// LevelSet is the signed-distance field on a mesh.
//
// The boundary package reads SignedDistance (or Target), NarrowBand and
// MoveLimit; UpdateNarrowBand writes Node.IsActive on the mesh.
type LevelSet struct {
	Mesh *mesh.Mesh

	// SignedDistance holds one value per mesh node.
	SignedDistance []float64

	// Target is an optional second field of the same length; nil when unset.
	Target []float64

	// NarrowBand lists active node indices in ascending order.
	NarrowBand []int

	// MoveLimit bounds the boundary displacement per step.
	MoveLimit float64

	// BandWidth is the narrow band half-width.
	BandWidth float64
}

// New builds a level set on m and computes the initial narrow band.
// Complexity: O(N·H) for N nodes and H holes.
func New(m *mesh.Mesh, opts ...Option) (*LevelSet, error) {
	// 1. Validate
	if m == nil {
		return nil, ErrNilMesh
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ls := &LevelSet{
		Mesh:      m,
		MoveLimit: o.moveLimit,
		BandWidth: o.bandWidth,
	}

	// 2. Initial field
	var err error
	switch {
	case o.values != nil:
		if len(o.values) != m.NumNodes() {
			return nil, fmt.Errorf("signed distance has %d values for %d nodes: %w",
				len(o.values), m.NumNodes(), ErrFieldSize)
		}
		ls.SignedDistance = o.values
	case o.fn != nil:
		ls.SignedDistance = ls.sample(o.fn)
	default:
		ls.SignedDistance = ls.domainField(o.holes)
	}

	// 3. Optional target
	switch {
	case o.target != nil:
		if err = ls.SetTarget(o.target); err != nil {
			return nil, err
		}
	case o.targetFn != nil:
		ls.Target = ls.sample(o.targetFn)
	}

	// 4. Narrow band
	ls.UpdateNarrowBand()

	return ls, nil
}

// SetTarget replaces the target field. The slice is copied.
func (ls *LevelSet) SetTarget(values []float64) error {
	if len(values) != ls.Mesh.NumNodes() {
		return fmt.Errorf("target has %d values for %d nodes: %w",
			len(values), ls.Mesh.NumNodes(), ErrFieldSize)
	}
	ls.Target = append(ls.Target[:0], values...)

	return nil
}

// Field returns the target field when isTarget is set, the current field
// otherwise. Returns ErrNoTarget if the target was never supplied.
func (ls *LevelSet) Field(isTarget bool) ([]float64, error) {
	if !isTarget {
		return ls.SignedDistance, nil
	}
	if ls.Target == nil {
		return nil, ErrNoTarget
	}

	return ls.Target, nil
}

// UpdateNarrowBand marks nodes with |φ| < BandWidth active and rebuilds
// NarrowBand. Complexity: O(N).
func (ls *LevelSet) UpdateNarrowBand() {
	ls.NarrowBand = ls.NarrowBand[:0]
	for i := range ls.Mesh.Nodes {
		active := math.Abs(ls.SignedDistance[i]) < ls.BandWidth
		ls.Mesh.Nodes[i].IsActive = active
		if active {
			ls.NarrowBand = append(ls.NarrowBand, i)
		}
	}
}

// Gradient returns the central-difference gradient of the current field at
// an interior node. ok is false for nodes on the domain edge.
func (ls *LevelSet) Gradient(node int) (gx, gy float64, ok bool) {
	m := ls.Mesh
	if m.Nodes[node].IsDomain {
		return 0, 0, false
	}
	x, y := m.Coordinate(node)
	phi := ls.SignedDistance
	gx = 0.5 * (phi[m.NodeIndex(x+1, y)] - phi[m.NodeIndex(x-1, y)])
	gy = 0.5 * (phi[m.NodeIndex(x, y+1)] - phi[m.NodeIndex(x, y-1)])

	return gx, gy, true
}

// sample evaluates f at every node.
func (ls *LevelSet) sample(f SignedDistanceFunc) []float64 {
	out := make([]float64, ls.Mesh.NumNodes())
	for i, n := range ls.Mesh.Nodes {
		out[i] = f(n.Coord.X, n.Coord.Y)
	}

	return out
}

// domainField is the distance to the closest domain edge, with holes carved out.
func (ls *LevelSet) domainField(holes []Hole) []float64 {
	m := ls.Mesh
	w, h := float64(m.Width), float64(m.Height)
	out := make([]float64, m.NumNodes())
	for i, n := range m.Nodes {
		x, y := n.Coord.X, n.Coord.Y
		d := math.Min(math.Min(x, w-x), math.Min(y, h-y))
		for _, hole := range holes {
			d = math.Min(d, math.Hypot(x-hole.X, y-hole.Y)-hole.R)
		}
		out[i] = d
	}

	return out
}
