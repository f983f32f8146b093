package boundary

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/lvlset"
	"github.com/katalvlaran/lvlset/geom"
)

// ComputeNormalVectors sets the unit normal of every non-domain point from
// the level-set gradient at nearby narrow-band nodes. A node coincident with
// a point fixes its normal outright; otherwise contributions are weighted by
// inverse squared distance. Normals follow the gradient, pointing into the
// material. Domain points keep a zero normal.
//
// Returns ErrDegenerateGeometry when a non-domain point receives no usable
// contribution.
//
// Complexity: O(B·k) for B narrow-band nodes with at most k points each.
func (b *Boundary) ComputeNormalVectors() error {
	m := b.mesh
	weights := make([]float64, len(b.Points))
	fixed := make([]bool, len(b.Points))
	for i := range b.Points {
		b.Points[i].Normal = r2.Vec{}
	}

	// 1. Scatter node gradients to their points
	for _, node := range b.levelSet.NarrowBand {
		nd := &m.Nodes[node]
		if len(nd.BoundaryPoints) == 0 || nd.IsDomain {
			continue
		}
		gx, gy, ok := b.levelSet.Gradient(node)
		grad := r2.Vec{X: gx, Y: gy}
		norm := r2.Norm(grad)
		if !ok || norm == 0 {
			lvlset.Logger().Debug("boundary: zero gradient", "node", node)
			continue
		}
		grad = r2.Scale(1/norm, grad)

		for _, p := range nd.BoundaryPoints {
			if fixed[p] {
				continue
			}
			rSqd := r2.Norm2(r2.Sub(nd.Coord, b.Points[p].Coord))
			if rSqd < geom.Epsilon {
				b.Points[p].Normal = grad
				weights[p] = 1
				fixed[p] = true
				continue
			}
			b.Points[p].Normal = r2.Add(b.Points[p].Normal, r2.Scale(1/rSqd, grad))
			weights[p] += 1 / rSqd
		}
	}

	// 2. Normalise
	for i := range b.Points {
		p := &b.Points[i]
		if p.IsDomain {
			p.Normal = r2.Vec{}
			continue
		}
		if weights[i] == 0 {
			return fmt.Errorf("ComputeNormalVectors: point %d has no contributing node: %w", i, ErrDegenerateGeometry)
		}
		n := r2.Scale(1/weights[i], p.Normal)
		norm := r2.Norm(n)
		if norm == 0 {
			return fmt.Errorf("ComputeNormalVectors: point %d: %w", i, ErrDegenerateGeometry)
		}
		p.Normal = r2.Scale(1/norm, n)
	}

	return nil
}
