package boundary

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lvlset"
	"github.com/katalvlaran/lvlset/geom"
	"github.com/katalvlaran/lvlset/mesh"
)

// ComputeAreaFractions writes Element.Area for every element and returns
// their sum, also stored in Area. Inside elements count 1, outside 0; cut
// elements are clipped by their segments. Call after Discretise.
//
// Returns ErrDegenerateGeometry when a cut element cannot be closed into a
// polygon, which happens when a narrow band too thin for the contour hides
// its cut edges.
//
// With WithWorkers(n > 1) the element range is split into n contiguous
// chunks. Each chunk writes only its own elements and the partial sums are
// added in chunk order, so the result does not depend on scheduling.
//
// Complexity: O(E).
func (b *Boundary) ComputeAreaFractions() (float64, error) {
	elements := b.mesh.Elements
	workers := min(b.opts.workers, max(1, len(elements)))
	chunk := (len(elements) + workers - 1) / workers
	partial := make([]float64, workers)

	var g errgroup.Group
	g.SetLimit(workers)
	for w := 0; w < workers; w++ {
		w := w
		lo, hi := w*chunk, min((w+1)*chunk, len(elements))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				area, err := b.elementArea(i)
				if err != nil {
					return err
				}
				elements[i].Area = area
				partial[w] += area
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("ComputeAreaFractions: %w", err)
	}

	b.Area = 0
	for _, a := range partial {
		b.Area += a
	}
	lvlset.Logger().Debug("boundary: area fractions", "area", b.Area, "workers", workers)

	return b.Area, nil
}

// elementArea returns the material fraction of element idx.
func (b *Boundary) elementArea(idx int) (float64, error) {
	switch b.mesh.Elements[idx].Status {
	case mesh.ElementInside:
		return 1, nil
	case mesh.ElementOutside:
		return 0, nil
	default:
		return b.cutArea(idx)
	}
}

// cutArea clips a cut element. The polygon is built from the corners on the
// resolved side, boundary corners flanked by material, and segment endpoints.
// For a void-centred saddle the void polygon is measured and complemented.
func (b *Boundary) cutArea(idx int) (float64, error) {
	m := b.mesh
	e := &m.Elements[idx]

	side := mesh.NodeInside
	if e.Status == mesh.ElementCentreOutside {
		side = mesh.NodeOutside
	}

	vertices := make([]geom.Coord, 0, 8)
	for j, n := range e.Nodes {
		switch m.Nodes[n].Status {
		case side:
			vertices = append(vertices, m.Nodes[n].Coord)
		case mesh.NodeBoundary:
			next := m.Nodes[e.Nodes[(j+1)%4]].Status
			prev := m.Nodes[e.Nodes[(j+3)%4]].Status
			if next == mesh.NodeInside && prev == mesh.NodeInside {
				vertices = append(vertices, m.Nodes[n].Coord)
			}
		}
	}
	for _, s := range e.BoundarySegments {
		seg := b.Segments[s]
		vertices = append(vertices, b.Points[seg.Start].Coord, b.Points[seg.End].Coord)
	}

	vertices = geom.Dedup(vertices)
	if len(vertices) < 3 {
		return 0, fmt.Errorf("element %d (%s) has %d clip vertices: %w",
			idx, e.Status, len(vertices), ErrDegenerateGeometry)
	}
	area := geom.PolygonArea(vertices, e.Coord)
	if e.Status == mesh.ElementCentreOutside {
		return 1 - area, nil
	}

	return area, nil
}
