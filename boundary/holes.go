package boundary

import (
	"context"
	"log/slog"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/katalvlaran/lvlset"
	"github.com/katalvlaran/lvlset/mesh"
)

// ComputeHoles counts the closed loops of the boundary graph and stores the
// count minus one in Holes: the first loop found is the outer boundary.
// Points without segments are not loops and are skipped. An empty boundary
// has no holes.
//
// The walk uses an explicit stack, so deep loops do not grow the goroutine stack.
// With debug logging enabled the count is cross-checked against
// EnclosedVoids and a mismatch is logged as a warning.
//
// Complexity: O(P + S).
func (b *Boundary) ComputeHoles() int {
	// 1. Points as nodes, segments as edges
	g := simple.NewUndirectedGraph()
	for i := range b.Points {
		g.AddNode(simple.Node(int64(i)))
	}
	for _, s := range b.Segments {
		g.SetEdge(g.NewEdge(simple.Node(int64(s.Start)), simple.Node(int64(s.End))))
	}

	// 2. Depth-first sweep, one component per unvisited start
	visited := make([]bool, len(b.Points))
	stack := make([]int64, 0, len(b.Points))
	loops := 0
	for i := range b.Points {
		if visited[i] || len(b.Points[i].Segments) == 0 {
			continue
		}
		loops++
		visited[i] = true
		stack = append(stack[:0], int64(i))
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			it := g.From(u)
			for it.Next() {
				v := it.Node().ID()
				if !visited[v] {
					visited[v] = true
					stack = append(stack, v)
				}
			}
		}
	}

	b.Holes = max(0, loops-1)

	log := lvlset.Logger()
	if log.Enabled(context.Background(), slog.LevelDebug) {
		voids := b.EnclosedVoids()
		log.Debug("boundary: holes", "loops", loops, "holes", b.Holes, "enclosed_voids", voids)
		if voids != b.Holes {
			log.Warn("boundary: hole count disagrees with enclosed voids",
				"holes", b.Holes, "enclosed_voids", voids)
		}
	}

	return b.Holes
}

// EnclosedVoids counts the 4-connected void regions of the mesh that do not
// reach the domain edge. For a boundary whose outer loop runs along the
// domain edge this matches the hole count. Call after Discretise.
//
// Complexity: O(E).
func (b *Boundary) EnclosedVoids() int {
	m := b.mesh
	voids := m.Regions(func(s mesh.ElementStatus) bool {
		return s == mesh.ElementOutside || s == mesh.ElementCentreOutside
	})
	n := 0
	for _, region := range voids {
		if !m.TouchesDomain(region) {
			n++
		}
	}

	return n
}
