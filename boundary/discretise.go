package boundary

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/lvlset"
	"github.com/katalvlaran/lvlset/geom"
	"github.com/katalvlaran/lvlset/mesh"
)

// edgeDirections is the unit step along edge j of an element, corner j to j+1.
var edgeDirections = [4]r2.Vec{{X: 1}, {Y: 1}, {X: -1}, {Y: -1}}

// Discretise rebuilds Points and Segments from the signed distance
// (isTarget false) or the target field (isTarget true). Node and element
// statuses and the boundary back-references on the mesh are rewritten.
// Narrow-band activity only restricts the pass when isTarget is false.
//
// Complexity: O(E) for E elements.
func (b *Boundary) Discretise(isTarget bool) error {
	// 1. Select the field
	phi, err := b.levelSet.Field(isTarget)
	if err != nil {
		return fmt.Errorf("Discretise: %w", err)
	}

	// 2. Reset storage and classify
	m := b.mesh
	capacity := max(4, int(0.2*float64(m.NumNodes())))
	b.Points = make([]Point, 0, capacity)
	b.Segments = make([]Segment, 0, capacity)
	b.Length = 0
	m.ResetBoundary()
	classify(m, phi)

	// 3. Walk every element that is not fully void
	for i := range m.Elements {
		if m.Elements[i].Status == mesh.ElementOutside {
			continue
		}
		if err := b.discretiseElement(i, phi, isTarget); err != nil {
			return fmt.Errorf("Discretise: element %d: %w", i, err)
		}
	}
	if len(b.Points) > capacity || len(b.Segments) > capacity {
		lvlset.Logger().Debug("boundary: storage grown",
			"capacity", capacity, "points", len(b.Points), "segments", len(b.Segments))
	}
	b.Points = slices.Clip(b.Points)
	b.Segments = slices.Clip(b.Segments)

	// 4. Integral lengths and connectivity
	b.computePointLengths()

	lvlset.Logger().Debug("boundary: discretised",
		"points", len(b.Points), "segments", len(b.Segments), "length", b.Length, "target", isTarget)

	return nil
}

// classify writes node and element statuses for field phi.
func classify(m *mesh.Mesh, phi []float64) {
	for i := range m.Nodes {
		switch {
		case math.Abs(phi[i]) < geom.Epsilon:
			m.Nodes[i].Status = mesh.NodeBoundary
		case phi[i] > 0:
			m.Nodes[i].Status = mesh.NodeInside
		default:
			m.Nodes[i].Status = mesh.NodeOutside
		}
	}

	for i := range m.Elements {
		var union mesh.NodeStatus
		for _, n := range m.Elements[i].Nodes {
			union |= m.Nodes[n].Status
		}
		switch {
		case union&mesh.NodeOutside == 0:
			m.Elements[i].Status = mesh.ElementInside
		case union&mesh.NodeInside == 0:
			m.Elements[i].Status = mesh.ElementOutside
		default:
			m.Elements[i].Status = mesh.ElementAmbiguous
		}
	}
}

// discretiseElement adds the points and segments owned by element idx.
func (b *Boundary) discretiseElement(idx int, phi []float64, isTarget bool) error {
	m := b.mesh
	e := &m.Elements[idx]

	// 1. Edges: cut points and boundary-to-boundary segments
	cuts := make([]int, 0, 4)
	for j := 0; j < 4; j++ {
		n1, n2 := e.Nodes[j], e.Nodes[(j+1)%4]
		if !isTarget && !(m.Nodes[n1].IsActive && m.Nodes[n2].IsActive) {
			continue
		}
		s1, s2 := m.Nodes[n1].Status, m.Nodes[n2].Status

		switch {
		case s1|s2 == mesh.NodeCut:
			t := phi[n1] / (phi[n1] - phi[n2])
			coord := r2.Add(m.Nodes[n1].Coord, r2.Scale(t, edgeDirections[j]))
			p, ok := b.lookup(n1, coord)
			if !ok {
				p = b.addPoint(coord, n1, n2)
			}
			cuts = append(cuts, p)

		case s1 == mesh.NodeBoundary && s2 == mesh.NodeBoundary:
			if err := b.addSegment(b.nodePoint(n1), b.nodePoint(n2), idx); err != nil {
				return err
			}
		}
	}

	// 2. Interior topology from the number of cuts
	switch len(cuts) {
	case 0:
		if e.Status == mesh.ElementInside {
			return nil
		}
		// Diagonal between two opposite boundary corners.
		corners := make([]int, 0, 2)
		for j, n := range e.Nodes {
			if m.Nodes[n].Status == mesh.NodeBoundary {
				corners = append(corners, j)
			}
		}
		if len(corners) != 2 || corners[1]-corners[0] != 2 {
			return nil
		}
		return b.addSegment(b.nodePoint(e.Nodes[corners[0]]), b.nodePoint(e.Nodes[corners[1]]), idx)

	case 1:
		// Join the cut to every boundary corner that borders void.
		for j, n := range e.Nodes {
			if m.Nodes[n].Status != mesh.NodeBoundary {
				continue
			}
			next := m.Nodes[e.Nodes[(j+1)%4]].Status
			prev := m.Nodes[e.Nodes[(j+3)%4]].Status
			if next == mesh.NodeOutside || prev == mesh.NodeOutside {
				if err := b.addSegment(cuts[0], b.nodePoint(n), idx); err != nil {
					return err
				}
			}
		}

	case 2:
		return b.addSegment(cuts[0], cuts[1], idx)

	case 4:
		// Saddle: the corner sum approximates the centre value.
		var sum float64
		for _, n := range e.Nodes {
			sum += phi[n]
		}
		s0 := m.Nodes[e.Nodes[0]].Status
		if (s0 == mesh.NodeInside && sum > 0) || (s0 == mesh.NodeOutside && sum < 0) {
			if err := b.addSegment(cuts[0], cuts[1], idx); err != nil {
				return err
			}
			if err := b.addSegment(cuts[2], cuts[3], idx); err != nil {
				return err
			}
		} else {
			if err := b.addSegment(cuts[0], cuts[3], idx); err != nil {
				return err
			}
			if err := b.addSegment(cuts[1], cuts[2], idx); err != nil {
				return err
			}
		}
		if sum > 0 {
			e.Status = mesh.ElementCentreInside
		} else {
			e.Status = mesh.ElementCentreOutside
		}

	default:
		lvlset.Logger().Debug("boundary: unexpected cut count", "element", idx, "cuts", len(cuts))
	}

	return nil
}

// lookup finds a point already registered on node within geom.Epsilon of coord.
func (b *Boundary) lookup(node int, coord r2.Vec) (int, bool) {
	for _, p := range b.mesh.Nodes[node].BoundaryPoints {
		if geom.Coincident(b.Points[p].Coord, coord) {
			return p, true
		}
	}

	return 0, false
}

// nodePoint returns the point sitting on a boundary node, creating it once.
func (b *Boundary) nodePoint(node int) int {
	coord := b.mesh.Nodes[node].Coord
	if p, ok := b.lookup(node, coord); ok {
		return p
	}

	return b.addPoint(coord, node)
}

// addPoint appends a point and registers it on each node.
func (b *Boundary) addPoint(coord r2.Vec, nodes ...int) int {
	idx := len(b.Points)
	b.Points = append(b.Points, b.initialisePoint(coord))
	for _, n := range nodes {
		b.mesh.Nodes[n].BoundaryPoints = append(b.mesh.Nodes[n].BoundaryPoints, idx)
	}

	return idx
}

// addSegment appends a segment owned by element and records it on the element.
func (b *Boundary) addSegment(start, end, element int) error {
	length := geom.Distance(b.Points[start].Coord, b.Points[end].Coord)
	if start == end || !(length > 0) {
		return fmt.Errorf("%w: points %d and %d", ErrDegenerateSegment, start, end)
	}
	idx := len(b.Segments)
	b.Segments = append(b.Segments, Segment{
		Start:   start,
		End:     end,
		Element: element,
		Length:  length,
		Weight:  1,
	})
	b.mesh.Elements[element].BoundarySegments = append(b.mesh.Elements[element].BoundarySegments, idx)
	b.Length += length

	return nil
}

// computePointLengths gives each point half of every incident segment and
// fills the neighbour and segment back-references.
func (b *Boundary) computePointLengths() {
	for i := range b.Points {
		b.Points[i].Length = 0
		b.Points[i].Neighbours = b.Points[i].Neighbours[:0]
		b.Points[i].Segments = b.Points[i].Segments[:0]
	}
	for i, s := range b.Segments {
		half := 0.5 * s.Length
		start, end := &b.Points[s.Start], &b.Points[s.End]
		start.Length += half
		end.Length += half
		start.Neighbours = append(start.Neighbours, s.End)
		end.Neighbours = append(end.Neighbours, s.Start)
		start.Segments = append(start.Segments, i)
		end.Segments = append(end.Segments, i)
	}
}
