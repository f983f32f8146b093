package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// New builds a width×height mesh of unit elements.
// Returns ErrEmptyGrid if either dimension is not positive.
// Complexity: O(W×H) time and memory.
func New(width, height int) (*Mesh, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyGrid
	}
	m := &Mesh{
		Width:            width,
		Height:           height,
		Nodes:            make([]Node, (width+1)*(height+1)),
		Elements:         make([]Element, width*height),
		neighbourOffsets: [4][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}},
	}

	// 1. Nodes, row-major
	for y := 0; y <= height; y++ {
		for x := 0; x <= width; x++ {
			n := &m.Nodes[m.NodeIndex(x, y)]
			n.X, n.Y = x, y
			n.Coord = r2.Vec{X: float64(x), Y: float64(y)}
			n.IsDomain = x == 0 || y == 0 || x == width || y == height
		}
	}

	// 2. Elements, corners counter-clockwise from bottom-left
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			e := &m.Elements[m.ElementIndex(x, y)]
			e.Coord = r2.Vec{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			e.Nodes = [4]int{
				m.NodeIndex(x, y),
				m.NodeIndex(x+1, y),
				m.NodeIndex(x+1, y+1),
				m.NodeIndex(x, y+1),
			}
		}
	}

	return m, nil
}

// NumNodes returns (Width+1)*(Height+1).
func (m *Mesh) NumNodes() int { return len(m.Nodes) }

// NumElements returns Width*Height.
func (m *Mesh) NumElements() int { return len(m.Elements) }

// InBounds reports whether node (x,y) lies on the grid.
// Complexity: O(1).
func (m *Mesh) InBounds(x, y int) bool {
	return x >= 0 && x <= m.Width && y >= 0 && y <= m.Height
}

// NodeIndex maps node (x,y) to its row-major index. No bounds check.
func (m *Mesh) NodeIndex(x, y int) int {
	return y*(m.Width+1) + x
}

// ElementIndex maps element (x,y) to its row-major index. No bounds check.
func (m *Mesh) ElementIndex(x, y int) int {
	return y*m.Width + x
}

// Coordinate converts a node index back to (x,y).
func (m *Mesh) Coordinate(idx int) (x, y int) {
	return idx % (m.Width + 1), idx / (m.Width + 1)
}

// NodeAt returns the index of node (x,y) or ErrOutOfRange.
func (m *Mesh) NodeAt(x, y int) (int, error) {
	if !m.InBounds(x, y) {
		return 0, fmt.Errorf("NodeAt(%d,%d): %w", x, y, ErrOutOfRange)
	}

	return m.NodeIndex(x, y), nil
}

// Neighbours returns the indices of the orthogonal neighbours of node idx
// that lie on the grid, in +x, +y, -x, -y order.
func (m *Mesh) Neighbours(idx int) []int {
	x, y := m.Coordinate(idx)
	out := make([]int, 0, 4)
	for _, d := range m.neighbourOffsets {
		nx, ny := x+d[0], y+d[1]
		if m.InBounds(nx, ny) {
			out = append(out, m.NodeIndex(nx, ny))
		}
	}

	return out
}

// ResetBoundary clears every boundary back-reference, keeping slice capacity.
func (m *Mesh) ResetBoundary() {
	for i := range m.Nodes {
		m.Nodes[i].BoundaryPoints = m.Nodes[i].BoundaryPoints[:0]
	}
	for i := range m.Elements {
		m.Elements[i].BoundarySegments = m.Elements[i].BoundarySegments[:0]
	}
}
