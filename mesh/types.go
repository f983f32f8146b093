package mesh

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r2"
)

// Sentinel errors for mesh operations.
var (
	// ErrEmptyGrid indicates a non-positive width or height.
	ErrEmptyGrid = errors.New("mesh: grid must have at least one element in each direction")
	// ErrOutOfRange indicates node coordinates outside the grid.
	ErrOutOfRange = errors.New("mesh: node coordinates out of range")
)

// NodeStatus classifies a node against the zero contour. Values are bit flags
// so that the union of two edge endpoints can be tested against NodeCut.
type NodeStatus uint8

const (
	// NodeInside marks a positive signed distance (material).
	NodeInside NodeStatus = 1 << iota
	// NodeOutside marks a negative signed distance (void).
	NodeOutside
	// NodeBoundary marks a signed distance within geom.Epsilon of zero.
	NodeBoundary

	// NodeCut is the union of an inside and an outside endpoint.
	NodeCut = NodeInside | NodeOutside
)

// String implements fmt.Stringer.
func (s NodeStatus) String() string {
	switch s {
	case NodeInside:
		return "inside"
	case NodeOutside:
		return "outside"
	case NodeBoundary:
		return "boundary"
	default:
		return "unknown"
	}
}

// ElementStatus classifies an element from its four corners.
type ElementStatus uint8

const (
	// ElementAmbiguous: corners are mixed and the boundary crosses the element.
	ElementAmbiguous ElementStatus = iota
	// ElementInside: no corner is outside.
	ElementInside
	// ElementOutside: no corner is inside.
	ElementOutside
	// ElementCentreInside: all four edges cut, centre resolved as material.
	ElementCentreInside
	// ElementCentreOutside: all four edges cut, centre resolved as void.
	ElementCentreOutside
)

// String implements fmt.Stringer.
func (s ElementStatus) String() string {
	switch s {
	case ElementAmbiguous:
		return "ambiguous"
	case ElementInside:
		return "inside"
	case ElementOutside:
		return "outside"
	case ElementCentreInside:
		return "centre-inside"
	case ElementCentreOutside:
		return "centre-outside"
	default:
		return "unknown"
	}
}

// Node is a grid vertex.
type Node struct {
	Coord r2.Vec // position in grid units
	X, Y  int    // integer grid position

	// IsDomain marks nodes on the outer edge of the grid.
	IsDomain bool

	// Scratch written by the level set and the boundary extractor.
	Status         NodeStatus
	IsActive       bool  // inside the narrow band
	BoundaryPoints []int // indices of boundary points touching this node
}

// Element is a unit square cell.
type Element struct {
	Coord r2.Vec // element centre
	Nodes [4]int // corners, counter-clockwise from bottom-left

	// Scratch written by the boundary extractor.
	Status           ElementStatus
	Area             float64 // material area fraction in [0, 1]
	BoundarySegments []int   // indices of boundary segments owned by this element
}

// Mesh is a Width×Height structured grid of unit elements.
type Mesh struct {
	Width, Height int
	Nodes         []Node
	Elements      []Element

	neighbourOffsets [4][2]int
}
