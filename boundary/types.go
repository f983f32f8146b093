package boundary

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r2"
)

// Sentinel errors for boundary operations.
var (
	// ErrNilLevelSet indicates New was called without a level set.
	ErrNilLevelSet = errors.New("boundary: level set is nil")

	// ErrDegenerateSegment indicates a zero-length or self-joining segment.
	ErrDegenerateSegment = errors.New("boundary: degenerate segment")

	// ErrDegenerateGeometry indicates a zero normalisation divisor, usually a
	// field with no usable gradient next to the boundary.
	ErrDegenerateGeometry = errors.New("boundary: degenerate geometry")

	// ErrPointOutOfRange indicates a point index outside Points.
	ErrPointOutOfRange = errors.New("boundary: point index out of range")
)

// Point is a vertex of the reconstructed boundary.
type Point struct {
	Coord r2.Vec

	// Length is the integral length: half the length of every incident segment.
	Length float64

	// NegativeLimit <= 0 <= PositiveLimit bound the normal displacement per step.
	NegativeLimit float64
	PositiveLimit float64

	// IsDomain marks points lying on the outer edge of the grid.
	IsDomain bool

	// Sensitivities holds the objective first, then one entry per constraint.
	Sensitivities []float64

	// Normal is the unit normal; zero for domain points.
	Normal r2.Vec

	Neighbours []int // adjacent point indices
	Segments   []int // incident segment indices
}

// Segment joins two points inside one element.
type Segment struct {
	Start, End int
	Element    int
	Length     float64
	Weight     float64
}
