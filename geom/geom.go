package geom

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon is the coincidence tolerance in grid units. It is shared by point
// deduplication and node classification and must stay at 1e-6.
const Epsilon = 1e-6

// Coord is a position in grid units.
type Coord = r2.Vec

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Coord) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// Coincident reports whether a and b agree within Epsilon in both components.
func Coincident(a, b Coord) bool {
	return math.Abs(a.X-b.X) < Epsilon && math.Abs(a.Y-b.Y) < Epsilon
}

// IsClockwise reports whether p1 precedes p2 when walking around centre,
// starting from twelve o'clock on the left half-plane. Points on the vertical
// through centre are ordered by y; everything else by the sign of
// (p1-centre) x (p2-centre). Collinear points compare equal, so a stable sort
// keeps their discovery order.
func IsClockwise(p1, p2, centre Coord) bool {
	d1 := r2.Sub(p1, centre)
	d2 := r2.Sub(p2, centre)

	if d1.X >= 0 && d2.X < 0 {
		return false
	}
	if d1.X < 0 && d2.X >= 0 {
		return true
	}
	if d1.X == 0 && d2.X == 0 {
		if d1.Y >= 0 || d2.Y >= 0 {
			return p1.Y < p2.Y
		}
		return p2.Y < p1.Y
	}

	return r2.Cross(d1, d2) > 0
}

// SortClockwise orders vertices in place with IsClockwise around centre.
func SortClockwise(vertices []Coord, centre Coord) {
	sort.SliceStable(vertices, func(i, j int) bool {
		return IsClockwise(vertices[i], vertices[j], centre)
	})
}

// Dedup drops vertices coincident with an earlier one, keeping first-seen order.
// Complexity: O(n²), n is at most a handful of vertices per element.
func Dedup(vertices []Coord) []Coord {
	out := vertices[:0]
	for _, v := range vertices {
		dup := false
		for _, u := range out {
			if Coincident(u, v) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}

	return out
}

// PolygonArea sorts vertices around centre and returns the absolute shoelace
// area. vertices is reordered in place. Fewer than three vertices give 0.
func PolygonArea(vertices []Coord, centre Coord) float64 {
	n := len(vertices)
	if n < 3 {
		return 0
	}
	SortClockwise(vertices, centre)

	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += vertices[i].X*vertices[j].Y - vertices[j].X*vertices[i].Y
	}

	return math.Abs(0.5 * area)
}
