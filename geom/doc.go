// Package geom holds the planar primitives used by the boundary extractor:
// coordinates, coincidence tests, the clockwise comparator around a centre
// and the shoelace polygon area.
//
// What:
//
//   - Coord is gonum's r2.Vec, so callers can use r2.Add, r2.Sub, r2.Norm freely.
//   - IsClockwise orders two points around a centre (left half first, then by
//     the sign of the cross product).
//   - PolygonArea sorts a vertex set around a centre and applies the shoelace formula.
//
// Complexity:
//
//   - IsClockwise, Distance, Coincident: O(1).
//   - PolygonArea: O(n log n) for the sort, O(n) for the sum.
package geom
