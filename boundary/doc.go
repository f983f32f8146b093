// Package boundary reconstructs the zero contour of a level set as a set of
// points and oriented segments, one or two per grid element, and derives the
// measures a shape-optimisation step needs from it.
//
// What:
//
//   - Discretise walks every element that is not fully outside. Edges whose
//     endpoints straddle the contour are cut by linear interpolation; edges
//     whose endpoints both sit on the contour become segments directly. The
//     number of cuts decides the local topology (0 diagonal, 1 cut-to-corner,
//     2 straight, 4 saddle resolved by the sum of the corner values).
//   - ComputeAreaFractions clips each cut element against the boundary and
//     sums the material fractions.
//   - ComputeNormalVectors scatters central-difference gradients from narrow
//     band nodes to nearby points with inverse-square weights.
//   - ComputeHoles counts connected loops with an explicit-stack DFS; the
//     first loop found is the outer boundary and is not a hole.
//   - ComputePerimeter sums the distances from a point to its neighbours.
//
// Shared state:
//
//	Discretise           reads  field, Node.Coord, Node.IsActive
//	                     writes Node.Status, Node.BoundaryPoints,
//	                            Element.Status, Element.BoundarySegments
//	ComputeAreaFractions reads  statuses, Element.BoundarySegments, points
//	                     writes Element.Area
//	ComputeNormalVectors reads  NarrowBand, SignedDistance, Node.BoundaryPoints
//	                     writes Point.Normal
//
// A Boundary and the mesh it mutates belong to one pass at a time; none of
// the methods are safe for concurrent use with each other.
//
// Errors:
//
//   - ErrNilLevelSet:         New was given a nil level set.
//   - ErrDegenerateSegment:   a segment would join a point to itself or have zero length.
//   - ErrDegenerateGeometry:  a normal could not be normalised, or a cut
//     element could not be closed into a polygon.
//   - ErrPointOutOfRange:     a point index is not in Points.
package boundary
