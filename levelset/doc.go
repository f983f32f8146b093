// Package levelset stores the nodal signed-distance field that the boundary
// package discretises, together with the narrow band of active nodes and the
// per-step move limit.
//
// Sign convention: positive values are material (inside), negative values are
// void (outside), zero is the boundary.
//
// Initialisation, in priority order:
//
//   - WithSignedDistance(values): a full nodal array.
//   - WithFunc(f): sample an analytic SignedDistanceFunc at every node.
//   - default: distance to the closest domain edge, with WithHoles voids
//     carved out, so the outer loop runs along the grid edge.
//
// Options:
//
//   - WithMoveLimit(l):  CFL-style maximum displacement per step (default 0.5).
//   - WithBandWidth(w):  nodes with |φ| < w are active (default 6).
//   - WithTarget(values) / WithTargetFunc(f): optional target field.
//
// Errors:
//
//   - ErrNilMesh:    New was given a nil mesh.
//   - ErrFieldSize:  a nodal array does not match the node count.
//   - ErrNoTarget:   a target field was requested but never supplied.
package levelset
