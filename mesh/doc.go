// Package mesh models the structured grid the level set lives on: a
// Width×Height array of unit square elements over (Width+1)×(Height+1) nodes.
//
// What:
//
//   - Node and Element carry coordinates, connectivity and the mutable scratch
//     fields (status, active flag, boundary back-references, area) that the
//     boundary package rewrites on every discretisation pass.
//   - Element corners are stored counter-clockwise from the bottom-left node,
//     so edge j runs from corner j to corner (j+1)%4 along +x, +y, -x, -y.
//   - Node indices are row-major: NodeIndex(x, y) = y*(Width+1) + x.
//
// Concurrency:
//
//   - A Mesh is a shared mutable snapshot owned by one pass at a time. Nothing
//     here locks; callers serialise passes.
//
// Errors:
//
//   - ErrEmptyGrid:   width or height is not positive.
//   - ErrOutOfRange:  a node lookup fell outside the grid.
package mesh
