// Package lvlset reconstructs the zero contour of a signed-distance field
// sampled on a structured grid and turns boundary sensitivities into a
// bounded boundary velocity, the computational core of a level-set shape
// optimisation step.
//
// What is inside:
//
//	geom/       coordinates, clockwise ordering, shoelace polygon area
//	mesh/       structured grid of unit elements with per-node/per-element scratch
//	levelset/   nodal signed distance, optional target field, narrow band, move limit
//	boundary/   interface extraction, area fractions, normals, hole count
//	optimise/   Lagrange-multiplier velocity synthesis on gonum/optimize
//	cmd/lvlset  YAML-driven command line driver
//
// One optimisation step is a strict sequential pipeline:
//
//	ls, _ := levelset.New(m, levelset.WithFunc(levelset.Circle(20, 20, 8)))
//	b, _ := boundary.New(ls)
//	_ = b.Discretise(false)
//	_, _ = b.ComputeAreaFractions()
//	_ = b.ComputeNormalVectors()
//	// fill b.Points[i].Sensitivities ...
//	s, _ := optimise.NewSolver(b.Points, distances)
//	res, err := s.Solve()
//
// Logging is silent by default; see SetLogger.
package lvlset
