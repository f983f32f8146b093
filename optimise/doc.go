// Package optimise turns per-point boundary sensitivities into a bounded
// normal velocity for one shape-optimisation step.
//
// What:
//
// Each boundary point p carries sensitivities s_0(p) (objective) and
// s_i(p) (constraints), an integral length l(p) and move limits
// neg(p) <= 0 <= pos(p). For multipliers λ the velocity is
//
//	v(p) = clamp(Σ_k λ_k·s_k(p), neg(p), pos(p))
//
// and the predicted change of function k is ΔF_k = Σ_p s_k(p)·v(p)·l(p).
// Solve finds λ maximising ΔF_0 subject to ΔF_i <= d_i for every constraint
// distance d_i.
//
// How:
//
//   - Functions are scaled to comparable magnitudes before solving.
//   - λ_0 ∈ [0, Λ_0] and λ_i ∈ [-Λ_i, Λ_i], Λ_k being the multiplier at which
//     the last point saturates; bounds are enforced by a smooth logistic
//     change of variables so an unconstrained method can be used.
//   - Past saturation the velocities stop changing, so a small quadratic term
//     on how far the unclamped velocity overshoots its limit keeps a slope
//     back toward the unsaturated region. An outer iteration that ends with a
//     violated constraint whose points are all side-limited bisects λ back
//     toward 0 before continuing.
//   - Constraints enter through an augmented Lagrangian; each outer
//     iteration minimises it with gonum/optimize (L-BFGS by default) and
//     falls back to Nelder–Mead when the gradient method stops early.
//   - Distances below the most negative achievable change are scaled to 90%
//     of that change before solving.
//
// Points whose velocity is clamped, or whose limits coincide, are
// side-limited: they contribute to ΔF_k but not to its gradient.
//
// Errors:
//
//   - ErrNoPoints:          NewSolver was given no points.
//   - ErrSensitivityLength: a point has the wrong number of sensitivities.
//   - ErrBadLimits:         a point has neg > 0, pos < 0 or a NaN limit.
//   - ErrUnknownMethod:     WithMethod named no known method.
//   - ErrNotConverged:      the outer loop ran out of iterations or both
//     methods failed; no result is returned.
package optimise
