package optimise

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/katalvlaran/lvlset"
	"github.com/katalvlaran/lvlset/boundary"
)

// Solver computes boundary velocities from sensitivities. The point data is
// copied, so later changes to the boundary do not affect a Solver.
type Solver struct {
	nFunctions int

	// Per function k, indexed by point.
	sens [][]float64

	lengths []float64
	neg     []float64
	pos     []float64

	distances []float64 // per constraint, after unreachable scaling
	scales    []float64 // per function
	lo, hi    []float64 // multiplier box per function

	// Restoring term on clamped velocities: l/m² per point, 0 when pinned.
	overshootWeights []float64
	overshootScale   float64

	opts options

	// Scratch reused between evaluations.
	velocities  []float64
	sideLimited []bool
	work        []float64
	free        []float64
	excess      []float64 // unclamped minus clamped velocity
}

// NewSolver validates points against constraintDistances and prepares the
// scaled problem.
//
// Complexity: O(P·K) for P points and K functions.
func NewSolver(points []boundary.Point, constraintDistances []float64, opts ...Option) (*Solver, error) {
	// 1. Options
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.method < MethodLBFGS || o.method > MethodNelderMead {
		return nil, fmt.Errorf("NewSolver: method %d: %w", o.method, ErrUnknownMethod)
	}

	// 2. Validate points
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	nf := 1 + len(constraintDistances)
	for i, p := range points {
		if len(p.Sensitivities) != nf {
			return nil, fmt.Errorf("NewSolver: point %d has %d sensitivities, want %d: %w",
				i, len(p.Sensitivities), nf, ErrSensitivityLength)
		}
		if !(p.NegativeLimit <= 0) || !(p.PositiveLimit >= 0) {
			return nil, fmt.Errorf("NewSolver: point %d limits [%g, %g]: %w",
				i, p.NegativeLimit, p.PositiveLimit, ErrBadLimits)
		}
	}

	// 3. Copy into per-function columns
	n := len(points)
	s := &Solver{
		nFunctions:  nf,
		sens:        make([][]float64, nf),
		lengths:     make([]float64, n),
		neg:         make([]float64, n),
		pos:         make([]float64, n),
		distances:   append([]float64(nil), constraintDistances...),
		scales:      make([]float64, nf),
		lo:          make([]float64, nf),
		hi:          make([]float64, nf),
		opts:        o,
		velocities:  make([]float64, n),
		sideLimited: make([]bool, n),
		work:        make([]float64, n),
		free:        make([]float64, n),
		excess:      make([]float64, n),

		overshootWeights: make([]float64, n),
	}
	for k := range s.sens {
		s.sens[k] = make([]float64, n)
	}
	for i, p := range points {
		for k := 0; k < nf; k++ {
			s.sens[k][i] = p.Sensitivities[k]
		}
		s.lengths[i] = p.Length
		s.neg[i] = p.NegativeLimit
		s.pos[i] = p.PositiveLimit
	}

	// 4. Scaling, multiplier bounds and unreachable distances
	s.prepare()

	return s, nil
}

// Distances returns the constraint distances used by Solve, after scaling of
// unreachable targets.
func (s *Solver) Distances() []float64 {
	return append([]float64(nil), s.distances...)
}

// prepare computes per-function scales and multiplier boxes and pulls
// unreachable distances back into range.
func (s *Solver) prepare() {
	for k := 0; k < s.nFunctions; k++ {
		var sum, maxSens float64
		for p, sv := range s.sens[k] {
			sum += math.Abs(sv) * s.maxLimit(p) * s.lengths[p]
			maxSens = math.Max(maxSens, math.Abs(sv))
		}
		s.scales[k] = 1
		if sum > 0 {
			s.scales[k] = 1 / sum
		}

		// Smallest multiplier that saturates the last point that matters.
		bound := 0.0
		for p, sv := range s.sens[k] {
			if a := math.Abs(sv); a > 0 && a >= 1e-3*maxSens {
				bound = math.Max(bound, s.maxLimit(p)/a)
			}
		}
		if bound == 0 {
			bound = 1
		}
		s.hi[k] = bound
		if k > 0 {
			s.lo[k] = -bound
		}
	}

	var total float64
	for p, l := range s.lengths {
		total += l
		if m := s.maxLimit(p); m > 0 {
			s.overshootWeights[p] = l / (m * m)
		}
	}
	if total > 0 {
		s.overshootScale = overshootWeight / total
	}

	for i, d := range s.distances {
		k := i + 1
		var reachable float64
		for p, sv := range s.sens[k] {
			if sv > 0 {
				reachable += sv * s.neg[p] * s.lengths[p]
			} else {
				reachable += sv * s.pos[p] * s.lengths[p]
			}
		}
		if d < reachable {
			s.distances[i] = unreachableFraction * reachable
			lvlset.Logger().Warn("optimise: constraint distance unreachable, scaled",
				"constraint", i, "distance", d, "reachable", reachable, "scaled", s.distances[i])
		}
	}
}

func (s *Solver) maxLimit(p int) float64 {
	return math.Max(-s.neg[p], s.pos[p])
}

// updateVelocities writes clamped velocities, overshoots and side-limited
// flags for lambda.
func (s *Solver) updateVelocities(lambda []float64) {
	for p := range s.velocities {
		var raw float64
		for k, l := range lambda {
			raw += l * s.sens[k][p]
		}
		v := raw
		limited := s.neg[p] == s.pos[p]
		switch {
		case v < s.neg[p]:
			v, limited = s.neg[p], true
		case v > s.pos[p]:
			v, limited = s.pos[p], true
		}
		s.velocities[p] = v
		s.excess[p] = raw - v
		s.sideLimited[p] = limited
		if limited {
			s.free[p] = 0
		} else {
			s.free[p] = s.lengths[p]
		}
	}
}

// change returns ΔF_index for the current velocities and, when grad is not
// nil, its gradient with respect to the multipliers.
func (s *Solver) change(index int, grad []float64) float64 {
	floats.MulTo(s.work, s.velocities, s.lengths)
	value := floats.Dot(s.sens[index], s.work)
	if grad != nil {
		for j := range grad {
			floats.MulTo(s.work, s.sens[j], s.free)
			grad[j] = floats.Dot(s.sens[index], s.work)
		}
	}

	return value
}

// Evaluate returns ΔF_index at lambda and fills grad, when not nil, with
// ∂ΔF_index/∂λ_j. Side-limited points contribute nothing to grad.
//
// Evaluate panics unless 0 <= index < K and lambda, and grad when not nil,
// have exactly K entries, K being one plus the number of constraints.
//
// Complexity: O(P·K).
func (s *Solver) Evaluate(index int, lambda, grad []float64) float64 {
	if index < 0 || index >= s.nFunctions || len(lambda) != s.nFunctions ||
		(grad != nil && len(grad) != s.nFunctions) {
		panic(panicEvaluateShape)
	}
	s.updateVelocities(lambda)
	return s.change(index, grad)
}

// Solve maximises the objective change subject to the constraint distances.
// It returns ErrNotConverged, and no result, when the constraints cannot be
// met within the configured iterations.
func (s *Solver) Solve() (*Result, error) {
	nf := s.nFunctions
	// Logistic coordinates; zero puts λ_0 mid-box and every λ_i at 0.
	z := make([]float64, nf)
	mu := make([]float64, nf-1)
	rho := s.opts.penalty
	prevViolation := math.Inf(1)

	for iter := 1; iter <= s.opts.maxIterations; iter++ {
		// 1. Inner solve at fixed multipliers and penalty
		next, err := s.minimise(z, mu, rho)
		if err != nil {
			return nil, fmt.Errorf("Solve: iteration %d: %v: %w", iter, err, ErrNotConverged)
		}
		z = next

		// 2. Constraint violation in scaled units
		lambda := s.lambdas(z, nil)
		s.updateVelocities(lambda)
		violation := 0.0
		g := make([]float64, nf-1)
		for i := range g {
			g[i] = s.scales[i+1] * (s.change(i+1, nil) - s.distances[i])
			violation = math.Max(violation, g[i])
		}

		// 3. Converged
		if violation <= s.opts.tolerance {
			res := s.result(lambda, iter)
			lvlset.Logger().Info("optimise: converged",
				"iterations", iter, "objective", res.ObjectiveChange, "method", s.opts.method.String())
			return res, nil
		}

		// 4. Stalled: a violated constraint whose points are all side-limited
		// has no slope left; step back toward 0 and keep rho.
		if violated := s.violated(g); s.frozen(lambda, violated) {
			back, ok := s.retreat(lambda, violated)
			if !ok {
				return nil, fmt.Errorf("Solve: iteration %d: saturated: %w", iter, ErrNotConverged)
			}
			z = s.logits(back)
			lvlset.Logger().Debug("optimise: saturated, retreating",
				"iteration", iter, "violation", violation, "lambda", back)
			continue
		}

		// 5. Multiplier and penalty update
		for i := range mu {
			mu[i] = math.Max(0, mu[i]+rho*g[i])
		}
		if violation > 0.25*prevViolation {
			rho = math.Min(rho*10, maxPenalty)
		}
		prevViolation = violation
		lvlset.Logger().Debug("optimise: outer iteration",
			"iteration", iter, "violation", violation, "penalty", rho)
	}

	return nil, fmt.Errorf("Solve: %d iterations: %w", s.opts.maxIterations, ErrNotConverged)
}

// result packages the state for lambda, which must be the last evaluated.
func (s *Solver) result(lambda []float64, iter int) *Result {
	res := &Result{
		Lambdas:           append([]float64(nil), lambda...),
		Velocities:        append([]float64(nil), s.velocities...),
		ConstraintChanges: make([]float64, s.nFunctions-1),
		OuterIterations:   iter,
	}
	res.ObjectiveChange = s.change(0, nil)
	for i := range res.ConstraintChanges {
		res.ConstraintChanges[i] = s.change(i+1, nil)
	}

	return res
}

// lambdas maps logistic coordinates into the multiplier box. When dLambda is
// not nil it receives ∂λ_k/∂z_k.
func (s *Solver) lambdas(z, dLambda []float64) []float64 {
	out := make([]float64, len(z))
	for k, zk := range z {
		sig := 1 / (1 + math.Exp(-zk))
		width := s.hi[k] - s.lo[k]
		out[k] = s.lo[k] + width*sig
		if dLambda != nil {
			dLambda[k] = width * sig * (1 - sig)
		}
	}

	return out
}

// logits inverts lambdas, keeping z finite at the box edges.
func (s *Solver) logits(lambda []float64) []float64 {
	z := make([]float64, len(lambda))
	for k, l := range lambda {
		u := (l - s.lo[k]) / (s.hi[k] - s.lo[k])
		u = math.Min(math.Max(u, 1e-9), 1-1e-9)
		z[k] = math.Log(u / (1 - u))
	}

	return z
}

// violated lists the constraints whose scaled excess is above tolerance.
func (s *Solver) violated(g []float64) []int {
	var out []int
	for i, gi := range g {
		if gi > s.opts.tolerance {
			out = append(out, i)
		}
	}

	return out
}

// frozen reports whether some listed constraint has a zero gradient at lambda.
func (s *Solver) frozen(lambda []float64, constraints []int) bool {
	grad := make([]float64, s.nFunctions)
	for _, i := range constraints {
		s.Evaluate(i+1, lambda, grad)
		if floats.Norm(grad, math.Inf(1)) == 0 {
			return true
		}
	}

	return false
}

// retreat bisects t in [0, 1] for the largest t·lambda at which none of the
// constraints is frozen. The box is star-shaped around 0, so t·lambda stays
// inside it.
func (s *Solver) retreat(lambda []float64, constraints []int) ([]float64, bool) {
	scaled := func(t float64) []float64 {
		out := make([]float64, len(lambda))
		floats.AddScaled(out, t, lambda)
		return out
	}
	if s.frozen(scaled(0), constraints) {
		return nil, false
	}
	lo, hi := 0.0, 1.0
	for i := 0; i < retreatSteps; i++ {
		mid := (lo + hi) / 2
		if s.frozen(scaled(mid), constraints) {
			hi = mid
		} else {
			lo = mid
		}
	}

	return scaled(lo), true
}

// lagrangian is the scaled augmented Lagrangian in logistic coordinates:
//
//	L = -f_0 + (1/2ρ)·Σ_i (max(0, μ_i + ρ·g_i)² - μ_i²) + (c/2)·Σ_p l_p·(e_p/m_p)²
//
// with f_0 the scaled objective change, g_i the scaled constraint excess and
// e_p how far the unclamped velocity of p lies past its limit m_p. The last
// term is zero wherever no point is clamped and otherwise slopes back toward
// the unsaturated region.
func (s *Solver) lagrangian(z, grad, mu []float64, rho float64) float64 {
	nf := s.nFunctions
	dLambda := make([]float64, nf)
	lambda := s.lambdas(z, dLambda)
	s.updateVelocities(lambda)

	var dL []float64
	if grad != nil {
		dL = make([]float64, nf)
	}
	jac := make([]float64, nf)

	value := -s.scales[0] * s.change(0, gradOrNil(grad, jac))
	if grad != nil {
		floats.AddScaled(dL, -s.scales[0], jac)
	}
	for i := range mu {
		k := i + 1
		g := s.scales[k] * (s.change(k, gradOrNil(grad, jac)) - s.distances[i])
		shifted := math.Max(0, mu[i]+rho*g)
		value += (shifted*shifted - mu[i]*mu[i]) / (2 * rho)
		if grad != nil && shifted > 0 {
			floats.AddScaled(dL, shifted*s.scales[k], jac)
		}
	}

	floats.MulTo(s.work, s.excess, s.overshootWeights)
	value += 0.5 * s.overshootScale * floats.Dot(s.work, s.excess)
	if grad != nil {
		for k := range dL {
			dL[k] += s.overshootScale * floats.Dot(s.sens[k], s.work)
		}
		floats.MulTo(grad, dL, dLambda)
	}

	return value
}

func gradOrNil(grad, jac []float64) []float64 {
	if grad == nil {
		return nil
	}
	return jac
}

// minimise runs the configured method from z and falls back to Nelder–Mead
// when it fails or stops early.
func (s *Solver) minimise(z, mu []float64, rho float64) ([]float64, error) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 { return s.lagrangian(x, nil, mu, rho) },
		Grad: func(grad, x []float64) { s.lagrangian(x, grad, mu, rho) },
	}
	settings := &optimize.Settings{
		GradientThreshold: 1e-10,
		MajorIterations:   s.opts.innerIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Relative:   1e-12,
			Iterations: 20,
		},
	}

	method := s.opts.method
	if !method.usesGradient() {
		problem.Grad = nil
	}
	res, err := optimize.Minimize(problem, z, settings, method.optimizer())
	if err == nil && res != nil && !res.Status.Early() {
		return res.X, nil
	}
	if method == MethodNelderMead {
		return nil, minimiseError(res, err)
	}

	// Retry derivative-free from wherever the first method stopped.
	start := z
	if res != nil && len(res.X) == len(z) {
		start = res.X
	}
	lvlset.Logger().Warn("optimise: falling back to nelder-mead",
		"method", method.String(), "status", statusOf(res), "error", err)
	problem.Grad = nil
	settings.MajorIterations = 4 * s.opts.innerIterations
	res, err = optimize.Minimize(problem, start, settings, &optimize.NelderMead{})
	if err == nil && res != nil && !res.Status.Early() {
		return res.X, nil
	}

	return nil, minimiseError(res, err)
}

func statusOf(res *optimize.Result) string {
	if res == nil {
		return "none"
	}
	return res.Status.String()
}

func minimiseError(res *optimize.Result, err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("stopped with status %s", statusOf(res))
}
