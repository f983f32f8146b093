package optimise

import (
	"errors"

	"gonum.org/v1/gonum/optimize"
)

// Sentinel errors for the velocity solver.
var (
	// ErrNoPoints indicates an empty boundary.
	ErrNoPoints = errors.New("optimise: no boundary points")

	// ErrSensitivityLength indicates a sensitivity vector of length other
	// than one plus the number of constraints.
	ErrSensitivityLength = errors.New("optimise: sensitivity length does not match constraint count")

	// ErrBadLimits indicates move limits that do not bracket zero.
	ErrBadLimits = errors.New("optimise: move limits must satisfy neg <= 0 <= pos")

	// ErrUnknownMethod indicates an unsupported optimisation method.
	ErrUnknownMethod = errors.New("optimise: unknown method")

	// ErrNotConverged indicates the solver found no feasible optimum.
	ErrNotConverged = errors.New("optimise: solver did not converge")
)

// Method selects the inner unconstrained optimiser.
type Method int

const (
	// MethodLBFGS is limited-memory BFGS.
	MethodLBFGS Method = iota
	// MethodBFGS is dense BFGS.
	MethodBFGS
	// MethodNelderMead is the derivative-free simplex method.
	MethodNelderMead
)

// String implements fmt.Stringer.
func (m Method) String() string {
	switch m {
	case MethodLBFGS:
		return "lbfgs"
	case MethodBFGS:
		return "bfgs"
	case MethodNelderMead:
		return "nelder-mead"
	default:
		return "unknown"
	}
}

// ParseMethod maps a name produced by String back to its Method.
func ParseMethod(name string) (Method, error) {
	for _, m := range []Method{MethodLBFGS, MethodBFGS, MethodNelderMead} {
		if m.String() == name {
			return m, nil
		}
	}

	return 0, ErrUnknownMethod
}

// optimizer returns a fresh gonum method; gonum methods carry per-run state.
func (m Method) optimizer() optimize.Method {
	switch m {
	case MethodBFGS:
		return &optimize.BFGS{}
	case MethodNelderMead:
		return &optimize.NelderMead{}
	default:
		return &optimize.LBFGS{}
	}
}

// usesGradient reports whether m needs Problem.Grad.
func (m Method) usesGradient() bool { return m != MethodNelderMead }

// Result is a converged velocity solution.
type Result struct {
	// Lambdas holds the objective multiplier first, then one per constraint.
	Lambdas []float64

	// Velocities holds the clamped normal velocity of every point.
	Velocities []float64

	// ObjectiveChange is the predicted ΔF_0.
	ObjectiveChange float64

	// ConstraintChanges holds the predicted ΔF_i for each constraint.
	ConstraintChanges []float64

	// OuterIterations counts augmented-Lagrangian iterations used.
	OuterIterations int
}
