package optimise

import "math"

const (
	// DefaultMaxIterations bounds the augmented-Lagrangian outer loop.
	DefaultMaxIterations = 50
	// DefaultInnerIterations bounds major iterations of each inner solve.
	DefaultInnerIterations = 500
	// DefaultTolerance is the accepted scaled constraint violation.
	DefaultTolerance = 1e-4
	// DefaultPenalty is the initial augmented-Lagrangian penalty.
	DefaultPenalty = 10.0

	// overshootWeight scales the restoring term on velocities past their limits.
	overshootWeight = 1e-3
	// retreatSteps bounds the bisection back out of a saturated region.
	retreatSteps = 40
	// unreachableFraction scales distances that one step cannot reach.
	unreachableFraction = 0.9
	// maxPenalty caps penalty growth.
	maxPenalty = 1e8
)

const (
	panicMaxIterationsInvalid   = "optimise: WithMaxIterations: count must be positive"
	panicInnerIterationsInvalid = "optimise: WithInnerIterations: count must be positive"
	panicToleranceInvalid       = "optimise: WithTolerance: tolerance must be positive and finite"
	panicPenaltyInvalid         = "optimise: WithPenalty: penalty must be positive and finite"
	panicEvaluateShape          = "optimise: Evaluate: index, lambda or grad does not match the number of functions"
)

// Option configures a Solver.
type Option func(*options)

type options struct {
	method          Method
	maxIterations   int
	innerIterations int
	tolerance       float64
	penalty         float64
}

func defaultOptions() options {
	return options{
		method:          MethodLBFGS,
		maxIterations:   DefaultMaxIterations,
		innerIterations: DefaultInnerIterations,
		tolerance:       DefaultTolerance,
		penalty:         DefaultPenalty,
	}
}

// WithMethod selects the inner optimiser. Unknown values are rejected by NewSolver.
func WithMethod(m Method) Option {
	return func(o *options) { o.method = m }
}

// WithMaxIterations bounds the number of outer iterations.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic(panicMaxIterationsInvalid)
	}
	return func(o *options) { o.maxIterations = n }
}

// WithInnerIterations bounds major iterations of each inner solve.
func WithInnerIterations(n int) Option {
	if n < 1 {
		panic(panicInnerIterationsInvalid)
	}
	return func(o *options) { o.innerIterations = n }
}

// WithTolerance sets the accepted constraint violation, in scaled units.
func WithTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic(panicToleranceInvalid)
	}
	return func(o *options) { o.tolerance = tol }
}

// WithPenalty sets the initial augmented-Lagrangian penalty.
func WithPenalty(rho float64) Option {
	if !(rho > 0) || math.IsInf(rho, 0) {
		panic(panicPenaltyInvalid)
	}
	return func(o *options) { o.penalty = rho }
}
