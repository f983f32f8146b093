package boundary

const (
	// DefaultConstraints is the number of constraint sensitivities allocated per point.
	DefaultConstraints = 1
	// DefaultWorkers runs the area pass on the calling goroutine.
	DefaultWorkers = 1
)

const (
	panicConstraintsInvalid = "boundary: WithConstraints: count must be non-negative"
	panicWorkersInvalid     = "boundary: WithWorkers: count must be positive"
)

// Option configures a Boundary.
type Option func(*options)

type options struct {
	constraints int
	workers     int
}

func defaultOptions() options {
	return options{
		constraints: DefaultConstraints,
		workers:     DefaultWorkers,
	}
}

// WithConstraints sets how many constraint sensitivities each new point carries.
func WithConstraints(n int) Option {
	if n < 0 {
		panic(panicConstraintsInvalid)
	}
	return func(o *options) { o.constraints = n }
}

// WithWorkers splits the area-fraction element loop across n goroutines.
// Each goroutine writes a disjoint range of elements.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}
	return func(o *options) { o.workers = n }
}
