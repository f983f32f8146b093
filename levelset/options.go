package levelset

import "math"

// Defaults.
const (
	// DefaultMoveLimit is the maximum boundary displacement per step, in grid units.
	DefaultMoveLimit = 0.5
	// DefaultBandWidth is the narrow band half-width, in grid units.
	DefaultBandWidth = 6.0
)

const (
	panicMoveLimitInvalid = "levelset: WithMoveLimit: limit must be finite and positive"
	panicBandWidthInvalid = "levelset: WithBandWidth: width must be finite and positive"
	panicHoleInvalid      = "levelset: WithHoles: radius must be finite and positive"
)

// Hole is a circular void carved out of the default field.
type Hole struct {
	X, Y, R float64
}

// Option configures a LevelSet before construction.
// Constructors panic only on nonsensical values (programmer error).
type Option func(*options)

type options struct {
	moveLimit float64
	bandWidth float64
	values    []float64
	fn        SignedDistanceFunc
	holes     []Hole
	target    []float64
	targetFn  SignedDistanceFunc
}

func defaultOptions() options {
	return options{
		moveLimit: DefaultMoveLimit,
		bandWidth: DefaultBandWidth,
	}
}

// WithMoveLimit sets the per-step move limit.
func WithMoveLimit(limit float64) Option {
	if !(limit > 0) || math.IsInf(limit, 0) {
		panic(panicMoveLimitInvalid)
	}
	return func(o *options) { o.moveLimit = limit }
}

// WithBandWidth sets the narrow band half-width.
func WithBandWidth(width float64) Option {
	if !(width > 0) || math.IsInf(width, 0) {
		panic(panicBandWidthInvalid)
	}
	return func(o *options) { o.bandWidth = width }
}

// WithSignedDistance initialises the field from a nodal array. The slice is copied.
func WithSignedDistance(values []float64) Option {
	return func(o *options) { o.values = append([]float64(nil), values...) }
}

// WithFunc initialises the field by sampling f at every node.
func WithFunc(f SignedDistanceFunc) Option {
	return func(o *options) { o.fn = f }
}

// WithHoles carves circular voids out of the default domain-edge field.
// Ignored when WithSignedDistance or WithFunc is given.
func WithHoles(holes ...Hole) Option {
	for _, h := range holes {
		if !(h.R > 0) || math.IsInf(h.R, 0) {
			panic(panicHoleInvalid)
		}
	}
	return func(o *options) { o.holes = append(o.holes, holes...) }
}

// WithTarget supplies a target field as a nodal array. The slice is copied.
func WithTarget(values []float64) Option {
	return func(o *options) { o.target = append([]float64(nil), values...) }
}

// WithTargetFunc supplies a target field by sampling f at every node.
func WithTargetFunc(f SignedDistanceFunc) Option {
	return func(o *options) { o.targetFn = f }
}
