package levelset

import "math"

// SignedDistanceFunc evaluates a signed distance at (x, y): positive inside.
type SignedDistanceFunc func(x, y float64) float64

// Circle is a disc of radius r centred on (cx, cy).
func Circle(cx, cy, r float64) SignedDistanceFunc {
	return func(x, y float64) float64 {
		return r - math.Hypot(x-cx, y-cy)
	}
}

// Rectangle is an axis-aligned box [x0,x1]×[y0,y1]. Exact outside the box
// only along the axes; good enough for seeding a field.
func Rectangle(x0, y0, x1, y1 float64) SignedDistanceFunc {
	return func(x, y float64) float64 {
		return math.Min(math.Min(x-x0, x1-x), math.Min(y-y0, y1-y))
	}
}

// Union is material wherever any of fs is.
func Union(fs ...SignedDistanceFunc) SignedDistanceFunc {
	return func(x, y float64) float64 {
		d := math.Inf(-1)
		for _, f := range fs {
			d = math.Max(d, f(x, y))
		}
		return d
	}
}

// Subtract removes b from a.
func Subtract(a, b SignedDistanceFunc) SignedDistanceFunc {
	return func(x, y float64) float64 {
		return math.Min(a(x, y), -b(x, y))
	}
}
