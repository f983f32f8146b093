package boundary_test

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/spatial/r2"
	"pgregory.net/rapid"

	"github.com/katalvlaran/lvlset"
	"github.com/katalvlaran/lvlset/boundary"
	"github.com/katalvlaran/lvlset/levelset"
	"github.com/katalvlaran/lvlset/mesh"
)

const tol = 1e-9

// build discretises a level set created with opts on a w×h mesh.
func build(t require.TestingT, w, h int, opts ...levelset.Option) *boundary.Boundary {
	m, err := mesh.New(w, h)
	require.NoError(t, err)
	ls, err := levelset.New(m, opts...)
	require.NoError(t, err)
	b, err := boundary.New(ls)
	require.NoError(t, err)
	require.NoError(t, b.Discretise(false))
	return b
}

// diamond is a 2×2 mesh with a single material node in the centre.
func diamond(t *testing.T) *boundary.Boundary {
	phi := []float64{
		-1, -1, -1,
		-1, 1, -1,
		-1, -1, -1,
	}
	return build(t, 2, 2, levelset.WithSignedDistance(phi))
}

func coords(b *boundary.Boundary) []r2.Vec {
	out := make([]r2.Vec, len(b.Points))
	for i, p := range b.Points {
		out[i] = p.Coord
	}
	return out
}

func TestNew_NilLevelSet(t *testing.T) {
	_, err := boundary.New(nil)
	assert.ErrorIs(t, err, boundary.ErrNilLevelSet)
}

func TestDiscretise_Diamond(t *testing.T) {
	b := diamond(t)

	assert.ElementsMatch(t, []r2.Vec{
		{X: 1, Y: 0.5}, {X: 0.5, Y: 1}, {X: 1.5, Y: 1}, {X: 1, Y: 1.5},
	}, coords(b))
	require.Len(t, b.Segments, 4)
	assert.InDelta(t, 4*math.Sqrt(0.5), b.Length, tol)

	for _, p := range b.Points {
		assert.InDelta(t, math.Sqrt(0.5), p.Length, tol)
		assert.Len(t, p.Neighbours, 2)
		assert.False(t, p.IsDomain)
		assert.Equal(t, -0.5, p.NegativeLimit)
		assert.Equal(t, 0.5, p.PositiveLimit)
		assert.Len(t, p.Sensitivities, 1+boundary.DefaultConstraints)
	}
	for _, s := range b.Segments {
		assert.Equal(t, 1.0, s.Weight)
		assert.Contains(t, b.Mesh().Elements[s.Element].BoundarySegments, indexOf(b.Segments, s))
	}

	area, err := b.ComputeAreaFractions()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, area, tol)
	for _, e := range b.Mesh().Elements {
		assert.InDelta(t, 0.125, e.Area, tol)
	}

	assert.Equal(t, 0, b.ComputeHoles())

	// Every node around the centre lies on the domain edge and the centre
	// gradient vanishes, so no point receives a normal.
	assert.ErrorIs(t, b.ComputeNormalVectors(), boundary.ErrDegenerateGeometry)
}

// A band narrower than the contour distance hides every cut edge, leaving a
// mixed element with a single material corner to clip.
func TestComputeAreaFractions_DegenerateElement(t *testing.T) {
	phi := []float64{
		2, -2,
		-2, -2,
	}
	for _, workers := range []int{1, 2} {
		m, err := mesh.New(1, 1)
		require.NoError(t, err)
		ls, err := levelset.New(m, levelset.WithSignedDistance(phi), levelset.WithBandWidth(1))
		require.NoError(t, err)
		b, err := boundary.New(ls, boundary.WithWorkers(workers))
		require.NoError(t, err)
		require.NoError(t, b.Discretise(false))
		require.Empty(t, b.Segments)

		_, err = b.ComputeAreaFractions()
		assert.ErrorIs(t, err, boundary.ErrDegenerateGeometry)
	}
}

func indexOf(segments []boundary.Segment, s boundary.Segment) int {
	for i := range segments {
		if segments[i] == s {
			return i
		}
	}
	return -1
}

func TestDiscretise_SaddleCentreInside(t *testing.T) {
	// Corners counter-clockwise from bottom-left: +2, -1, +1, -1.
	b := build(t, 1, 1, levelset.WithSignedDistance([]float64{2, -1, -1, 1}))

	e := b.Mesh().Elements[0]
	assert.Equal(t, mesh.ElementCentreInside, e.Status)
	require.Len(t, b.Segments, 2)

	// Both segments cut off a void corner.
	first := b.Segments[0]
	assert.InDelta(t, 2.0/3, b.Points[first.Start].Coord.X, tol)
	assert.InDelta(t, 0.5, b.Points[first.End].Coord.Y, tol)

	area, err := b.ComputeAreaFractions()
	require.NoError(t, err)
	assert.InDelta(t, 5.0/6, area, tol)
}

func TestDiscretise_SaddleCentreOutside(t *testing.T) {
	// Corners counter-clockwise from bottom-left: +1, -2, +1, -1.
	b := build(t, 1, 1, levelset.WithSignedDistance([]float64{1, -2, -1, 1}))

	assert.Equal(t, mesh.ElementCentreOutside, b.Mesh().Elements[0].Status)
	require.Len(t, b.Segments, 2)

	area, err := b.ComputeAreaFractions()
	require.NoError(t, err)
	assert.InDelta(t, 1.0/6, area, tol)
}

func TestDiscretise_Rectangle(t *testing.T) {
	b := build(t, 40, 40, levelset.WithFunc(levelset.Rectangle(10, 10, 30, 30)))

	assert.InDelta(t, 80, b.Length, tol)
	assert.Len(t, b.Points, 80)

	area, err := b.ComputeAreaFractions()
	require.NoError(t, err)
	assert.InDelta(t, 400, area, tol)

	for _, e := range b.Mesh().Elements {
		switch e.Status {
		case mesh.ElementInside:
			assert.Equal(t, 1.0, e.Area)
		case mesh.ElementOutside:
			assert.Equal(t, 0.0, e.Area)
		}
	}

	require.NoError(t, b.ComputeNormalVectors())
	assert.Equal(t, 0, b.ComputeHoles())
}

func TestDiscretise_Circle(t *testing.T) {
	const r = 10.0
	b := build(t, 40, 40, levelset.WithFunc(levelset.Circle(20, 20, r)))

	assert.InEpsilon(t, 2*math.Pi*r, b.Length, 0.01)

	area, err := b.ComputeAreaFractions()
	require.NoError(t, err)
	assert.InEpsilon(t, math.Pi*r*r, area, 0.01)

	require.NoError(t, b.ComputeNormalVectors())
	centre := r2.Vec{X: 20, Y: 20}
	for i, p := range b.Points {
		assert.InDelta(t, 1, r2.Norm(p.Normal), 1e-9, "point %d", i)
		// The gradient points into the material, towards the centre.
		assert.Positive(t, r2.Dot(p.Normal, r2.Sub(centre, p.Coord)), "point %d", i)
	}

	assert.Equal(t, 0, b.ComputeHoles())
}

func TestDiscretise_Idempotent(t *testing.T) {
	b := build(t, 30, 30, levelset.WithFunc(levelset.Circle(15, 15, 7.3)))
	first := coords(b)
	length := b.Length

	require.NoError(t, b.Discretise(false))
	assert.Equal(t, first, coords(b))
	assert.Equal(t, length, b.Length)
}

func TestDiscretise_LengthSums(t *testing.T) {
	b := build(t, 40, 40, levelset.WithHoles(levelset.Hole{X: 12, Y: 20, R: 5}))

	var segments, points float64
	for _, s := range b.Segments {
		segments += s.Length
	}
	for _, p := range b.Points {
		points += p.Length
	}
	assert.InDelta(t, b.Length, segments, 1e-9)
	assert.InDelta(t, b.Length, points, 1e-9)
}

func TestDiscretise_Target(t *testing.T) {
	m, err := mesh.New(30, 30)
	require.NoError(t, err)
	ls, err := levelset.New(m,
		levelset.WithFunc(levelset.Circle(15, 15, 4)),
		levelset.WithTargetFunc(levelset.Circle(15, 15, 9)),
		levelset.WithBandWidth(1),
	)
	require.NoError(t, err)
	b, err := boundary.New(ls)
	require.NoError(t, err)

	// The target contour lies outside the narrow band but is still extracted.
	require.NoError(t, b.Discretise(true))
	assert.InEpsilon(t, 2*math.Pi*9, b.Length, 0.01)

	require.NoError(t, b.Discretise(false))
	assert.InEpsilon(t, 2*math.Pi*4, b.Length, 0.02)
}

func TestDiscretise_NoTarget(t *testing.T) {
	m, err := mesh.New(4, 4)
	require.NoError(t, err)
	ls, err := levelset.New(m)
	require.NoError(t, err)
	b, err := boundary.New(ls)
	require.NoError(t, err)

	assert.ErrorIs(t, b.Discretise(true), levelset.ErrNoTarget)
}

func TestDiscretise_DomainPoints(t *testing.T) {
	b := build(t, 10, 10)

	require.NotEmpty(t, b.Points)
	for _, p := range b.Points {
		assert.True(t, p.IsDomain)
		assert.Equal(t, 0.0, p.NegativeLimit)
	}
	assert.InDelta(t, 40, b.Length, tol)

	require.NoError(t, b.ComputeNormalVectors())
	for _, p := range b.Points {
		assert.Equal(t, r2.Vec{}, p.Normal)
	}
}

func TestComputeHoles(t *testing.T) {
	cases := []struct {
		name  string
		holes []levelset.Hole
		want  int
	}{
		{"none", nil, 0},
		{"one", []levelset.Hole{{X: 20, Y: 20, R: 5}}, 1},
		{"two", []levelset.Hole{{X: 12, Y: 20, R: 5}, {X: 28, Y: 20, R: 5}}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := build(t, 40, 40, levelset.WithHoles(tc.holes...))

			got := b.ComputeHoles()
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want, b.Holes)

			// Oracle: connected components of the same graph.
			g := simple.NewUndirectedGraph()
			for _, s := range b.Segments {
				u, v := simple.Node(int64(s.Start)), simple.Node(int64(s.End))
				if g.Node(u.ID()) == nil {
					g.AddNode(u)
				}
				if g.Node(v.ID()) == nil {
					g.AddNode(v)
				}
				g.SetEdge(g.NewEdge(u, v))
			}
			assert.Len(t, topo.ConnectedComponents(g), got+1)

			// Each hole encloses a void region away from the domain edge.
			assert.Equal(t, tc.want, b.EnclosedVoids())
		})
	}
}

func TestComputeHoles_DebugCrossCheck(t *testing.T) {
	var buf bytes.Buffer
	lvlset.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer lvlset.SetLogger(nil)

	b := build(t, 40, 40, levelset.WithHoles(
		levelset.Hole{X: 12, Y: 20, R: 5},
		levelset.Hole{X: 28, Y: 20, R: 5},
	))
	require.Equal(t, 2, b.ComputeHoles())

	assert.Contains(t, buf.String(), "enclosed_voids=2")
	assert.NotContains(t, buf.String(), "disagrees")
}

func TestComputeHoles_Empty(t *testing.T) {
	phi := make([]float64, 16)
	for i := range phi {
		phi[i] = -1
	}
	b := build(t, 3, 3, levelset.WithSignedDistance(phi))
	assert.Empty(t, b.Points)
	assert.Equal(t, 0, b.ComputeHoles())

	area, err := b.ComputeAreaFractions()
	require.NoError(t, err)
	assert.Equal(t, 0.0, area)
}

func TestComputePerimeter(t *testing.T) {
	b := diamond(t)

	for i := range b.Points {
		got, err := b.ComputePerimeter(i)
		require.NoError(t, err)
		assert.InDelta(t, math.Sqrt2, got, tol)
	}

	_, err := b.ComputePerimeter(len(b.Points))
	assert.ErrorIs(t, err, boundary.ErrPointOutOfRange)
	_, err = b.ComputePerimeter(-1)
	assert.ErrorIs(t, err, boundary.ErrPointOutOfRange)
}

func TestSetConstraints(t *testing.T) {
	b := diamond(t)
	b.Points[0].Sensitivities[0] = 3

	b.SetConstraints(2)
	for _, p := range b.Points {
		assert.Len(t, p.Sensitivities, 3)
	}
	assert.Equal(t, 3.0, b.Points[0].Sensitivities[0])

	// New passes pick up the new size.
	require.NoError(t, b.Discretise(false))
	assert.Len(t, b.Points[0].Sensitivities, 3)

	assert.Panics(t, func() { b.SetConstraints(-1) })
}

func TestComputeAreaFractions_Workers(t *testing.T) {
	m, err := mesh.New(40, 40)
	require.NoError(t, err)
	ls, err := levelset.New(m, levelset.WithHoles(
		levelset.Hole{X: 12, Y: 20, R: 5},
		levelset.Hole{X: 28, Y: 20, R: 5},
	))
	require.NoError(t, err)

	serial, err := boundary.New(ls)
	require.NoError(t, err)
	require.NoError(t, serial.Discretise(false))
	want, err := serial.ComputeAreaFractions()
	require.NoError(t, err)

	parallel, err := boundary.New(ls, boundary.WithWorkers(4))
	require.NoError(t, err)
	require.NoError(t, parallel.Discretise(false))
	got, err := parallel.ComputeAreaFractions()
	require.NoError(t, err)

	assert.InDelta(t, want, got, 1e-9)
	assert.InEpsilon(t, 1600-2*math.Pi*25, got, 0.01)
}

func TestOptions_PanicOnNonsense(t *testing.T) {
	assert.Panics(t, func() { boundary.WithWorkers(0) })
	assert.Panics(t, func() { boundary.WithConstraints(-1) })
}

func TestWithConstraints(t *testing.T) {
	m, err := mesh.New(2, 2)
	require.NoError(t, err)
	ls, err := levelset.New(m, levelset.WithSignedDistance([]float64{-1, -1, -1, -1, 1, -1, -1, -1, -1}))
	require.NoError(t, err)
	b, err := boundary.New(ls, boundary.WithConstraints(0))
	require.NoError(t, err)
	require.NoError(t, b.Discretise(false))

	for _, p := range b.Points {
		assert.Len(t, p.Sensitivities, 1)
	}
}

// Any circle well inside the grid yields one closed loop whose measures
// approach the analytic ones.
func TestDiscretise_CircleProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cx := rapid.Float64Range(12, 18).Draw(t, "cx")
		cy := rapid.Float64Range(12, 18).Draw(t, "cy")
		r := rapid.Float64Range(3, 8).Draw(t, "r")

		b := build(t, 30, 30, levelset.WithFunc(levelset.Circle(cx, cy, r)))

		var points float64
		for _, p := range b.Points {
			points += p.Length
			require.Len(t, p.Neighbours, 2)
		}
		require.InDelta(t, b.Length, points, 1e-9)
		require.InEpsilon(t, 2*math.Pi*r, b.Length, 0.05)

		area, err := b.ComputeAreaFractions()
		require.NoError(t, err)
		require.InEpsilon(t, math.Pi*r*r, area, 0.05)
		require.Equal(t, 0, b.ComputeHoles())
	})
}
