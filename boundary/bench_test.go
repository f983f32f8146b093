package boundary_test

import (
	"testing"

	"github.com/katalvlaran/lvlset/boundary"
	"github.com/katalvlaran/lvlset/levelset"
	"github.com/katalvlaran/lvlset/mesh"
)

// benchBoundary builds a 200×200 plate with a grid of 16 holes.
func benchBoundary(b *testing.B, opts ...boundary.Option) *boundary.Boundary {
	b.Helper()
	m, err := mesh.New(200, 200)
	if err != nil {
		b.Fatal(err)
	}
	var holes []levelset.Hole
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			holes = append(holes, levelset.Hole{X: 25 + 50*float64(i), Y: 25 + 50*float64(j), R: 12})
		}
	}
	ls, err := levelset.New(m, levelset.WithHoles(holes...))
	if err != nil {
		b.Fatal(err)
	}
	bd, err := boundary.New(ls, opts...)
	if err != nil {
		b.Fatal(err)
	}

	return bd
}

// BenchmarkDiscretise_200x200 measures one full extraction pass over 40,000 elements.
func BenchmarkDiscretise_200x200(b *testing.B) {
	bd := benchBoundary(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := bd.Discretise(false); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkComputeAreaFractions compares the serial pass against four workers.
func BenchmarkComputeAreaFractions(b *testing.B) {
	for _, tc := range []struct {
		name    string
		workers int
	}{
		{"serial", 1},
		{"workers4", 4},
	} {
		b.Run(tc.name, func(b *testing.B) {
			bd := benchBoundary(b, boundary.WithWorkers(tc.workers))
			if err := bd.Discretise(false); err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := bd.ComputeAreaFractions(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkComputeHoles measures the loop count on the extracted graph.
func BenchmarkComputeHoles(b *testing.B) {
	bd := benchBoundary(b)
	if err := bd.Discretise(false); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bd.ComputeHoles()
	}
}
