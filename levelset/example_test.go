package levelset_test

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/lvlset/levelset"
	"github.com/katalvlaran/lvlset/mesh"
)

// ExampleNew carves a hole out of a 10×10 plate and reads the field along
// the middle row.
func ExampleNew() {
	m, _ := mesh.New(10, 10)
	ls, err := levelset.New(m,
		levelset.WithHoles(levelset.Hole{X: 5, Y: 5, R: 2}),
		levelset.WithBandWidth(2),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	row := make([]string, 0, 6)
	for x := 0; x <= 10; x += 2 {
		row = append(row, fmt.Sprintf("%.0f", ls.SignedDistance[m.NodeIndex(x, 5)]))
	}
	fmt.Println(strings.Join(row, " "))
	fmt.Println(len(ls.NarrowBand) > 0)

	// Output:
	// 0 1 -1 -1 1 0
	// true
}
