package mesh_test

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/lvlset/mesh"
)

// ExampleNew lays out a 3×2 grid and prints the corners of the top-right
// element, counter-clockwise from bottom-left.
func ExampleNew() {
	m, err := mesh.New(3, 2)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	e := m.Elements[m.ElementIndex(2, 1)]
	fmt.Println(m.NumNodes(), m.NumElements())
	corners := make([]string, 0, 4)
	for _, n := range e.Nodes {
		x, y := m.Coordinate(n)
		corners = append(corners, fmt.Sprintf("(%d,%d)", x, y))
	}
	fmt.Println(strings.Join(corners, " "))

	// Output:
	// 12 6
	// (2,1) (3,1) (3,2) (2,2)
}
