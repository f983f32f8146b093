package mesh

// Regions finds the 4-connected groups of elements whose status satisfies
// match. Each region is a slice of element indices in BFS order; regions are
// discovered in row-major order of their first element.
//
// Time:   O(W·H).
// Memory: O(W·H) for visited flags and output.
func (m *Mesh) Regions(match func(ElementStatus) bool) [][]int {
	seen := make([]bool, len(m.Elements))
	var regions [][]int

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i0 := m.ElementIndex(x, y)
			if seen[i0] || !match(m.Elements[i0].Status) {
				continue
			}
			queue := []int{i0}
			seen[i0] = true

			for qi := 0; qi < len(queue); qi++ {
				ux, uy := queue[qi]%m.Width, queue[qi]/m.Width
				for _, d := range m.neighbourOffsets {
					vx, vy := ux+d[0], uy+d[1]
					if vx < 0 || vx >= m.Width || vy < 0 || vy >= m.Height {
						continue
					}
					vi := m.ElementIndex(vx, vy)
					if !seen[vi] && match(m.Elements[vi].Status) {
						seen[vi] = true
						queue = append(queue, vi)
					}
				}
			}
			regions = append(regions, queue)
		}
	}

	return regions
}

// TouchesDomain reports whether any element of region has a corner on the
// outer edge of the grid.
func (m *Mesh) TouchesDomain(region []int) bool {
	for _, e := range region {
		for _, n := range m.Elements[e].Nodes {
			if m.Nodes[n].IsDomain {
				return true
			}
		}
	}

	return false
}
