package maze

import "math/rand"

// Generate builds a perfect maze of size*size cells with a recursive
// backtracker: every edge starts walled, then passages are carved along
// a randomized depth-first walk. Every cell ends up reachable from
// every other by exactly one path.
func Generate(size int, rng *rand.Rand) *Grid {
	g := NewGrid(size)
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			for _, d := range Directions {
				g.setEdge(x, z, d, true)
			}
		}
	}

	visited := make([]bool, size*size)
	type cell struct{ x, z int }
	stack := []cell{{rng.Intn(size), rng.Intn(size)}}
	visited[stack[0].z*size+stack[0].x] = true

	var order [4]Direction
	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		copy(order[:], Directions[:])
		rng.Shuffle(4, func(i, j int) { order[i], order[j] = order[j], order[i] })

		advanced := false
		for _, d := range order {
			dx, dz := d.Delta()
			nx, nz := cur.x+dx, cur.z+dz
			if !g.InBounds(nx, nz) || visited[nz*size+nx] {
				continue
			}
			g.SetWall(cur.x, cur.z, d, false)
			visited[nz*size+nx] = true
			stack = append(stack, cell{nx, nz})
			advanced = true
			break
		}
		if !advanced {
			stack = stack[:len(stack)-1]
		}
	}
	return g
}

// Braid knocks out interior walls with the given probability, turning
// some dead ends into loops so pursuits have alternate routes. chance
// is clamped to [0, 1].
func (g *Grid) Braid(rng *rand.Rand, chance float64) {
	if chance <= 0 {
		return
	}
	if chance > 1 {
		chance = 1
	}
	for z := 0; z < g.size; z++ {
		for x := 0; x < g.size; x++ {
			for _, d := range [2]Direction{DirSouth, DirEast} {
				dx, dz := d.Delta()
				if !g.InBounds(x+dx, z+dz) {
					continue
				}
				if g.CellAt(x, z).blocked(d) && rng.Float64() < chance {
					g.SetWall(x, z, d, false)
				}
			}
		}
	}
}
