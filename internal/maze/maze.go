package maze

// Cell describes the wall edges around one grid cell. A true field means a
// wall is present on that edge and movement across it is blocked.
type Cell struct {
	Top    bool // wall toward z-1
	Bottom bool // wall toward z+1
	Left   bool // wall toward x-1
	Right  bool // wall toward x+1
}

// Direction is a single-cell grid step.
type Direction int

const (
	DirNorth Direction = iota // z-1
	DirSouth                  // z+1
	DirWest                   // x-1
	DirEast                   // x+1
)

// Directions lists all four cardinal steps in a fixed order.
var Directions = [4]Direction{DirNorth, DirSouth, DirWest, DirEast}

// Delta returns the grid offset of a step in this direction.
func (d Direction) Delta() (dx, dz int) {
	switch d {
	case DirNorth:
		return 0, -1
	case DirSouth:
		return 0, 1
	case DirWest:
		return -1, 0
	case DirEast:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case DirNorth:
		return "north"
	case DirSouth:
		return "south"
	case DirWest:
		return "west"
	case DirEast:
		return "east"
	}
	return "unknown"
}

// blocked reports whether this cell has a wall on the given edge.
func (c Cell) blocked(d Direction) bool {
	switch d {
	case DirNorth:
		return c.Top
	case DirSouth:
		return c.Bottom
	case DirWest:
		return c.Left
	case DirEast:
		return c.Right
	}
	return true
}

// Grid is a square maze connectivity grid. The outer border is always
// walled; interior walls are whatever the builder configured. The zero
// value is unusable; construct with NewGrid.
type Grid struct {
	size  int
	cells []Cell
}

// NewGrid creates a fully open grid of size*size cells with a solid
// outer border.
func NewGrid(size int) *Grid {
	if size < 1 {
		size = 1
	}
	g := &Grid{
		size:  size,
		cells: make([]Cell, size*size),
	}
	for i := 0; i < size; i++ {
		g.setEdge(i, 0, DirNorth, true)
		g.setEdge(i, size-1, DirSouth, true)
		g.setEdge(0, i, DirWest, true)
		g.setEdge(size-1, i, DirEast, true)
	}
	return g
}

// Size returns the grid edge length in cells.
func (g *Grid) Size() int { return g.size }

// InBounds reports whether (x, z) is a valid cell coordinate.
func (g *Grid) InBounds(x, z int) bool {
	return x >= 0 && x < g.size && z >= 0 && z < g.size
}

// CellAt returns the wall description for a cell. Out-of-bounds
// coordinates read as fully walled.
func (g *Grid) CellAt(x, z int) Cell {
	if !g.InBounds(x, z) {
		return Cell{Top: true, Bottom: true, Left: true, Right: true}
	}
	return g.cells[z*g.size+x]
}

// SetWall places or removes a wall on one edge of a cell, mirroring the
// change on the neighboring cell's opposite edge so connectivity stays
// symmetric. Out-of-bounds cells are ignored.
func (g *Grid) SetWall(x, z int, d Direction, present bool) {
	g.setEdge(x, z, d, present)
	dx, dz := d.Delta()
	g.setEdge(x+dx, z+dz, opposite(d), present)
}

func (g *Grid) setEdge(x, z int, d Direction, present bool) {
	if !g.InBounds(x, z) {
		return
	}
	c := &g.cells[z*g.size+x]
	switch d {
	case DirNorth:
		c.Top = present
	case DirSouth:
		c.Bottom = present
	case DirWest:
		c.Left = present
	case DirEast:
		c.Right = present
	}
}

func opposite(d Direction) Direction {
	switch d {
	case DirNorth:
		return DirSouth
	case DirSouth:
		return DirNorth
	case DirWest:
		return DirEast
	case DirEast:
		return DirWest
	}
	return d
}

// CanStep reports whether a move from (x, z) one cell in direction d is
// permitted by the wall layout and stays inside the grid.
func (g *Grid) CanStep(x, z int, d Direction) bool {
	if !g.InBounds(x, z) {
		return false
	}
	dx, dz := d.Delta()
	if !g.InBounds(x+dx, z+dz) {
		return false
	}
	return !g.CellAt(x, z).blocked(d)
}

// OpenDirections appends every direction open from (x, z) to buf and
// returns it. Passing a reused buffer avoids per-tick allocations.
func (g *Grid) OpenDirections(x, z int, buf []Direction) []Direction {
	buf = buf[:0]
	for _, d := range Directions {
		if g.CanStep(x, z, d) {
			buf = append(buf, d)
		}
	}
	return buf
}
