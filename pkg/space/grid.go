package space

import "github.com/matzehuels/fixturefit/pkg/geometry"

// Grid is a boolean occupancy grid over a room floor. Cell (i, j) covers
// x ∈ [i·Cell, (i+1)·Cell) and y ∈ [j·Cell, (j+1)·Cell); the last row and
// column are clipped to the room when Cell does not divide it.
//
// Rectangle emptiness queries are answered from a summed-area table that is
// rebuilt lazily after Mark. A Grid is not safe for concurrent mutation.
type Grid struct {
	Room geometry.Room
	Cell int
	Cols int // cells along x
	Rows int // cells along y

	occ   []bool
	sat   []int
	dirty bool
}

// NewGrid returns an empty grid over room. A non-positive cell size is
// treated as 1 cm.
func NewGrid(room geometry.Room, cell int) *Grid {
	if cell <= 0 {
		cell = 1
	}
	cols, rows := ceilDiv(room.Width, cell), ceilDiv(room.Depth, cell)
	return &Grid{
		Room:  room,
		Cell:  cell,
		Cols:  cols,
		Rows:  rows,
		occ:   make([]bool, cols*rows),
		dirty: true,
	}
}

// Mark sets every cell that r overlaps. Parts of r outside the room are
// ignored.
func (g *Grid) Mark(r geometry.Rect) {
	if r.Empty() {
		return
	}
	i0, i1 := max(r.X/g.Cell, 0), min(ceilDiv(r.XEnd(), g.Cell), g.Cols)
	j0, j1 := max(r.Y/g.Cell, 0), min(ceilDiv(r.YEnd(), g.Cell), g.Rows)
	for i := i0; i < i1; i++ {
		for j := j0; j < j1; j++ {
			g.occ[i*g.Rows+j] = true
		}
	}
	g.dirty = true
}

// In reports whether (i, j) is a cell of the grid.
func (g *Grid) In(i, j int) bool {
	return i >= 0 && j >= 0 && i < g.Cols && j < g.Rows
}

// Occupied reports whether cell (i, j) is marked. Cells outside the grid
// count as occupied.
func (g *Grid) Occupied(i, j int) bool {
	if !g.In(i, j) {
		return true
	}
	return g.occ[i*g.Rows+j]
}

// Clear reports whether no cell in [i0,i1)×[j0,j1) is marked. The range is
// clipped to the grid first.
func (g *Grid) Clear(i0, j0, i1, j1 int) bool {
	i0, j0 = max(i0, 0), max(j0, 0)
	i1, j1 = min(i1, g.Cols), min(j1, g.Rows)
	if i0 >= i1 || j0 >= j1 {
		return true
	}
	g.build()
	s := g.Rows + 1
	n := g.sat[i1*s+j1] - g.sat[i0*s+j1] - g.sat[i1*s+j0] + g.sat[i0*s+j0]
	return n == 0
}

// FreeCells returns the number of unmarked cells.
func (g *Grid) FreeCells() int {
	n := 0
	for _, o := range g.occ {
		if !o {
			n++
		}
	}
	return n
}

// CellOf returns the cell containing the point (x, y), clamped to the grid.
func (g *Grid) CellOf(x, y int) (int, int) {
	i := min(max(x/g.Cell, 0), g.Cols-1)
	j := min(max(y/g.Cell, 0), g.Rows-1)
	return i, j
}

// CellRect returns the room rectangle covered by cells [i0,i1)×[j0,j1).
func (g *Grid) CellRect(i0, j0, i1, j1 int) geometry.Rect {
	x0, y0 := i0*g.Cell, j0*g.Cell
	x1, y1 := min(i1*g.Cell, g.Room.Width), min(j1*g.Cell, g.Room.Depth)
	return geometry.Rect{X: x0, Y: y0, Depth: x1 - x0, Width: y1 - y0}
}

// CellCenter returns the room coordinates of a cell's centre.
func (g *Grid) CellCenter(i, j int) (float64, float64) {
	return (float64(i) + 0.5) * float64(g.Cell), (float64(j) + 0.5) * float64(g.Cell)
}

func (g *Grid) build() {
	if !g.dirty {
		return
	}
	s := g.Rows + 1
	if g.sat == nil {
		g.sat = make([]int, (g.Cols+1)*s)
	}
	for i := 0; i < g.Cols; i++ {
		for j := 0; j < g.Rows; j++ {
			v := 0
			if g.occ[i*g.Rows+j] {
				v = 1
			}
			g.sat[(i+1)*s+j+1] = v + g.sat[i*s+j+1] + g.sat[(i+1)*s+j] - g.sat[i*s+j]
		}
	}
	g.dirty = false
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
