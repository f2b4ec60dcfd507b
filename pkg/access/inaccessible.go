package access

import (
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/layout"
	"github.com/matzehuels/fixturefit/pkg/space"
)

// Spaces splits a set of free-floor rectangles by reachability.
type Spaces struct {
	Accessible   []geometry.Rect `json:"accessible"`
	Inaccessible []geometry.Rect `json:"inaccessible"`
}

// AllAccessible reports whether no space was found unreachable.
func (s Spaces) AllAccessible() bool { return len(s.Inaccessible) == 0 }

// MarkInaccessible classifies spaces by whether a person needing a
// minPathWidth-wide corridor can walk into them from a door.
//
// A cell is traversable when the minPathWidth window centred on it is free
// both along x and along y. The flood fill starts from every traversable
// door entry cell and moves between 4-connected traversable cells. A space
// is accessible when at least one of its cells was reached.
func MarkInaccessible(spaces []geometry.Rect, l layout.Layout, gridSize, minPathWidth int) Spaces {
	g := space.OccupancyGrid(l, gridSize, false)
	half := (minPathWidth / g.Cell) / 2

	traversable := func(c cell) bool {
		return g.Clear(c.i, c.j-half, c.i+1, c.j+half+1) &&
			g.Clear(c.i-half, c.j, c.i+half+1, c.j+1)
	}

	visited := make([]bool, g.Cols*g.Rows)
	var queue []cell
	for _, c := range entryCells(g, l.Openings) {
		if !g.Occupied(c.i, c.j) && traversable(c) && !visited[c.i*g.Rows+c.j] {
			visited[c.i*g.Rows+c.j] = true
			queue = append(queue, c)
		}
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range [4]cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			n := cell{c.i + d.i, c.j + d.j}
			if !g.In(n.i, n.j) || visited[n.i*g.Rows+n.j] || g.Occupied(n.i, n.j) || !traversable(n) {
				continue
			}
			visited[n.i*g.Rows+n.j] = true
			queue = append(queue, n)
		}
	}

	var out Spaces
	for _, s := range spaces {
		if reached(g, visited, s) {
			out.Accessible = append(out.Accessible, s)
		} else {
			out.Inaccessible = append(out.Inaccessible, s)
		}
	}
	return out
}

func reached(g *space.Grid, visited []bool, r geometry.Rect) bool {
	i0, j0 := max(r.X/g.Cell, 0), max(r.Y/g.Cell, 0)
	i1 := min((r.XEnd()+g.Cell-1)/g.Cell, g.Cols)
	j1 := min((r.YEnd()+g.Cell-1)/g.Cell, g.Rows)
	for i := i0; i < i1; i++ {
		for j := j0; j < j1; j++ {
			if visited[i*g.Rows+j] {
				return true
			}
		}
	}
	return false
}
