package access

import (
	"github.com/paulmach/orb"

	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/layout"
	"github.com/matzehuels/fixturefit/pkg/space"
)

// Route is the outcome of the search from one door to one fixture.
type Route struct {
	Door      string `json:"door"`
	Object    int    `json:"object"`
	Name      string `json:"name"`
	Reachable bool   `json:"reachable"`
	// Path runs from the door to the cell next to the fixture, in cm cell
	// centres. It is empty when the fixture is unreachable.
	Path orb.LineString `json:"path,omitempty"`
}

// Pathways summarizes door-to-fixture reachability.
type Pathways struct {
	Routes  []Route `json:"routes"`
	Reached int     `json:"reached"`
	Total   int     `json:"total"`
}

// Fraction returns the share of reachable (door, fixture) pairs. A layout
// without doors or fixtures counts as fully accessible.
func (p Pathways) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Reached) / float64(p.Total)
}

var moves = [8]cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

// AnalyzePathways searches, for every door, an 8-connected route to every
// fixture. Each cell entered needs a clear pathWidth square around it; the
// door cell itself is not checked. A fixture counts as reached when the
// search arrives at one of the probe points around its perimeter.
func AnalyzePathways(l layout.Layout, gridSize, pathWidth int) Pathways {
	var out Pathways
	doors := geometry.Doors(l.Openings)
	if len(doors) == 0 || len(l.Objects) == 0 {
		return out
	}

	g := space.OccupancyGrid(l, gridSize, false)
	r := (pathWidth / g.Cell) / 2
	open := func(c cell) bool {
		return g.Clear(c.i-r, c.j-r, c.i+r+1, c.j+r+1)
	}

	for _, d := range doors {
		start := doorCell(g, l.Room, d)
		parent := search(g, start, open)

		for k, o := range l.Objects {
			route := Route{Door: d.ID, Object: k, Name: o.Name}
			for _, t := range probes(g, o.Rect(), r) {
				if parent[t.i*g.Rows+t.j] < 0 {
					continue
				}
				route.Reachable = true
				route.Path = trace(g, parent, start, t)
				break
			}
			if route.Reachable {
				out.Reached++
			}
			out.Total++
			out.Routes = append(out.Routes, route)
		}
	}
	return out
}

// search runs the BFS and returns each cell's parent index, -1 for cells
// never reached. The start cell is its own parent.
func search(g *space.Grid, start cell, open func(cell) bool) []int {
	parent := make([]int, g.Cols*g.Rows)
	for i := range parent {
		parent[i] = -1
	}
	parent[start.i*g.Rows+start.j] = start.i*g.Rows + start.j

	queue := []cell{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, m := range moves {
			n := cell{c.i + m.i, c.j + m.j}
			if !g.In(n.i, n.j) || parent[n.i*g.Rows+n.j] >= 0 || !open(n) {
				continue
			}
			parent[n.i*g.Rows+n.j] = c.i*g.Rows + c.j
			queue = append(queue, n)
		}
	}
	return parent
}

func trace(g *space.Grid, parent []int, start, end cell) orb.LineString {
	var rev []cell
	for c := end; ; {
		rev = append(rev, c)
		if c == start {
			break
		}
		p := parent[c.i*g.Rows+c.j]
		c = cell{p / g.Rows, p % g.Rows}
	}
	ls := make(orb.LineString, 0, len(rev))
	for k := len(rev) - 1; k >= 0; k-- {
		x, y := g.CellCenter(rev[k].i, rev[k].j)
		ls = append(ls, orb.Point{x, y})
	}
	return ls
}

// probes returns up to 16 cells around footprint f: its corners, edge
// midpoints and quarter points, pushed outward by r+1 cells so that a
// clear square centred there does not touch the fixture.
func probes(g *space.Grid, f geometry.Rect, r int) []cell {
	off := (r + 1) * g.Cell
	x0, x1 := f.X-off, f.XEnd()+off
	y0, y1 := f.Y-off, f.YEnd()+off

	pts := [][2]int{{x0, y0}, {x0, y1}, {x1, y0}, {x1, y1}}
	for q := 1; q <= 3; q++ {
		y := f.Y + f.Width*q/4
		x := f.X + f.Depth*q/4
		pts = append(pts, [2]int{x0, y}, [2]int{x1, y}, [2]int{x, y0}, [2]int{x, y1})
	}

	var out []cell
	for _, p := range pts {
		if p[0] < 0 || p[1] < 0 || p[0] >= g.Room.Width || p[1] >= g.Room.Depth {
			continue
		}
		out = append(out, cell{p[0] / g.Cell, p[1] / g.Cell})
	}
	return out
}
