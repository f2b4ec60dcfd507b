// Package space finds the free floor of a layout as a set of rectangles.
//
// The floor is rasterized into a [Grid] and the free cells are tiled by a
// greedy scan: for each unvisited free cell a rectangle is grown along y as
// far as the cells stay free, then along x while the whole slice stays free.
// The result is deterministic but not a minimum-count partition.
package space

import (
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/layout"
)

// MinSide is the smallest side (cm) a space must have to be reported by
// Identify.
const MinSide = 30

// Available holds both variants of the free floor.
type Available struct {
	// WithShadow excludes fixtures, their clearances and door swing zones.
	WithShadow []geometry.Rect `json:"with_shadow"`
	// WithoutShadow excludes fixture footprints only.
	WithoutShadow []geometry.Rect `json:"without_shadow"`
}

// OccupancyGrid rasterizes l at the given cell size. Without shadow only
// footprints are marked; with shadow clearances and door zones are marked
// as well.
func OccupancyGrid(l layout.Layout, cell int, shadow bool) *Grid {
	g := NewGrid(l.Room, cell)
	for _, o := range l.Objects {
		g.Mark(o.Rect())
		if shadow {
			g.Mark(o.Shadow(l.Room))
		}
	}
	if shadow {
		for _, d := range geometry.Doors(l.Openings) {
			g.Mark(d.Zone(l.Room))
		}
	}
	return g
}

// Partition tiles the free cells of g with rectangles. Every free cell ends
// up in exactly one rectangle and no rectangle contains a marked cell.
func Partition(g *Grid) []geometry.Rect {
	visited := make([]bool, g.Cols*g.Rows)
	open := func(i, j int) bool {
		return !g.occ[i*g.Rows+j] && !visited[i*g.Rows+j]
	}

	var out []geometry.Rect
	for i := 0; i < g.Cols; i++ {
		for j := 0; j < g.Rows; j++ {
			if !open(i, j) {
				continue
			}
			j1 := j + 1
			for j1 < g.Rows && open(i, j1) {
				j1++
			}
			i1 := i + 1
			for i1 < g.Cols && sliceOpen(open, i1, j, j1) {
				i1++
			}
			for a := i; a < i1; a++ {
				for b := j; b < j1; b++ {
					visited[a*g.Rows+b] = true
				}
			}
			out = append(out, g.CellRect(i, j, i1, j1))
		}
	}
	return out
}

func sliceOpen(open func(i, j int) bool, i, j0, j1 int) bool {
	for j := j0; j < j1; j++ {
		if !open(i, j) {
			return false
		}
	}
	return true
}

// Filter drops rectangles with a side shorter than minSide cm.
func Filter(rects []geometry.Rect, minSide int) []geometry.Rect {
	var out []geometry.Rect
	for _, r := range rects {
		if r.Width >= minSide && r.Depth >= minSide {
			out = append(out, r)
		}
	}
	return out
}

// Identify computes both available-space variants of l at the given grid
// resolution, keeping only spaces at least MinSide on each side.
func Identify(l layout.Layout, gridSize int) Available {
	return Available{
		WithShadow:    Filter(Partition(OccupancyGrid(l, gridSize, true)), MinSide),
		WithoutShadow: Filter(Partition(OccupancyGrid(l, gridSize, false)), MinSide),
	}
}

// Area sums the areas of rects.
func Area(rects []geometry.Rect) int {
	n := 0
	for _, r := range rects {
		n += r.Area()
	}
	return n
}
