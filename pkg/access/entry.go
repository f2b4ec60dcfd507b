package access

import (
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/space"
)

type cell struct{ i, j int }

// entryCells returns the grid cells along the wall edge of every door. A
// room without doors is entered from the midpoint of each wall.
func entryCells(g *space.Grid, openings []geometry.Opening) []cell {
	doors := geometry.Doors(openings)
	if len(doors) == 0 {
		return []cell{
			{0, g.Rows / 2},
			{g.Cols - 1, g.Rows / 2},
			{g.Cols / 2, 0},
			{g.Cols / 2, g.Rows - 1},
		}
	}

	var out []cell
	for _, d := range doors {
		lo := d.Offset() / g.Cell
		hi := (d.Offset() + d.Width + g.Cell - 1) / g.Cell
		for k := lo; k < hi; k++ {
			var c cell
			switch d.Wall {
			case geometry.WallTop:
				c = cell{0, k}
			case geometry.WallBottom:
				c = cell{g.Cols - 1, k}
			case geometry.WallLeft:
				c = cell{k, 0}
			case geometry.WallRight:
				c = cell{k, g.Rows - 1}
			}
			if g.In(c.i, c.j) {
				out = append(out, c)
			}
		}
	}
	return out
}

// doorCell returns the cell at the middle of a door's span on its wall.
func doorCell(g *space.Grid, room geometry.Room, d geometry.Opening) cell {
	mid := d.Offset() + d.Width/2
	var i, j int
	switch d.Wall {
	case geometry.WallTop:
		i, j = g.CellOf(0, mid)
	case geometry.WallBottom:
		i, j = g.CellOf(room.Width-1, mid)
	case geometry.WallLeft:
		i, j = g.CellOf(mid, 0)
	case geometry.WallRight:
		i, j = g.CellOf(mid, room.Depth-1)
	}
	return cell{i, j}
}
