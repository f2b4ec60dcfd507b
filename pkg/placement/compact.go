package placement

import (
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/layout"
)

// Compact slides obj along a wall it shares with an already placed fixture
// when the clearance-adjusted gap between them is positive and below
// CompactionGap. Neighbours are tried in placement order and the first
// slide that stays on the same wall class and passes Admit wins. If none
// does, obj is returned unchanged.
func (e *Engine) Compact(l layout.Layout, idx *geometry.Index, obj layout.Object) layout.Object {
	class := obj.Wall(e.room)
	if class == geometry.WallMiddle {
		return obj
	}
	m := obj.Margins(e.room)

	for _, p := range l.Objects {
		side, ok := sharedSide(class, p.Wall(e.room))
		if !ok {
			continue
		}
		dx, dy, ok := slide(obj.Rect(), m, p.Rect(), p.Margins(e.room), side)
		if !ok {
			continue
		}
		moved := obj
		moved.X += dx
		moved.Y += dy
		if moved.Wall(e.room) != class {
			continue
		}
		if e.Admit(idx, moved) {
			return moved
		}
	}
	return obj
}

// sharedSide returns the first side of a that b also touches.
func sharedSide(a, b geometry.Wall) (geometry.Wall, bool) {
	for _, s := range a.TouchedSides() {
		if b.Touches(s) {
			return s, true
		}
	}
	return "", false
}

// slide computes the move that closes the gap between r and neighbour n
// along side. The gap is the footprint distance minus the larger of the two
// facing margins.
func slide(r geometry.Rect, rm geometry.Margins, n geometry.Rect, nm geometry.Margins, side geometry.Wall) (dx, dy int, ok bool) {
	if side.RunsAlongX() {
		switch {
		case n.XEnd() <= r.X:
			gap := r.X - n.XEnd() - max(rm.Top, nm.Bottom)
			return -gap, 0, gap > 0 && gap < CompactionGap
		case r.XEnd() <= n.X:
			gap := n.X - r.XEnd() - max(rm.Bottom, nm.Top)
			return gap, 0, gap > 0 && gap < CompactionGap
		}
		return 0, 0, false
	}
	switch {
	case n.YEnd() <= r.Y:
		gap := r.Y - n.YEnd() - max(rm.Left, nm.Right)
		return 0, -gap, gap > 0 && gap < CompactionGap
	case r.YEnd() <= n.Y:
		gap := n.Y - r.YEnd() - max(rm.Right, nm.Left)
		return 0, gap, gap > 0 && gap < CompactionGap
	}
	return 0, 0, false
}
