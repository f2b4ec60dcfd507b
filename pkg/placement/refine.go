package placement

import (
	"github.com/matzehuels/fixturefit/pkg/catalog"
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/layout"
)

const (
	// SnapGap is the exclusive upper bound (cm) on wall gaps that Refine
	// closes.
	SnapGap = 30

	// GrowStep is the increment (cm) by which Refine enlarges fixtures.
	GrowStep = 5
)

// Refine tidies a finished layout in two sweeps. The first pushes every
// fixture that is not in a corner onto the nearest wall it could reach
// within SnapGap. The second grows fixtures whose type sets Maximize,
// along the wall first and then away from it, up to the type's maxima.
// types maps object names to their types; objects without an entry are
// never grown. A change is kept only while the fixture stays admissible
// against all the others and keeps its wall class after growing.
func (e *Engine) Refine(l layout.Layout, types map[string]catalog.ObjectType) layout.Layout {
	for i := range l.Objects {
		if moved, ok := e.snap(l, i); ok {
			e.logger.Debug("snapped fixture to wall", "fixture", moved.Name, "x", moved.X, "y", moved.Y)
			l = l.Replace(i, moved)
		}
	}
	for i, o := range l.Objects {
		t, ok := types[o.Name]
		if !ok || !t.Maximize {
			continue
		}
		if grown, ok := e.grow(l, i, t); ok {
			e.logger.Debug("grew fixture", "fixture", grown.Name, "size", [2]int{grown.Width, grown.Depth})
			l = l.Replace(i, grown)
		}
	}
	return l
}

// others indexes every object of l except the one at skip.
func (e *Engine) others(l layout.Layout, skip int) *geometry.Index {
	idx := geometry.NewIndex(e.room)
	for j, o := range l.Objects {
		if j != skip {
			idx.Insert(o.Occupant(e.room))
		}
	}
	return idx
}

type wallGap struct {
	side geometry.Wall
	dist int
}

func (e *Engine) snap(l layout.Layout, i int) (layout.Object, bool) {
	obj := l.Objects[i]
	class := obj.Wall(e.room)
	if class.IsCorner() {
		return obj, false
	}
	r := obj.Rect()
	gaps := []wallGap{
		{geometry.WallTop, r.X},
		{geometry.WallBottom, e.room.Width - r.XEnd()},
		{geometry.WallLeft, r.Y},
		{geometry.WallRight, e.room.Depth - r.YEnd()},
	}

	best := wallGap{dist: SnapGap}
	for _, g := range gaps {
		// A fixture on one wall only slides along it.
		if class != geometry.WallMiddle && g.side.RunsAlongX() == class.RunsAlongX() {
			continue
		}
		if g.dist > 0 && g.dist < best.dist {
			best = g
		}
	}
	if best.side == "" {
		return obj, false
	}

	moved := obj
	switch best.side {
	case geometry.WallTop:
		moved.X = 0
	case geometry.WallBottom:
		moved.X = e.room.Width - obj.Depth
	case geometry.WallLeft:
		moved.Y = 0
	case geometry.WallRight:
		moved.Y = e.room.Depth - obj.Width
	}
	if !e.Admit(e.others(l, i), moved) {
		return obj, false
	}
	return moved, true
}

func (e *Engine) grow(l layout.Layout, i int, t catalog.ObjectType) (layout.Object, bool) {
	obj := l.Objects[i]
	class := obj.Wall(e.room)

	// The footprint's Y extent holds the type width unless the fixture was
	// turned.
	yRange, xRange := t.Width, t.Depth
	if !within(t.Width, obj.Width) || !within(t.Depth, obj.Depth) {
		yRange, xRange = t.Depth, t.Width
	}
	alongY := yRange == t.Width
	if class.IsSide() {
		alongY = !class.RunsAlongX()
	}

	idx := e.others(l, i)
	cur := obj
	for _, y := range [2]bool{alongY, !alongY} {
		limit := xRange.Max
		if y {
			limit = yRange.Max
		}
		for extent(cur, y)+GrowStep <= limit {
			next := e.stretch(cur, y)
			if next.Wall(e.room) != class || !e.Admit(idx, next) {
				break
			}
			cur = next
		}
	}
	return cur, cur != obj
}

// stretch enlarges o by GrowStep along one axis, growing away from the
// far wall when o touches it so wall contact is kept.
func (e *Engine) stretch(o layout.Object, alongY bool) layout.Object {
	r := o.Rect()
	if alongY {
		if r.YEnd() == e.room.Depth && r.Y > 0 {
			o.Y -= GrowStep
		}
		o.Width += GrowStep
		return o
	}
	if r.XEnd() == e.room.Width && r.X > 0 {
		o.X -= GrowStep
	}
	o.Depth += GrowStep
	return o
}

func extent(o layout.Object, alongY bool) int {
	if alongY {
		return o.Width
	}
	return o.Depth
}

func within(r catalog.Range, v int) bool { return v >= r.Min && v <= r.Max }
