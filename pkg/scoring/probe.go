package scoring

import (
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/layout"
)

// FreeSpaceTarget is the floor area (cm²) in front of a fixture that earns
// one point of free-space score.
const FreeSpaceTarget = 600

// FreeSpace returns the free floor area in front of object i: the strip
// from its front edge to the opposite wall, as wide as the fixture, minus
// what other fixtures cover of it. A fixture standing in the middle of the
// room gets the whole floor minus all footprints.
func FreeSpace(l layout.Layout, i int) int {
	o := l.Objects[i]
	e := evaluator{l: l, room: l.Room}
	region, ok := frontRegion(o.Rect(), o.Wall(l.Room), l.Room)
	if !ok {
		used := 0
		for _, p := range l.Objects {
			used += p.Rect().Area()
		}
		return max(l.Room.Area()-used, 0)
	}
	return max(region.Area()-e.blocked(region, i), 0)
}

func frontRegion(r geometry.Rect, w geometry.Wall, room geometry.Room) (geometry.Rect, bool) {
	if w == geometry.WallMiddle {
		return geometry.Rect{}, false
	}
	switch geometry.FrontSide(r, w) {
	case geometry.WallBottom:
		return geometry.Rect{X: r.XEnd(), Y: r.Y, Depth: room.Width - r.XEnd(), Width: r.Width}, true
	case geometry.WallTop:
		return geometry.Rect{X: 0, Y: r.Y, Depth: r.X, Width: r.Width}, true
	case geometry.WallRight:
		return geometry.Rect{X: r.X, Y: r.YEnd(), Depth: r.Depth, Width: room.Depth - r.YEnd()}, true
	case geometry.WallLeft:
		return geometry.Rect{X: r.X, Y: 0, Depth: r.Depth, Width: r.Y}, true
	}
	return geometry.Rect{}, false
}

// doorRegion is the strip crossing the room from a door's span to the
// opposite wall.
func doorRegion(d geometry.Opening, room geometry.Room) geometry.Rect {
	off := d.Offset()
	if d.Wall.RunsAlongX() {
		return geometry.Rect{X: off, Y: 0, Depth: d.Width, Width: room.Depth}
	}
	return geometry.Rect{X: 0, Y: off, Depth: room.Width, Width: d.Width}
}

// blocked sums the area of region covered by footprints other than skip.
func (e evaluator) blocked(region geometry.Rect, skip int) int {
	n := 0
	for k, p := range e.l.Objects {
		if k == skip {
			continue
		}
		if in, ok := region.Intersect(p.Rect()); ok {
			n += in.Area()
		}
	}
	return n
}
