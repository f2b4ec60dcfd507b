package scoring

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/fixturefit/pkg/access"
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/layout"
	"github.com/matzehuels/fixturefit/pkg/space"
)

const (
	coverageRatio       = 0.7
	awkwardMin          = 10.0
	awkwardMax          = 30.0
	oppositeMinDistance = 60
)

type evaluator struct {
	l    layout.Layout
	room geometry.Room
	opts Options
}

func (e evaluator) noOverlap() float64 {
	objs := e.l.Objects
	for i := range objs {
		for j := i + 1; j < len(objs); j++ {
			if objs[i].Rect().Overlaps(objs[j].Rect()) {
				return 0
			}
		}
	}
	return 10
}

func (e evaluator) wallCorner() float64 {
	for _, o := range e.l.Objects {
		w := o.Wall(e.room)
		if o.MustBeCorner && !w.IsCorner() {
			return 0
		}
		if o.MustBeAgainstWall && w == geometry.WallMiddle {
			return 0
		}
	}
	return 10
}

// wallCoverage gives 5 points per wall at least 70% covered. Fixtures on
// the top and bottom walls cover their width, on the left and right walls
// their depth; corner fixtures count on both of their walls.
func (e evaluator) wallCoverage() float64 {
	covered := map[geometry.Wall]int{}
	for _, o := range e.l.Objects {
		for _, s := range o.Wall(e.room).TouchedSides() {
			if s.RunsAlongX() {
				covered[s] += o.Depth
			} else {
				covered[s] += o.Width
			}
		}
	}
	score := 0.0
	for _, s := range geometry.Sides {
		if float64(covered[s]) >= coverageRatio*float64(s.Length(e.room)) {
			score += 5
		}
	}
	return min(score, 10)
}

func (e evaluator) cornerCoverage() float64 {
	seen := map[geometry.Wall]bool{}
	for _, o := range e.l.Objects {
		if w := o.Wall(e.room); w.IsCorner() {
			seen[w] = true
		}
	}
	return 2.5 * float64(len(seen))
}

// doorSink rewards sinks away from the door wall and toilets away from the
// wall facing the door. It is only defined when the room has doors and a
// sink or toilet.
func (e evaluator) doorSink() (float64, bool) {
	doors := geometry.Doors(e.l.Openings)
	if len(doors) == 0 || !hasAny(e.l, func(n string) bool { return isSink(n) || isToilet(n) }) {
		return 0, false
	}
	sum := 0.0
	for _, o := range e.l.Objects {
		w := o.Wall(e.room)
		for _, d := range doors {
			switch {
			case isSink(o.Name):
				if !w.Touches(d.Wall) {
					sum += 5
				}
			case isToilet(o.Name):
				if !w.Touches(d.Wall.Opposite()) {
					sum += 5
				}
				if w.Touches(d.Wall) {
					sum += 5
				}
			}
		}
	}
	return min(sum/20*10, 10), true
}

func (e evaluator) cornerToilet() (float64, bool) {
	found := false
	for _, o := range e.l.Objects {
		if !isToilet(o.Name) {
			continue
		}
		found = true
		if o.Wall(e.room).IsCorner() {
			return 10, true
		}
	}
	return 0, found
}

// spacing penalizes pairs whose nearest corners are between 10 and 30 cm
// apart: too close to use, too far to be flush.
func (e evaluator) spacing() float64 {
	n := len(e.l.Objects)
	if n == 0 {
		return 10
	}
	awkward := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := minCornerDistance(e.l.Objects[i].Rect(), e.l.Objects[j].Rect())
			if d > awkwardMin && d < awkwardMax {
				awkward++
			}
		}
	}
	return max(float64(10*n-5*awkward)/float64(n), 0)
}

func minCornerDistance(a, b geometry.Rect) float64 {
	best := -1.0
	for _, p := range a.Corners() {
		for _, q := range b.Corners() {
			d := planar.Distance(orb.Point{float64(p[0]), float64(p[1])}, orb.Point{float64(q[0]), float64(q[1])})
			if best < 0 || d < best {
				best = d
			}
		}
	}
	return best
}

func (e evaluator) shadow() float64 {
	n := len(e.l.Objects)
	if n == 0 {
		return 10
	}
	inside := 0
	for _, o := range e.l.Objects {
		if o.Shadow(e.room).Inside(e.room) {
			inside++
		}
	}
	return float64(inside) / float64(n) * 10
}

// bathtub checks tubs against the wall facing the first door: a tub there
// must run lengthwise along it. A requested tub that was not placed scores
// 0.
func (e evaluator) bathtub(requested []string) (float64, bool) {
	var tubs []layout.Object
	for _, o := range e.l.Objects {
		if isBathtub(o.Name) {
			tubs = append(tubs, o)
		}
	}
	wanted := false
	for _, n := range requested {
		if isBathtub(n) {
			wanted = true
		}
	}
	if len(tubs) == 0 {
		if wanted {
			return 0, true
		}
		return 0, false
	}

	doors := geometry.Doors(e.l.Openings)
	if len(doors) == 0 {
		return 10, true
	}
	facing := doors[0].Wall.Opposite()
	sum := 0.0
	for _, t := range tubs {
		if !t.Wall(e.room).Touches(facing) {
			sum += 10
			continue
		}
		// A square tub has no long side and never counts as lengthwise.
		lengthwise := t.Width > t.Depth
		if facing.RunsAlongX() {
			lengthwise = t.Depth > t.Width
		}
		if lengthwise {
			sum += 10
		}
	}
	return sum / float64(len(tubs)), true
}

func (e evaluator) fixtureFreeSpace(match func(string) bool) float64 {
	total, n := 0, 0
	for i, o := range e.l.Objects {
		if match(o.Name) {
			total += FreeSpace(e.l, i)
			n++
		}
	}
	if n == 0 || total <= 0 {
		return 0
	}
	return min(float64(total)/float64(n)/FreeSpaceTarget, 10)
}

func (e evaluator) doorFreeSpace() (float64, bool) {
	doors := geometry.Doors(e.l.Openings)
	if len(doors) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, d := range doors {
		region := doorRegion(d, e.room)
		free := region.Area() - e.blocked(region, -1)
		norm := d.Width * max(e.room.Width, e.room.Depth)
		sum += min(float64(free)/float64(norm)*10, 10)
	}
	return sum / float64(len(doors)), true
}

func (e evaluator) enclosedSpaces() float64 {
	spaces := space.Identify(e.l, e.opts.GridSize).WithoutShadow
	if access.MarkInaccessible(spaces, e.l, e.opts.GridSize, e.opts.MinPathWidth).AllAccessible() {
		return 10
	}
	return 0
}

// oppositeWalls requires 60 cm between fixtures on opposite walls whose
// spans along the walls overlap.
func (e evaluator) oppositeWalls() float64 {
	objs := e.l.Objects
	for i := range objs {
		for j := range objs {
			if i == j {
				continue
			}
			a, b := objs[i], objs[j]
			wa, wb := a.Wall(e.room), b.Wall(e.room)
			ra, rb := a.Rect(), b.Rect()
			switch {
			case wa.Touches(geometry.WallTop) && wb.Touches(geometry.WallBottom):
				if ra.Y < rb.YEnd() && rb.Y < ra.YEnd() && rb.X-ra.XEnd() < oppositeMinDistance {
					return 0
				}
			case wa.Touches(geometry.WallLeft) && wb.Touches(geometry.WallRight):
				if ra.X < rb.XEnd() && rb.X < ra.XEnd() && rb.Y-ra.YEnd() < oppositeMinDistance {
					return 0
				}
			}
		}
	}
	return 10
}
