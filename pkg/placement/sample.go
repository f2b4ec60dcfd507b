package placement

import (
	"math/rand/v2"

	"github.com/matzehuels/fixturefit/pkg/catalog"
	"github.com/matzehuels/fixturefit/pkg/geometry"
)

// Sample draws one candidate footprint of size w×d for type t. It reports
// false when the drawn wall or corner cannot hold the footprint at all.
func (e *Engine) Sample(t catalog.ObjectType, w, d int, rng *rand.Rand) (geometry.Rect, bool) {
	switch {
	case t.MustBeCorner:
		if rng.IntN(2) == 1 {
			w, d = d, w
		}
		return e.corner(rng.IntN(4), w, d)
	case t.MustBeAgainstWall:
		walls := e.Walls(t)
		wall := walls[rng.IntN(len(walls))]
		w, d = orient(wall, w, d)
		span, ok := e.span(wall, w, d)
		if !ok {
			return geometry.Rect{}, false
		}
		return e.wallRect(wall, w, d, between(rng, 0, span)), true
	}
	W, D := e.room.Width, e.room.Depth
	if d > W || w > D {
		return geometry.Rect{}, false
	}
	return geometry.Rect{X: between(rng, 0, W-d), Y: between(rng, 0, D-w), Width: w, Depth: d}, true
}

// Enumerate lists candidate footprints of size w×d for t in a fixed order:
// every corner in both orientations for corner types, positions every step
// cm along each allowed wall for wall types, and a step-cm floor grid for
// everything else. Candidates are not checked against other fixtures.
func (e *Engine) Enumerate(t catalog.ObjectType, w, d, step int) []geometry.Rect {
	if step <= 0 {
		step = 1
	}
	var out []geometry.Rect
	switch {
	case t.MustBeCorner:
		for _, sz := range [2][2]int{{w, d}, {d, w}} {
			for i := range 4 {
				if r, ok := e.corner(i, sz[0], sz[1]); ok {
					out = append(out, r)
				}
			}
		}
	case t.MustBeAgainstWall:
		for _, wall := range e.Walls(t) {
			ww, dd := orient(wall, w, d)
			span, ok := e.span(wall, ww, dd)
			if !ok {
				continue
			}
			for off := 0; off <= span; off += step {
				out = append(out, e.wallRect(wall, ww, dd, off))
			}
		}
	default:
		W, D := e.room.Width, e.room.Depth
		for x := 0; x+d <= W; x += step {
			for y := 0; y+w <= D; y += step {
				out = append(out, geometry.Rect{X: x, Y: y, Width: w, Depth: d})
			}
		}
	}
	return out
}

// Walls returns the walls a wall-bound fixture of type t may be sampled
// on.
func (e *Engine) Walls(t catalog.ObjectType) []geometry.Wall {
	if t.Name == Toilet {
		return e.toiletWalls
	}
	return geometry.Sides
}

// corner returns the footprint snapped into corner i (top-left, top-right,
// bottom-left, bottom-right).
func (e *Engine) corner(i, w, d int) (geometry.Rect, bool) {
	W, D := e.room.Width, e.room.Depth
	if d > W || w > D {
		return geometry.Rect{}, false
	}
	xs := [4]int{0, 0, W - d, W - d}
	ys := [4]int{0, D - w, 0, D - w}
	return geometry.Rect{X: xs[i], Y: ys[i], Width: w, Depth: d}, true
}

// orient turns the longer side of a footprint along the left and right
// walls.
func orient(wall geometry.Wall, w, d int) (int, int) {
	if (wall == geometry.WallLeft || wall == geometry.WallRight) && w > d {
		return d, w
	}
	return w, d
}

// span returns the largest offset along wall at which a w×d footprint
// still fits, or false if it does not fit at all.
func (e *Engine) span(wall geometry.Wall, w, d int) (int, bool) {
	W, D := e.room.Width, e.room.Depth
	if d > W || w > D {
		return 0, false
	}
	if wall.RunsAlongX() {
		return W - d, true
	}
	return D - w, true
}

// wallRect snaps a w×d footprint against wall at the given offset.
func (e *Engine) wallRect(wall geometry.Wall, w, d, off int) geometry.Rect {
	r := geometry.Rect{Width: w, Depth: d}
	switch wall {
	case geometry.WallTop:
		r.X, r.Y = 0, off
	case geometry.WallBottom:
		r.X, r.Y = e.room.Width-d, off
	case geometry.WallLeft:
		r.X, r.Y = off, 0
	case geometry.WallRight:
		r.X, r.Y = off, e.room.Depth-w
	}
	return r
}

// between returns a uniform integer in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
