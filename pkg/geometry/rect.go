package geometry

import (
	"fmt"

	ferrors "github.com/matzehuels/fixturefit/pkg/errors"
)

// Room is the rectangular floor the layout is computed for. Height is only
// used for z-extent checks against window sills.
type Room struct {
	Width  int `json:"width" toml:"width"`
	Depth  int `json:"depth" toml:"depth"`
	Height int `json:"height,omitempty" toml:"height"`
}

// Validate rejects non-positive floor dimensions.
func (r Room) Validate() error {
	return ferrors.ValidateRoomDimensions(r.Width, r.Depth, r.Height)
}

// Bounds returns the room floor as a rectangle anchored at the origin.
func (r Room) Bounds() Rect {
	return Rect{X: 0, Y: 0, Width: r.Depth, Depth: r.Width}
}

// Area returns the floor area in cm².
func (r Room) Area() int { return r.Width * r.Depth }

// Rect is an axis-aligned rectangle spanning x ∈ [X, X+Depth) and
// y ∈ [Y, Y+Width).
type Rect struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Width int `json:"width"`
	Depth int `json:"depth"`
}

// XEnd returns the exclusive end of the x interval.
func (r Rect) XEnd() int { return r.X + r.Depth }

// YEnd returns the exclusive end of the y interval.
func (r Rect) YEnd() int { return r.Y + r.Width }

// Area returns Width*Depth, or 0 for degenerate rectangles.
func (r Rect) Area() int {
	if r.Width <= 0 || r.Depth <= 0 {
		return 0
	}
	return r.Width * r.Depth
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Depth <= 0 }

// Overlaps reports whether the two rectangles share a positive-area region.
// Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.XEnd() && o.X < r.XEnd() && r.Y < o.YEnd() && o.Y < r.YEnd()
}

// Intersect returns the overlapping region of r and o and whether it is
// non-empty.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x0, x1 := max(r.X, o.X), min(r.XEnd(), o.XEnd())
	y0, y1 := max(r.Y, o.Y), min(r.YEnd(), o.YEnd())
	if x0 >= x1 || y0 >= y1 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, Depth: x1 - x0, Width: y1 - y0}, true
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.XEnd() <= r.XEnd() && o.YEnd() <= r.YEnd()
}

// Inside reports whether r lies entirely on the room floor.
func (r Rect) Inside(room Room) bool {
	return room.Bounds().Contains(r)
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Corners returns the four corner points as (x, y) pairs in the order
// (X,Y), (X,YEnd), (XEnd,Y), (XEnd,YEnd).
func (r Rect) Corners() [4][2]int {
	return [4][2]int{
		{r.X, r.Y},
		{r.X, r.YEnd()},
		{r.XEnd(), r.Y},
		{r.XEnd(), r.YEnd()},
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Depth)
}
