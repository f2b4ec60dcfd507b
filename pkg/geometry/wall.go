package geometry

import "strings"

// Wall is the position class of a rectangle relative to the room walls.
// Besides the four walls and four corners it can be Middle.
type Wall string

const (
	WallTop         Wall = "top"
	WallBottom      Wall = "bottom"
	WallLeft        Wall = "left"
	WallRight       Wall = "right"
	WallTopLeft     Wall = "top-left"
	WallTopRight    Wall = "top-right"
	WallBottomLeft  Wall = "bottom-left"
	WallBottomRight Wall = "bottom-right"
	WallMiddle      Wall = "middle"
)

// Sides lists the four walls in the order used for sampling.
var Sides = []Wall{WallTop, WallBottom, WallLeft, WallRight}

// Corners lists the four corner classes.
var Corners = []Wall{WallTopLeft, WallTopRight, WallBottomLeft, WallBottomRight}

// ParseSide returns the wall for a side name. Only the four sides are
// accepted; corner and middle classes are not valid opening walls.
func ParseSide(s string) (Wall, bool) {
	w := Wall(strings.ToLower(strings.TrimSpace(s)))
	switch w {
	case WallTop, WallBottom, WallLeft, WallRight:
		return w, true
	}
	return "", false
}

// IsSide reports whether w is one of the four walls.
func (w Wall) IsSide() bool {
	switch w {
	case WallTop, WallBottom, WallLeft, WallRight:
		return true
	}
	return false
}

// IsCorner reports whether w is one of the four corner classes.
func (w Wall) IsCorner() bool {
	switch w {
	case WallTopLeft, WallTopRight, WallBottomLeft, WallBottomRight:
		return true
	}
	return false
}

// TouchedSides returns the walls a class touches: one for a side, two for a
// corner and none for Middle.
func (w Wall) TouchedSides() []Wall {
	switch w {
	case WallTop, WallBottom, WallLeft, WallRight:
		return []Wall{w}
	case WallTopLeft:
		return []Wall{WallTop, WallLeft}
	case WallTopRight:
		return []Wall{WallTop, WallRight}
	case WallBottomLeft:
		return []Wall{WallBottom, WallLeft}
	case WallBottomRight:
		return []Wall{WallBottom, WallRight}
	}
	return nil
}

// Touches reports whether a rectangle with class w touches the given side.
func (w Wall) Touches(side Wall) bool {
	for _, s := range w.TouchedSides() {
		if s == side {
			return true
		}
	}
	return false
}

// Opposite returns the wall facing side. Corners and Middle map to Middle.
func (w Wall) Opposite() Wall {
	switch w {
	case WallTop:
		return WallBottom
	case WallBottom:
		return WallTop
	case WallLeft:
		return WallRight
	case WallRight:
		return WallLeft
	}
	return WallMiddle
}

// RunsAlongX reports whether the side's length is measured along x
// (left and right walls).
func (w Wall) RunsAlongX() bool { return w == WallLeft || w == WallRight }

// Length returns the length of a side wall in cm.
func (w Wall) Length(room Room) int {
	if w.RunsAlongX() {
		return room.Width
	}
	return room.Depth
}

// Classify returns the wall class of r. Corner checks come first, then the
// single walls in the order top, left, bottom, right.
func Classify(r Rect, room Room) Wall {
	atTop := r.X == 0
	atLeft := r.Y == 0
	atBottom := r.X == room.Width-r.Depth
	atRight := r.Y == room.Depth-r.Width

	switch {
	case atTop && atLeft:
		return WallTopLeft
	case atTop && atRight:
		return WallTopRight
	case atBottom && atLeft:
		return WallBottomLeft
	case atBottom && atRight:
		return WallBottomRight
	case atTop:
		return WallTop
	case atLeft:
		return WallLeft
	case atBottom:
		return WallBottom
	case atRight:
		return WallRight
	}
	return WallMiddle
}
