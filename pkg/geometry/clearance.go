package geometry

// Clearance is a fixture's free-space requirement in its own frame, measured
// outward from the footprint. Front is the side the user approaches from.
type Clearance struct {
	Front int `json:"front" toml:"front"`
	Left  int `json:"left" toml:"left"`
	Right int `json:"right" toml:"right"`
	Back  int `json:"back" toml:"back"`
}

// Margins is a clearance expressed in the room frame: Top extends toward
// x=0, Bottom toward x=Room.Width, Left toward y=0, Right toward y=Room.Depth.
type Margins struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Expand returns the clearance rectangle around footprint r.
func (m Margins) Expand(r Rect) Rect {
	return Rect{
		X:     r.X - m.Top,
		Y:     r.Y - m.Left,
		Depth: r.Depth + m.Top + m.Bottom,
		Width: r.Width + m.Left + m.Right,
	}
}

// Side returns the margin on the given side wall direction.
func (m Margins) Side(side Wall) int {
	switch side {
	case WallTop:
		return m.Top
	case WallBottom:
		return m.Bottom
	case WallLeft:
		return m.Left
	case WallRight:
		return m.Right
	}
	return 0
}

// TransformClearance rotates the local clearance c into the room frame for a
// footprint r with class w. Fixtures face away from the wall they stand
// against. In a corner the two wall-facing margins are zero; which local
// distance lands on the remaining two sides depends on whether the fixture
// is wider than it is deep (r.Width > r.Depth means its long side runs along
// the top or bottom wall). A square footprint takes the deep branch in
// every corner, so its front clearance is never dropped.
func TransformClearance(r Rect, c Clearance, w Wall) Margins {
	f, l, rt, b := c.Front, c.Left, c.Right, c.Back
	wide := r.Width > r.Depth

	switch w {
	case WallTop:
		return Margins{Top: b, Left: rt, Right: l, Bottom: f}
	case WallRight:
		return Margins{Top: rt, Left: f, Right: b, Bottom: l}
	case WallLeft:
		return Margins{Top: l, Left: b, Right: f, Bottom: rt}
	case WallTopLeft:
		if wide {
			return Margins{Right: l, Bottom: f}
		}
		return Margins{Right: f, Bottom: rt}
	case WallTopRight:
		if wide {
			return Margins{Left: rt, Bottom: f}
		}
		return Margins{Left: f, Bottom: l}
	case WallBottomLeft:
		if wide {
			return Margins{Right: rt, Top: f}
		}
		return Margins{Right: f, Top: l}
	case WallBottomRight:
		if wide {
			return Margins{Left: l, Top: f}
		}
		return Margins{Left: f, Top: rt}
	}
	// bottom and middle keep the local frame: front faces x=0.
	return Margins{Top: f, Left: l, Right: rt, Bottom: b}
}

// FrontSide returns the room-frame direction the fixture's front clearance
// points to, expressed as the wall that direction approaches.
func FrontSide(r Rect, w Wall) Wall {
	wide := r.Width > r.Depth
	switch w {
	case WallTop:
		return WallBottom
	case WallRight:
		return WallLeft
	case WallLeft:
		return WallRight
	case WallTopLeft:
		if wide {
			return WallBottom
		}
		return WallRight
	case WallTopRight:
		if wide {
			return WallBottom
		}
		return WallLeft
	case WallBottomLeft:
		if wide {
			return WallTop
		}
		return WallRight
	case WallBottomRight:
		if wide {
			return WallTop
		}
		return WallLeft
	}
	return WallTop
}

// ShadowRect is shorthand for the clearance rectangle of footprint r with
// local clearance c inside room.
func ShadowRect(r Rect, c Clearance, room Room) Rect {
	return TransformClearance(r, c, Classify(r, room)).Expand(r)
}
