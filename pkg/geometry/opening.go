package geometry

import (
	ferrors "github.com/matzehuels/fixturefit/pkg/errors"
)

// DoorClearance is the depth of the swing zone a door projects into the room.
const DoorClearance = 75

// OpeningKind distinguishes doors from windows.
type OpeningKind string

const (
	KindDoor   OpeningKind = "door"
	KindWindow OpeningKind = "window"
)

// Swing is the direction a door leaf opens.
type Swing string

const (
	SwingInward  Swing = "inward"
	SwingOutward Swing = "outward"
)

// Opening is a door or window set into one of the four walls. X and Y give
// its start point on the wall; only the coordinate running along the wall is
// used for its span (Y for top/bottom walls, X for left/right walls).
type Opening struct {
	ID     string      `json:"id" toml:"id"`
	Kind   OpeningKind `json:"kind" toml:"kind"`
	Wall   Wall        `json:"wall" toml:"wall"`
	X      int         `json:"x" toml:"x"`
	Y      int         `json:"y" toml:"y"`
	Width  int         `json:"width" toml:"width"`
	Depth  int         `json:"depth,omitempty" toml:"depth"`
	Height int         `json:"height,omitempty" toml:"height"`
	Sill   int         `json:"sill,omitempty" toml:"sill"`
	Swing  Swing       `json:"swing,omitempty" toml:"swing"`
	Hinge  Wall        `json:"hinge,omitempty" toml:"hinge"`
}

// IsDoor reports whether the opening is a door. Openings without a kind
// whose ID starts with "door" are treated as doors.
func (o Opening) IsDoor() bool {
	if o.Kind == "" {
		return len(o.ID) >= 4 && o.ID[:4] == "door"
	}
	return o.Kind == KindDoor
}

// Offset returns the opening's start along its wall.
func (o Opening) Offset() int {
	if o.Wall.RunsAlongX() {
		return o.X
	}
	return o.Y
}

// Validate checks that the opening sits on a side wall and that its span
// fits on that wall.
func (o Opening) Validate(room Room) error {
	if !o.Wall.IsSide() {
		return ferrors.New(ferrors.ErrCodeInvalidOpening, "opening %q: wall must be top, bottom, left or right, got %q", o.ID, o.Wall)
	}
	if o.Kind != "" && o.Kind != KindDoor && o.Kind != KindWindow {
		return ferrors.New(ferrors.ErrCodeInvalidOpening, "opening %q: unknown kind %q", o.ID, o.Kind)
	}
	if o.X < 0 || o.Y < 0 || o.X > room.Width || o.Y > room.Depth {
		return ferrors.New(ferrors.ErrCodeInvalidOpening, "opening %q: position (%d,%d) outside room", o.ID, o.X, o.Y)
	}
	if o.Sill < 0 || o.Depth < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidOpening, "opening %q: sill and depth cannot be negative", o.ID)
	}
	return ferrors.ValidateOpeningSpan(o.ID, o.Offset(), o.Width, o.Wall.Length(room))
}

// Zone returns the floor rectangle the opening keeps clear. For a door this
// is the DoorClearance-deep swing zone; for a window it is a strip along the
// wall, max(Depth, 1) cm deep.
func (o Opening) Zone(room Room) Rect {
	depth := DoorClearance
	if !o.IsDoor() {
		depth = max(o.Depth, 1)
	}
	off := o.Offset()
	switch o.Wall {
	case WallTop:
		return Rect{X: 0, Y: off, Depth: depth, Width: o.Width}
	case WallBottom:
		return Rect{X: room.Width - depth, Y: off, Depth: depth, Width: o.Width}
	case WallLeft:
		return Rect{X: off, Y: 0, Depth: o.Width, Width: depth}
	case WallRight:
		return Rect{X: off, Y: room.Depth - depth, Depth: o.Width, Width: depth}
	}
	return Rect{}
}

// ValidateOpenings validates every opening against room.
func ValidateOpenings(room Room, openings []Opening) error {
	for _, o := range openings {
		if err := o.Validate(room); err != nil {
			return err
		}
	}
	return nil
}

// DoorWalls returns the distinct walls carrying at least one door, in the
// order they first appear.
func DoorWalls(openings []Opening) []Wall {
	var walls []Wall
	seen := map[Wall]bool{}
	for _, o := range openings {
		if o.IsDoor() && !seen[o.Wall] {
			seen[o.Wall] = true
			walls = append(walls, o.Wall)
		}
	}
	return walls
}

// Doors filters openings down to doors.
func Doors(openings []Opening) []Opening {
	var out []Opening
	for _, o := range openings {
		if o.IsDoor() {
			out = append(out, o)
		}
	}
	return out
}

// DoorWindowOverlap reports whether a candidate conflicts with an opening:
// its clearance rectangle entering a door swing zone, or its footprint
// covering a window strip while standing taller than the sill.
func DoorWindowOverlap(footprint, shadow Rect, height int, openings []Opening, room Room) bool {
	for _, o := range openings {
		zone := o.Zone(room)
		if o.IsDoor() {
			if shadow.Overlaps(zone) || footprint.Overlaps(zone) {
				return true
			}
			continue
		}
		if height > o.Sill && footprint.Overlaps(zone) {
			return true
		}
	}
	return false
}
