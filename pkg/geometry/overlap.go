package geometry

// Occupant is a committed fixture as the validity checks see it: its
// footprint and its room-frame clearance rectangle.
type Occupant struct {
	Footprint Rect
	Shadow    Rect
}

// IsValidPlacement reports whether candidate may join placed inside room.
// The candidate footprint must be on the floor and must not overlap any
// placed footprint; its clearance must not cover a placed footprint; and no
// placed clearance may cover the candidate footprint. Two clearance
// rectangles are allowed to overlap.
func IsValidPlacement(candidate Occupant, placed []Occupant, room Room) bool {
	if !candidate.Footprint.Inside(room) {
		return false
	}
	for _, p := range placed {
		if conflicts(candidate, p) {
			return false
		}
	}
	return true
}

func conflicts(a, b Occupant) bool {
	return a.Footprint.Overlaps(b.Footprint) ||
		a.Shadow.Overlaps(b.Footprint) ||
		b.Shadow.Overlaps(a.Footprint)
}
