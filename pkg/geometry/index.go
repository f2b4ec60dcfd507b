package geometry

import (
	"slices"

	"github.com/dhconnelly/rtreego"
)

// Index is an R-tree over committed occupants. Each occupant is stored
// under its clearance envelope (which contains its footprint), so a query
// with the candidate's envelope returns every occupant that could conflict.
//
// An Index is not safe for concurrent mutation. Clone it before handing it
// to another goroutine.
type Index struct {
	room  Room
	tree  *rtreego.Rtree
	items []Occupant
}

type indexed struct {
	Occupant
	bounds rtreego.Rect
	pos    int
}

func (i *indexed) Bounds() rtreego.Rect { return i.bounds }

// NewIndex builds an index over placed occupants.
func NewIndex(room Room, placed ...Occupant) *Index {
	idx := &Index{room: room, tree: rtreego.NewTree(2, 4, 16)}
	for _, o := range placed {
		idx.Insert(o)
	}
	return idx
}

// Insert adds an occupant.
func (idx *Index) Insert(o Occupant) {
	idx.tree.Insert(&indexed{Occupant: o, bounds: envelope(o), pos: len(idx.items)})
	idx.items = append(idx.items, o)
}

// Len returns the number of occupants.
func (idx *Index) Len() int { return len(idx.items) }

// Occupants returns the occupants in insertion order.
func (idx *Index) Occupants() []Occupant { return idx.items }

// Clone returns an independent copy of the index.
func (idx *Index) Clone() *Index {
	return NewIndex(idx.room, idx.items...)
}

// Valid is IsValidPlacement restricted to occupants whose envelope
// intersects the candidate's.
func (idx *Index) Valid(candidate Occupant) bool {
	if !candidate.Footprint.Inside(idx.room) {
		return false
	}
	for _, s := range idx.tree.SearchIntersect(envelope(candidate)) {
		if conflicts(candidate, s.(*indexed).Occupant) {
			return false
		}
	}
	return true
}

// Conflicting returns the insertion positions of occupants that conflict
// with candidate, in ascending order.
func (idx *Index) Conflicting(candidate Occupant) []int {
	var out []int
	for _, s := range idx.tree.SearchIntersect(envelope(candidate)) {
		it := s.(*indexed)
		if conflicts(candidate, it.Occupant) {
			out = append(out, it.pos)
		}
	}
	slices.Sort(out)
	return out
}

// envelope converts the bounding box of footprint and shadow into an
// rtreego rectangle. Degenerate sides are widened to one unit because
// rtreego rejects zero lengths.
func envelope(o Occupant) rtreego.Rect {
	x0, y0 := min(o.Footprint.X, o.Shadow.X), min(o.Footprint.Y, o.Shadow.Y)
	x1 := max(o.Footprint.XEnd(), o.Shadow.XEnd())
	y1 := max(o.Footprint.YEnd(), o.Shadow.YEnd())
	rect, err := rtreego.NewRect(
		rtreego.Point{float64(x0), float64(y0)},
		[]float64{float64(max(x1-x0, 1)), float64(max(y1-y0, 1))},
	)
	if err != nil {
		// Lengths are at least one, NewRect cannot fail here.
		panic(err)
	}
	return rect
}
