// Package layout defines placed fixtures and the layouts built from them.
//
// A [Layout] is a value: placement code extends it with [Layout.With],
// which copies the object slice, so a committed layout is never mutated by
// later attempts.
package layout

import (
	"github.com/matzehuels/fixturefit/pkg/catalog"
	"github.com/matzehuels/fixturefit/pkg/geometry"
)

// Object is a fixture committed to a layout. Clearance is kept in the
// fixture's own frame; the room-frame rectangle is derived on demand.
type Object struct {
	Name              string             `json:"name"`
	X                 int                `json:"x"`
	Y                 int                `json:"y"`
	Width             int                `json:"width"`
	Depth             int                `json:"depth"`
	Height            int                `json:"height"`
	MustBeCorner      bool               `json:"must_be_corner,omitempty"`
	MustBeAgainstWall bool               `json:"must_be_against_wall,omitempty"`
	Clearance         geometry.Clearance `json:"clearance"`

	// StandsIn names the requested type this object replaces when the
	// engine fell back to a smaller one.
	StandsIn string `json:"stands_in,omitempty"`
}

// NewObject creates an object of type t with the given footprint and height.
func NewObject(t catalog.ObjectType, r geometry.Rect, height int) Object {
	return Object{
		Name:              t.Name,
		X:                 r.X,
		Y:                 r.Y,
		Width:             r.Width,
		Depth:             r.Depth,
		Height:            height,
		MustBeCorner:      t.MustBeCorner,
		MustBeAgainstWall: t.MustBeAgainstWall,
		Clearance:         t.Clearance,
	}
}

// Rect returns the object's footprint.
func (o Object) Rect() geometry.Rect {
	return geometry.Rect{X: o.X, Y: o.Y, Width: o.Width, Depth: o.Depth}
}

// Wall returns the object's wall class in room.
func (o Object) Wall(room geometry.Room) geometry.Wall {
	return geometry.Classify(o.Rect(), room)
}

// Margins returns the room-frame clearance.
func (o Object) Margins(room geometry.Room) geometry.Margins {
	r := o.Rect()
	return geometry.TransformClearance(r, o.Clearance, geometry.Classify(r, room))
}

// Shadow returns the room-frame clearance rectangle.
func (o Object) Shadow(room geometry.Room) geometry.Rect {
	return o.Margins(room).Expand(o.Rect())
}

// Occupant returns the footprint and clearance pair used by validity checks.
func (o Object) Occupant(room geometry.Room) geometry.Occupant {
	return geometry.Occupant{Footprint: o.Rect(), Shadow: o.Shadow(room)}
}

// Layout is a room, its openings and the fixtures placed in it, in
// placement order.
type Layout struct {
	Room     geometry.Room      `json:"room"`
	Openings []geometry.Opening `json:"openings,omitempty"`
	Objects  []Object           `json:"objects"`
}

// New returns an empty layout.
func New(room geometry.Room, openings []geometry.Opening) Layout {
	return Layout{Room: room, Openings: openings}
}

// Validate checks the room and every opening.
func (l Layout) Validate() error {
	if err := l.Room.Validate(); err != nil {
		return err
	}
	return geometry.ValidateOpenings(l.Room, l.Openings)
}

// With returns a copy of l with o appended.
func (l Layout) With(o Object) Layout {
	objs := make([]Object, len(l.Objects), len(l.Objects)+1)
	copy(objs, l.Objects)
	l.Objects = append(objs, o)
	return l
}

// Replace returns a copy of l with the object at i replaced.
func (l Layout) Replace(i int, o Object) Layout {
	objs := make([]Object, len(l.Objects))
	copy(objs, l.Objects)
	objs[i] = o
	l.Objects = objs
	return l
}

// Occupants returns the validity view of every object.
func (l Layout) Occupants() []geometry.Occupant {
	out := make([]geometry.Occupant, len(l.Objects))
	for i, o := range l.Objects {
		out[i] = o.Occupant(l.Room)
	}
	return out
}

// Index builds an R-tree over the layout's objects.
func (l Layout) Index() *geometry.Index {
	return geometry.NewIndex(l.Room, l.Occupants()...)
}

// Names returns the object type names in placement order.
func (l Layout) Names() []string {
	out := make([]string, len(l.Objects))
	for i, o := range l.Objects {
		out[i] = o.Name
	}
	return out
}

// Fulfilled returns, in placement order, the requested type names the
// objects satisfy: StandsIn where set, the object's own name otherwise.
func (l Layout) Fulfilled() []string {
	out := make([]string, len(l.Objects))
	for i, o := range l.Objects {
		out[i] = o.Name
		if o.StandsIn != "" {
			out[i] = o.StandsIn
		}
	}
	return out
}

// Count returns how many objects have the given type name.
func (l Layout) Count(name string) int {
	n := 0
	for _, o := range l.Objects {
		if o.Name == name {
			n++
		}
	}
	return n
}
