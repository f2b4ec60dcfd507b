// Package catalog holds the fixture type definitions the placement engine
// draws from.
//
// A [Catalog] is immutable once built and safe for concurrent use. It is
// loaded from TOML (see [Parse] and [Load]) or taken from the embedded
// default via [Default].
package catalog

import (
	"math/rand/v2"
	"slices"

	ferrors "github.com/matzehuels/fixturefit/pkg/errors"
	"github.com/matzehuels/fixturefit/pkg/geometry"
)

// Range is an inclusive integer interval in centimetres.
type Range struct {
	Min int `json:"min" toml:"min"`
	Max int `json:"max" toml:"max"`
}

// Size is a concrete fixture size.
type Size struct {
	Width  int `json:"width" toml:"width"`
	Depth  int `json:"depth" toml:"depth"`
	Height int `json:"height" toml:"height"`
}

// ObjectType describes one kind of fixture.
type ObjectType struct {
	Name              string             `json:"name" toml:"name"`
	Width             Range              `json:"width" toml:"width"`
	Depth             Range              `json:"depth" toml:"depth"`
	Height            Range              `json:"height" toml:"height"`
	Optimal           Size               `json:"optimal" toml:"optimal"`
	Clearance         geometry.Clearance `json:"clearance" toml:"clearance"`
	MustBeCorner      bool               `json:"must_be_corner" toml:"must_be_corner"`
	MustBeAgainstWall bool               `json:"must_be_against_wall" toml:"must_be_against_wall"`

	// Fallback names a smaller type tried in place of this one once half
	// of the first placement pass has failed.
	Fallback string `json:"fallback,omitempty" toml:"fallback"`

	// Maximize lets the engine grow a placed fixture toward its upper size
	// bounds.
	Maximize bool `json:"maximize,omitempty" toml:"maximize"`
}

// MaxArea is the largest floor area the type can occupy.
func (t ObjectType) MaxArea() int { return t.Width.Max * t.Depth.Max }

// RandomSize draws a size uniformly from the type's ranges, bounds included.
func (t ObjectType) RandomSize(rng *rand.Rand) Size {
	return Size{
		Width:  draw(rng, t.Width),
		Depth:  draw(rng, t.Depth),
		Height: draw(rng, t.Height),
	}
}

// FitsFloor reports whether the smallest size of the type fits inside a
// room of the given floor dimensions in either orientation.
func (t ObjectType) FitsFloor(room geometry.Room) bool {
	w, d := t.Width.Min, t.Depth.Min
	return (d <= room.Width && w <= room.Depth) || (w <= room.Width && d <= room.Depth)
}

// Clamp limits v to the range.
func (r Range) Clamp(v int) int { return min(max(v, r.Min), r.Max) }

// Variations returns the optimal size followed by larger footprints that
// grow the width by step cm at a time and keep the optimal aspect ratio.
// The list ends before the first footprint outside the type's ranges.
// Height stays optimal.
func (t ObjectType) Variations(step int) []Size {
	out := []Size{t.Optimal}
	if step <= 0 || t.Optimal.Width <= 0 {
		return out
	}
	for w := t.Optimal.Width + step; ; w += step {
		d := w * t.Optimal.Depth / t.Optimal.Width
		if w > t.Width.Max || d > t.Depth.Max {
			return out
		}
		out = append(out, Size{Width: w, Depth: d, Height: t.Optimal.Height})
	}
}

func draw(rng *rand.Rand, r Range) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.IntN(r.Max-r.Min+1)
}

func (t ObjectType) validate() error {
	if err := ferrors.ValidateFixtureName(t.Name); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInvalidCatalog, err, "fixture %q", t.Name)
	}
	for _, r := range []struct {
		field string
		rng   Range
		opt   int
	}{
		{"width", t.Width, t.Optimal.Width},
		{"depth", t.Depth, t.Optimal.Depth},
		{"height", t.Height, t.Optimal.Height},
	} {
		if r.rng.Min <= 0 || r.rng.Max < r.rng.Min {
			return ferrors.New(ferrors.ErrCodeInvalidCatalog, "fixture %q: invalid %s range [%d,%d]", t.Name, r.field, r.rng.Min, r.rng.Max)
		}
		if r.opt < r.rng.Min || r.opt > r.rng.Max {
			return ferrors.New(ferrors.ErrCodeInvalidCatalog, "fixture %q: optimal %s %d outside [%d,%d]", t.Name, r.field, r.opt, r.rng.Min, r.rng.Max)
		}
	}
	c := t.Clearance
	if c.Front < 0 || c.Left < 0 || c.Right < 0 || c.Back < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidCatalog, "fixture %q: clearance cannot be negative", t.Name)
	}
	return nil
}

// Catalog is a read-only lookup of fixture types by name.
type Catalog struct {
	types map[string]ObjectType
	names []string
}

// New builds a catalog from types. Names are normalized and must be unique.
func New(types []ObjectType) (*Catalog, error) {
	c := &Catalog{types: make(map[string]ObjectType, len(types))}
	for _, t := range types {
		t.Name = ferrors.NormalizeFixtureName(t.Name)
		if err := t.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.types[t.Name]; dup {
			return nil, ferrors.New(ferrors.ErrCodeInvalidCatalog, "duplicate fixture %q", t.Name)
		}
		c.types[t.Name] = t
		c.names = append(c.names, t.Name)
	}
	for _, t := range c.types {
		if t.Fallback == "" {
			continue
		}
		fb, ok := c.types[ferrors.NormalizeFixtureName(t.Fallback)]
		if !ok || fb.Name == t.Name {
			return nil, ferrors.New(ferrors.ErrCodeInvalidCatalog, "fixture %q: invalid fallback %q", t.Name, t.Fallback)
		}
	}
	slices.Sort(c.names)
	return c, nil
}

// Fallback returns the type t falls back to, if it names one.
func (c *Catalog) Fallback(t ObjectType) (ObjectType, bool) {
	if c == nil || t.Fallback == "" {
		return ObjectType{}, false
	}
	fb, ok := c.types[ferrors.NormalizeFixtureName(t.Fallback)]
	return fb, ok
}

// Lookup returns the type registered under name. Matching ignores case and
// treats spaces like underscores.
func (c *Catalog) Lookup(name string) (ObjectType, error) {
	t, ok := c.types[ferrors.NormalizeFixtureName(name)]
	if !ok {
		return ObjectType{}, ferrors.New(ferrors.ErrCodeUnknownFixture, "unknown fixture type %q", name)
	}
	return t, nil
}

// Resolve looks up every name, failing on the first unknown one.
func (c *Catalog) Resolve(names []string) ([]ObjectType, error) {
	out := make([]ObjectType, 0, len(names))
	for _, n := range names {
		t, err := c.Lookup(n)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Names returns the registered type names in sorted order.
func (c *Catalog) Names() []string { return slices.Clone(c.names) }

// Types returns the registered types ordered by name.
func (c *Catalog) Types() []ObjectType {
	out := make([]ObjectType, len(c.names))
	for i, n := range c.names {
		out[i] = c.types[n]
	}
	return out
}

// Len returns the number of registered types.
func (c *Catalog) Len() int { return len(c.names) }

// SortBySize returns a copy of types ordered by descending MaxArea. Equal
// areas keep their request order.
func SortBySize(types []ObjectType) []ObjectType {
	out := slices.Clone(types)
	slices.SortStableFunc(out, func(a, b ObjectType) int {
		return b.MaxArea() - a.MaxArea()
	})
	return out
}
