package placement

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fixturefit/pkg/catalog"
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/layout"
)

const (
	// DefaultAttempts is the per-pass attempt budget for one fixture.
	DefaultAttempts = 10000

	// CompactionGap is the exclusive upper bound (cm) on gaps that local
	// compaction closes.
	CompactionGap = 50

	// Toilet is the type name that gets the door-free wall rule.
	Toilet = "toilet"
)

// Options configures an Engine.
type Options struct {
	// Attempts bounds each pass per fixture. Zero means DefaultAttempts.
	Attempts int

	// Logger receives per-fixture debug lines and warnings for omitted
	// fixtures. Nil discards output.
	Logger *log.Logger

	// Catalog resolves fallback types. Nil disables fallbacks.
	Catalog *catalog.Catalog
}

// Engine places fixtures into one room. It holds only read-only state and
// may be shared between goroutines as long as each uses its own rand.Rand.
type Engine struct {
	room     geometry.Room
	openings []geometry.Opening
	attempts int
	logger   *log.Logger
	catalog  *catalog.Catalog

	toiletWalls  []geometry.Wall
	doorWalls    []geometry.Wall
	toiletStrict bool
}

// NewEngine validates the room and openings and returns an engine for them.
func NewEngine(room geometry.Room, openings []geometry.Opening, opts Options) (*Engine, error) {
	if err := room.Validate(); err != nil {
		return nil, err
	}
	if err := geometry.ValidateOpenings(room, openings); err != nil {
		return nil, err
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	e := &Engine{
		room:      room,
		openings:  openings,
		attempts:  opts.Attempts,
		logger:    opts.Logger,
		catalog:   opts.Catalog,
		doorWalls: geometry.DoorWalls(openings),
	}
	for _, w := range geometry.Sides {
		if !contains(e.doorWalls, w) {
			e.toiletWalls = append(e.toiletWalls, w)
		}
	}
	e.toiletStrict = len(e.toiletWalls) > 0
	if !e.toiletStrict {
		e.toiletWalls = geometry.Sides
	}
	return e, nil
}

// Room returns the engine's room.
func (e *Engine) Room() geometry.Room { return e.room }

// Openings returns the engine's doors and windows.
func (e *Engine) Openings() []geometry.Opening { return e.openings }

// NewRand returns the PCG-backed generator used for a run seeded with seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Run places types into an empty layout and refines the result. Types are
// processed largest first; the input slice is not modified.
func (e *Engine) Run(types []catalog.ObjectType, rng *rand.Rand) Result {
	res := Result{
		Layout:    layout.New(e.room, e.openings),
		Requested: typeNames(types),
	}
	idx := geometry.NewIndex(e.room)
	used := make(map[string]catalog.ObjectType, len(types))

	for _, t := range catalog.SortBySize(types) {
		obj, st, ok := e.placeOne(res.Layout, idx, t, rng)
		if !ok {
			e.logger.Warn("could not place fixture", "fixture", t.Name, "attempts", st.attempts)
			res.Unplaced = append(res.Unplaced, t.Name)
			continue
		}
		used[st.placed.Name] = st.placed
		res.Layout = res.Layout.With(obj)
		idx.Insert(obj.Occupant(e.room))
		e.logger.Debug("placed fixture",
			"fixture", t.Name,
			"as", obj.Name,
			"x", obj.X, "y", obj.Y,
			"size", [2]int{obj.Width, obj.Depth},
			"wall", obj.Wall(e.room),
			"pass", st.pass,
			"attempts", st.attempts,
			"compacted", st.compacted)
	}

	res.Layout = e.Refine(res.Layout, used)
	res.Status = StatusOf(len(types), len(res.Layout.Objects))
	return res
}

type attemptStats struct {
	pass      int
	attempts  int
	compacted bool
	placed    catalog.ObjectType
}

// placeOne runs up to two passes of e.attempts each. Pass 1 uses the
// optimal size; pass 2 draws one random size and keeps it for every
// attempt. Halfway through pass 1 a type with a fallback is swapped for
// it, and a type that cannot fit the floor at all falls back at once.
func (e *Engine) placeOne(l layout.Layout, idx *geometry.Index, t catalog.ObjectType, rng *rand.Rand) (layout.Object, attemptStats, bool) {
	st := attemptStats{placed: t}
	swapped := false
	if !t.FitsFloor(e.room) {
		fb, ok := e.catalog.Fallback(t)
		if !ok || !fb.FitsFloor(e.room) {
			return layout.Object{}, st, false
		}
		st.placed, swapped = fb, true
	}

	for pass := 1; pass <= 2; pass++ {
		st.pass = pass
		size := st.placed.Optimal
		if pass == 2 {
			size = st.placed.RandomSize(rng)
		}
		for i := 0; i < e.attempts; i++ {
			if pass == 1 && i == e.attempts/2 && !swapped {
				if fb, ok := e.catalog.Fallback(st.placed); ok {
					e.logger.Debug("falling back", "fixture", t.Name, "to", fb.Name, "attempts", st.attempts)
					st.placed, size, swapped = fb, fb.Optimal, true
				}
			}
			st.attempts++
			r, ok := e.Sample(st.placed, size.Width, size.Depth, rng)
			if !ok {
				continue
			}
			obj := layout.NewObject(st.placed, r, size.Height)
			if swapped {
				obj.StandsIn = t.Name
			}
			if !e.Admit(idx, obj) {
				continue
			}
			compacted := e.Compact(l, idx, obj)
			st.compacted = compacted != obj
			return compacted, st, true
		}
	}
	return layout.Object{}, st, false
}

// Admit reports whether obj may join the layout indexed by idx: it must be
// a valid placement and must keep clear of every door swing zone and
// window. For toilets validity against other fixtures is decided first and
// door rules only veto an otherwise valid position.
func (e *Engine) Admit(idx *geometry.Index, obj layout.Object) bool {
	occ := obj.Occupant(e.room)
	if obj.Name == Toilet {
		if !idx.Valid(occ) {
			return false
		}
		if !e.toiletWallAllowed(obj.Wall(e.room)) {
			return false
		}
		return !geometry.DoorWindowOverlap(occ.Footprint, occ.Shadow, obj.Height, e.openings, e.room)
	}
	if geometry.DoorWindowOverlap(occ.Footprint, occ.Shadow, obj.Height, e.openings, e.room) {
		return false
	}
	return idx.Valid(occ)
}

// toiletWallAllowed rejects toilet classes touching a door wall whenever a
// door-free wall exists.
func (e *Engine) toiletWallAllowed(w geometry.Wall) bool {
	if !e.toiletStrict {
		return true
	}
	for _, dw := range e.doorWalls {
		if w.Touches(dw) {
			return false
		}
	}
	return true
}

func typeNames(types []catalog.ObjectType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.Name
	}
	return out
}

func contains(walls []geometry.Wall, w geometry.Wall) bool {
	for _, x := range walls {
		if x == w {
			return true
		}
	}
	return false
}
