package placement

import (
	"github.com/matzehuels/fixturefit/pkg/catalog"
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/layout"
)

// Status classifies the outcome of a placement run.
type Status string

const (
	// StatusComplete means every requested fixture was placed.
	StatusComplete Status = "complete"
	// StatusPartial means some, but not all, fixtures were placed.
	StatusPartial Status = "partial"
	// StatusInfeasible means fixtures were requested and none could be placed.
	StatusInfeasible Status = "infeasible"
)

// StatusOf classifies a run by how many of the requested fixtures it placed.
func StatusOf(requested, placed int) Status {
	switch {
	case requested == 0 || placed == requested:
		return StatusComplete
	case placed == 0:
		return StatusInfeasible
	}
	return StatusPartial
}

// Result is the outcome of one placement run.
type Result struct {
	Layout    layout.Layout `json:"layout"`
	Requested []string      `json:"requested"`
	Unplaced  []string      `json:"unplaced,omitempty"`
	Status    Status        `json:"status"`
}

// Feasible reports whether the run produced a usable layout.
func (r Result) Feasible() bool { return r.Status != StatusInfeasible }

// UnplacedCount returns how many requested fixtures were omitted.
func (r Result) UnplacedCount() int { return len(r.Unplaced) }

// Request is the input of a single placement run.
type Request struct {
	Room     geometry.Room      `json:"room"`
	Openings []geometry.Opening `json:"openings,omitempty"`
	Fixtures []string           `json:"fixtures"`
	Seed     uint64             `json:"seed"`
}

// Place validates req, resolves its fixtures in cat and runs one placement
// pass seeded with req.Seed. Geometry and catalog errors are returned before
// any attempt runs; omitted fixtures are reported in the result.
func Place(req Request, cat *catalog.Catalog, opts Options) (Result, error) {
	if opts.Catalog == nil {
		opts.Catalog = cat
	}
	e, err := NewEngine(req.Room, req.Openings, opts)
	if err != nil {
		return Result{}, err
	}
	types, err := cat.Resolve(req.Fixtures)
	if err != nil {
		return Result{}, err
	}
	return e.Run(types, NewRand(req.Seed)), nil
}
