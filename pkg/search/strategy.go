package search

import (
	"context"
	"io"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fixturefit/pkg/catalog"
	ferrors "github.com/matzehuels/fixturefit/pkg/errors"
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/placement"
	"github.com/matzehuels/fixturefit/pkg/scoring"
)

// Strategy names.
const (
	StrategyResample = "resample"
	StrategyBeam     = "beam"
)

// Strategies lists the available strategy names.
var Strategies = []string{StrategyBeam, StrategyResample}

// Defaults.
const (
	DefaultRuns       = 10
	DefaultBeamWidth  = 5
	DefaultExpansions = 10
	DefaultStep       = 20
)

// Strategy searches for layouts of one room.
type Strategy interface {
	// Name returns the strategy name.
	Name() string

	// Search places req's fixtures and returns the ranked candidates.
	// Malformed geometry and unknown fixture names fail before any
	// placement; an unplaceable request is reported through Result.Status.
	Search(ctx context.Context, req Request) (Result, error)
}

// Request is the input of a search.
type Request struct {
	Room     geometry.Room      `json:"room"`
	Openings []geometry.Opening `json:"openings,omitempty"`
	Fixtures []string           `json:"fixtures"`
}

// Options configures both strategies. Zero fields take their defaults.
type Options struct {
	// Seed is the base seed; run i of the resample strategy uses Seed+i.
	Seed uint64

	// Attempts is the per-pass attempt budget of the placement engine.
	Attempts int

	// Runs is the number of resample runs.
	Runs int

	// BeamWidth and Expansions bound the beam strategy.
	BeamWidth  int
	Expansions int

	// Step is the spacing (cm) of enumerated beam positions.
	Step int

	// Parallelism bounds concurrent runs or expansions. Zero means
	// GOMAXPROCS.
	Parallelism int

	// Scoring configures evaluation of every candidate.
	Scoring scoring.Options

	// Weights, when set, rank candidates by the weighted mean of these
	// criteria instead of the total.
	Weights map[string]float64

	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Runs <= 0 {
		o.Runs = DefaultRuns
	}
	if o.BeamWidth <= 0 {
		o.BeamWidth = DefaultBeamWidth
	}
	if o.Expansions <= 0 {
		o.Expansions = DefaultExpansions
	}
	if o.Step <= 0 {
		o.Step = DefaultStep
	}
	if o.Parallelism <= 0 {
		o.Parallelism = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// New returns the strategy registered under name.
func New(name string, cat *catalog.Catalog, opts Options) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyResample:
		return NewResample(cat, opts), nil
	case StrategyBeam, "":
		return NewBeam(cat, opts), nil
	}
	return nil, ferrors.New(ferrors.ErrCodeInvalidOptions, "unknown search strategy %q (want %s)", name, strings.Join(Strategies, " or "))
}

// prepare validates req and resolves its fixture types.
func prepare(cat *catalog.Catalog, req Request, opts Options) (*placement.Engine, []catalog.ObjectType, error) {
	e, err := placement.NewEngine(req.Room, req.Openings, placement.Options{
		Attempts: opts.Attempts,
		Logger:   opts.Logger,
		Catalog:  cat,
	})
	if err != nil {
		return nil, nil, err
	}
	types, err := cat.Resolve(req.Fixtures)
	if err != nil {
		return nil, nil, err
	}
	return e, types, nil
}

func typeNames(types []catalog.ObjectType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.Name
	}
	return out
}
