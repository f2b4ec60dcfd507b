// Package pipeline provides the core layout pipeline for fixturefit.
//
// This package implements the complete search → analyze pipeline that is
// used by the CLI and the HTTP API. By centralizing this logic, both entry
// points apply the same defaults, validation and caching.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Search: Place the requested fixtures with a search strategy and rank
//     the candidate layouts
//  2. Analyze: Identify the free floor of the best layout and mark the
//     spaces a person cannot walk into
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Room:     geometry.Room{Width: 200, Depth: 200},
//	    Fixtures: []string{"toilet", "sink"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	best := result.Search.Best
//
// Run individual stages:
//
//	// Search only
//	res, err := runner.Search(ctx, opts)
//
//	// Analyze an existing layout
//	analysis := pipeline.Analyze(l, opts)
package pipeline

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fixturefit/pkg/access"
	"github.com/matzehuels/fixturefit/pkg/catalog"
	ferrors "github.com/matzehuels/fixturefit/pkg/errors"
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/scoring"
	"github.com/matzehuels/fixturefit/pkg/search"
	"github.com/matzehuels/fixturefit/pkg/space"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultStrategy is the default search strategy.
	DefaultStrategy = search.StrategyBeam

	// DefaultAttempts is the per-pass attempt budget of the placement engine.
	DefaultAttempts = 10000

	// DefaultRuns is the number of independent resample runs.
	DefaultRuns = search.DefaultRuns

	// DefaultBeamWidth is the number of partial layouts kept per beam step.
	DefaultBeamWidth = search.DefaultBeamWidth

	// DefaultExpansions is the number of children tried per beam entry.
	DefaultExpansions = search.DefaultExpansions

	// DefaultGridSize is the cell size (cm) of the space analysis.
	DefaultGridSize = 1

	// DefaultPathGrid is the cell size (cm) of the pathway analysis.
	DefaultPathGrid = scoring.DefaultGridSize

	// DefaultPathWidth is the corridor width (cm) required from a door to
	// each fixture.
	DefaultPathWidth = scoring.DefaultPathWidth

	// DefaultMinPathWidth is the corridor width (cm) used to decide whether
	// a free space can be walked into.
	DefaultMinPathWidth = scoring.DefaultMinPathWidth

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)
)

// MaxFixtures bounds the number of fixtures in one request.
const MaxFixtures = 32

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Request
	Room     geometry.Room      `json:"room"`
	Openings []geometry.Opening `json:"openings,omitempty"`
	Fixtures []string           `json:"fixtures"`

	// Search options
	Strategy   string `json:"strategy,omitempty"`
	Seed       uint64 `json:"seed,omitempty"`
	Attempts   int    `json:"attempts,omitempty"`
	Runs       int    `json:"runs,omitempty"`
	BeamWidth  int    `json:"beam_width,omitempty"`
	Expansions int    `json:"expansions,omitempty"`
	Strict     bool   `json:"strict,omitempty"` // Fail when no fixture can be placed
	Refresh    bool   `json:"refresh,omitempty"`

	// Scoring and analysis options
	GridSize     int                `json:"grid_size,omitempty"`
	PathGrid     int                `json:"path_grid,omitempty"`
	PathWidth    int                `json:"path_width,omitempty"`
	MinPathWidth int                `json:"min_path_width,omitempty"`
	Extended     bool               `json:"extended,omitempty"` // Add enclosed-space and opposite-wall criteria
	Weights      map[string]float64 `json:"weights,omitempty"`

	// Runtime options (not serialized)
	Catalog     *catalog.Catalog `json:"-"`
	Parallelism int              `json:"-"`
	Logger      *log.Logger      `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Search is the ranked outcome of the search stage.
	Search search.Result

	// Analysis describes the free floor of the best layout.
	Analysis Analysis

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Analysis is the free-floor report of one layout.
type Analysis struct {
	Spaces space.Available `json:"spaces"`
	Access access.Spaces   `json:"access"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Requested    int
	Placed       int
	Candidates   int
	SearchTime   time.Duration
	AnalysisTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SearchHit bool // Whether the search result came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateStrategy checks that a strategy name is valid.
func ValidateStrategy(name string) error {
	if !slices.Contains(search.Strategies, name) {
		return ferrors.New(ferrors.ErrCodeInvalidOptions, "invalid strategy: %q (must be one of: %s)", name, strings.Join(search.Strategies, ", "))
	}
	return nil
}

// ValidateWeights checks that every weighted criterion exists and that no
// weight is negative.
func ValidateWeights(weights map[string]float64) error {
	for _, k := range slices.Sorted(maps.Keys(weights)) {
		if !slices.Contains(scoring.Order, k) {
			return ferrors.New(ferrors.ErrCodeInvalidOptions, "unknown criterion %q", k)
		}
		if weights[k] < 0 {
			return ferrors.New(ferrors.ErrCodeInvalidOptions, "weight of %q must not be negative", k)
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills every zero field with its default.
func (o *Options) SetDefaults() {
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	o.Strategy = strings.ToLower(strings.TrimSpace(o.Strategy))
	fixtures := make([]string, len(o.Fixtures))
	for i, f := range o.Fixtures {
		fixtures[i] = ferrors.NormalizeFixtureName(f)
	}
	o.Fixtures = fixtures
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Attempts == 0 {
		o.Attempts = DefaultAttempts
	}
	if o.Runs == 0 {
		o.Runs = DefaultRuns
	}
	if o.BeamWidth == 0 {
		o.BeamWidth = DefaultBeamWidth
	}
	if o.Expansions == 0 {
		o.Expansions = DefaultExpansions
	}
	if o.GridSize == 0 {
		o.GridSize = DefaultGridSize
	}
	if o.PathGrid == 0 {
		o.PathGrid = DefaultPathGrid
	}
	if o.PathWidth == 0 {
		o.PathWidth = DefaultPathWidth
	}
	if o.MinPathWidth == 0 {
		o.MinPathWidth = DefaultMinPathWidth
	}
	if o.Catalog == nil {
		o.Catalog = catalog.Default()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the request and the search bounds. Geometry is checked
// here so that malformed rooms fail before a cache lookup.
func (o *Options) Validate() error {
	if err := o.Room.Validate(); err != nil {
		return err
	}
	if err := geometry.ValidateOpenings(o.Room, o.Openings); err != nil {
		return err
	}
	if len(o.Fixtures) > MaxFixtures {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "at most %d fixtures per request, got %d", MaxFixtures, len(o.Fixtures))
	}
	for _, f := range o.Fixtures {
		if err := ferrors.ValidateFixtureName(f); err != nil {
			return err
		}
	}
	if err := ValidateStrategy(o.Strategy); err != nil {
		return err
	}
	for _, f := range []struct {
		name  string
		value int
	}{
		{"attempts", o.Attempts},
		{"runs", o.Runs},
		{"beam_width", o.BeamWidth},
		{"expansions", o.Expansions},
		{"grid_size", o.GridSize},
		{"path_grid", o.PathGrid},
		{"path_width", o.PathWidth},
		{"min_path_width", o.MinPathWidth},
	} {
		if f.value < 0 {
			return ferrors.New(ferrors.ErrCodeInvalidOptions, "%s must not be negative, got %d", f.name, f.value)
		}
	}
	return ValidateWeights(o.Weights)
}

// Request returns the search request described by the options.
func (o *Options) Request() search.Request {
	return search.Request{Room: o.Room, Openings: o.Openings, Fixtures: o.Fixtures}
}

// ScoringOptions returns the scoring configuration.
func (o *Options) ScoringOptions() scoring.Options {
	return scoring.Options{
		GridSize:     o.PathGrid,
		PathWidth:    o.PathWidth,
		MinPathWidth: o.MinPathWidth,
		Extended:     o.Extended,
		Logger:       o.Logger,
	}
}

// SearchOptions returns the search configuration.
func (o *Options) SearchOptions() search.Options {
	return search.Options{
		Seed:        o.Seed,
		Attempts:    o.Attempts,
		Runs:        o.Runs,
		BeamWidth:   o.BeamWidth,
		Expansions:  o.Expansions,
		Parallelism: o.Parallelism,
		Scoring:     o.ScoringOptions(),
		Weights:     o.Weights,
		Logger:      o.Logger,
	}
}

// searchKeyParams holds every option that changes a search result.
type searchKeyParams struct {
	Strategy     string             `json:"strategy"`
	Request      search.Request     `json:"request"`
	Seed         uint64             `json:"seed"`
	Attempts     int                `json:"attempts"`
	Runs         int                `json:"runs"`
	BeamWidth    int                `json:"beam_width"`
	Expansions   int                `json:"expansions"`
	PathGrid     int                `json:"path_grid"`
	PathWidth    int                `json:"path_width"`
	MinPathWidth int                `json:"min_path_width"`
	Extended     bool               `json:"extended"`
	Weights      map[string]float64 `json:"weights,omitempty"`
}

// SearchKeyParams returns cache key parameters for the search stage.
func (o *Options) SearchKeyParams() any {
	return searchKeyParams{
		Strategy:     o.Strategy,
		Request:      o.Request(),
		Seed:         o.Seed,
		Attempts:     o.Attempts,
		Runs:         o.Runs,
		BeamWidth:    o.BeamWidth,
		Expansions:   o.Expansions,
		PathGrid:     o.PathGrid,
		PathWidth:    o.PathWidth,
		MinPathWidth: o.MinPathWidth,
		Extended:     o.Extended,
		Weights:      o.Weights,
	}
}

// String summarizes the request for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("%dx%d room, %d fixtures, %s", o.Room.Width, o.Room.Depth, len(o.Fixtures), o.Strategy)
}
