// Package scoring rates a layout against the bathroom design criteria.
//
// [Evaluate] computes one subscore per applicable criterion, in the range
// 0 to 10, and averages them into a total between 0 and 100. A layout with
// overlapping fixtures, a fixture off its required wall or corner, or poor
// door-to-fixture access gets a total of 0 no matter how well it does
// otherwise.
//
// Evaluation is a pure function of its inputs; scoring the same layout
// twice gives identical results.
package scoring

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fixturefit/pkg/access"
	"github.com/matzehuels/fixturefit/pkg/layout"
)

// Criterion keys in the breakdown.
const (
	NoOverlap             = "no_overlap"
	WallCornerConstraints = "wall_corner_constraints"
	WallCoverage          = "wall_coverage"
	CornerCoverage        = "corner_coverage"
	DoorSink              = "door_sink"
	CornerToilet          = "corner_toilet"
	Spacing               = "spacing"
	RequestedObjects      = "requested_objects"
	ShadowConstraints     = "shadow_constraints"
	BathtubPlacement      = "bathtub_placement"
	PathwayAccessibility  = "pathway_accessibility"
	SinkFreeSpace         = "sink_free_space"
	ToiletFreeSpace       = "toilet_free_space"
	DoorFreeSpace         = "door_free_space"
	EnclosedSpaces        = "enclosed_spaces"
	OppositeWallsDistance = "opposite_walls_distance"
)

// Order lists every criterion key in display order.
var Order = []string{
	NoOverlap, WallCornerConstraints, WallCoverage, CornerCoverage,
	DoorSink, CornerToilet, Spacing, RequestedObjects, ShadowConstraints,
	BathtubPlacement, PathwayAccessibility, SinkFreeSpace, ToiletFreeSpace,
	DoorFreeSpace, EnclosedSpaces, OppositeWallsDistance,
}

const (
	// DefaultGridSize is the cell size (cm) of the access grids.
	DefaultGridSize = 5
	// DefaultPathWidth is the corridor width (cm) of the pathway search.
	DefaultPathWidth = 60
	// DefaultMinPathWidth is the corridor width (cm) for enclosed spaces.
	DefaultMinPathWidth = 30

	// PathwayGate is the pathway subscore below which the total is zeroed.
	PathwayGate = 4.0
)

// Options configures Evaluate. The zero value uses the defaults and the
// base criteria only.
type Options struct {
	GridSize     int
	PathWidth    int
	MinPathWidth int

	// Extended adds enclosed_spaces and opposite_walls_distance.
	Extended bool

	// Logger receives a debug line per evaluation. Nil discards output.
	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.GridSize <= 0 {
		o.GridSize = DefaultGridSize
	}
	if o.PathWidth <= 0 {
		o.PathWidth = DefaultPathWidth
	}
	if o.MinPathWidth <= 0 {
		o.MinPathWidth = DefaultMinPathWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// Breakdown maps criterion keys to subscores.
type Breakdown map[string]float64

// Keys returns the present keys in Order.
func (b Breakdown) Keys() []string {
	var keys []string
	for _, k := range Order {
		if _, ok := b[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Mean returns the average subscore, or 0 for an empty breakdown.
func (b Breakdown) Mean() float64 {
	if len(b) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range b {
		sum += v
	}
	return sum / float64(len(b))
}

// Score is the result of Evaluate.
type Score struct {
	Total     float64   `json:"total"`
	Breakdown Breakdown `json:"breakdown"`
	// Gated is set when a hard gate forced Total to 0.
	Gated bool `json:"gated,omitempty"`
	// Pathways is the door-to-fixture analysis behind
	// pathway_accessibility, kept for rendering.
	Pathways access.Pathways `json:"pathways"`
}

// Weighted ranks the score by the weighted mean of the breakdown entries
// named in weights, scaled to 0..100. It falls back to Total when weights
// is empty or names no present criterion.
func (s Score) Weighted(weights map[string]float64) float64 {
	sum, norm := 0.0, 0.0
	for k, w := range weights {
		if v, ok := s.Breakdown[k]; ok && w > 0 {
			sum += v * w
			norm += w
		}
	}
	if norm == 0 {
		return s.Total
	}
	return sum / norm * 10
}

// Evaluate scores l. requested lists the fixture type names the caller
// asked for; for partial layouts pass only the types placed so far.
func Evaluate(l layout.Layout, requested []string, opts Options) Score {
	opts = opts.withDefaults()
	e := evaluator{l: l, room: l.Room, opts: opts}
	b := Breakdown{}

	b[NoOverlap] = e.noOverlap()
	b[WallCornerConstraints] = e.wallCorner()
	b[WallCoverage] = e.wallCoverage()
	b[CornerCoverage] = e.cornerCoverage()
	if v, ok := e.doorSink(); ok {
		b[DoorSink] = v
	}
	if v, ok := e.cornerToilet(); ok {
		b[CornerToilet] = v
	}
	b[Spacing] = e.spacing()
	b[RequestedObjects] = requestedScore(l, requested)
	b[ShadowConstraints] = e.shadow()
	if v, ok := e.bathtub(requested); ok {
		b[BathtubPlacement] = v
	}

	pw := access.AnalyzePathways(l, opts.GridSize, opts.PathWidth)
	b[PathwayAccessibility] = pw.Fraction() * 10

	b[SinkFreeSpace] = e.fixtureFreeSpace(isSink)
	if hasAny(l, isToilet) {
		b[ToiletFreeSpace] = e.fixtureFreeSpace(isToilet)
	}
	if v, ok := e.doorFreeSpace(); ok {
		b[DoorFreeSpace] = v
	}

	if opts.Extended {
		b[EnclosedSpaces] = e.enclosedSpaces()
		b[OppositeWallsDistance] = e.oppositeWalls()
	}

	s := Score{Breakdown: b, Pathways: pw}
	s.Total = min(max(b.Mean()*10, 0), 100)
	if b[NoOverlap] == 0 || b[WallCornerConstraints] == 0 || b[PathwayAccessibility] < PathwayGate {
		s.Total = 0
		s.Gated = true
	}
	opts.Logger.Debug("scored layout", "objects", len(l.Objects), "total", s.Total, "gated", s.Gated)
	return s
}

// requestedScore matches fulfilled names against requested names as a
// multiset.
func requestedScore(l layout.Layout, requested []string) float64 {
	if len(requested) == 0 {
		return 10
	}
	left := map[string]int{}
	for _, n := range l.Fulfilled() {
		left[n]++
	}
	matched := 0
	for _, n := range requested {
		if left[n] > 0 {
			left[n]--
			matched++
		}
	}
	return float64(matched) / float64(len(requested)) * 10
}

func isSink(name string) bool   { return name == "sink" || name == "double_sink" }
func isToilet(name string) bool { return name == "toilet" }
func isBathtub(name string) bool {
	return name == "bathtub"
}

func hasAny(l layout.Layout, match func(string) bool) bool {
	return slices.ContainsFunc(l.Objects, func(o layout.Object) bool { return match(o.Name) })
}
