package search

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/fixturefit/pkg/catalog"
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/layout"
	"github.com/matzehuels/fixturefit/pkg/observability"
	"github.com/matzehuels/fixturefit/pkg/placement"
	"github.com/matzehuels/fixturefit/pkg/scoring"
)

// sizeStep is the width increment (cm) between the size variations a beam
// step tries.
const sizeStep = 5

// maxPerScore caps how many expansions with the same rounded rank survive
// a beam step.
const maxPerScore = 2

// undiversified types keep every expansion regardless of equal ranks.
var undiversified = []string{"bathtub", "shower"}

// Beam builds layouts fixture by fixture, keeping the best partial layouts
// at each step.
type Beam struct {
	cat  *catalog.Catalog
	opts Options
}

// NewBeam returns a beam strategy drawing types from cat.
func NewBeam(cat *catalog.Catalog, opts Options) *Beam {
	return &Beam{cat: cat, opts: opts.withDefaults()}
}

// Name implements Strategy.
func (b *Beam) Name() string { return StrategyBeam }

type entry struct {
	layout layout.Layout
	rank   float64
}

// Search implements Strategy. Types are processed largest first. A type
// with no valid expansion in any beam entry is dropped and the search goes
// on with the next type.
func (b *Beam) Search(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	e, types, err := prepare(b.cat, req, b.opts)
	if err != nil {
		return Result{}, err
	}
	hooks := observability.Search()
	hooks.OnSearchStart(ctx, StrategyBeam, len(types))

	beam := []entry{{layout: layout.New(req.Room, req.Openings)}}
	var placed []string

	for step, t := range catalog.SortBySize(types) {
		requested := append(slices.Clone(placed), t.Name)
		next, err := b.step(ctx, e, beam, t, "", requested, step)
		if err == nil && len(next) == 0 {
			if fb, ok := b.cat.Fallback(t); ok {
				b.opts.Logger.Debug("no valid placement, trying fallback", "fixture", t.Name, "fallback", fb.Name)
				next, err = b.step(ctx, e, beam, fb, t.Name, requested, step)
			}
		}
		if err != nil {
			hooks.OnSearchComplete(ctx, StrategyBeam, 0, 0, time.Since(start), err)
			return Result{}, err
		}
		if len(next) == 0 {
			b.opts.Logger.Warn("no valid placement in any beam entry, dropping fixture", "fixture", t.Name)
			continue
		}
		slices.SortStableFunc(next, func(x, y entry) int {
			switch {
			case x.rank > y.rank:
				return -1
			case x.rank < y.rank:
				return 1
			}
			return 0
		})
		if !slices.Contains(undiversified, t.Name) {
			next = diversify(next, maxPerScore)
		}
		beam = next[:min(len(next), b.opts.BeamWidth)]
		placed = requested
		b.opts.Logger.Debug("beam step", "fixture", t.Name, "expansions", len(next), "best", beam[0].rank)
	}

	layouts := make([]layout.Layout, len(beam))
	for i, en := range beam {
		layouts[i] = en.layout
	}
	res := Compare(layouts, typeNames(types), b.opts.Scoring, b.opts.Weights)
	return finish(ctx, res, StrategyBeam, start, b.opts), nil
}

// step expands every beam entry with one fixture of type t in parallel.
// standsIn, when set, marks the new fixtures as replacing that type.
func (b *Beam) step(ctx context.Context, e *placement.Engine, beam []entry, t catalog.ObjectType, standsIn string, requested []string, step int) ([]entry, error) {
	children := make([][]entry, len(beam))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Parallelism)
	for i, parent := range beam {
		rng := placement.NewRand(deriveSeed(b.opts.Seed, step, i))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			children[i] = b.expand(e, parent.layout, t, standsIn, requested, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(children...), nil
}

// diversify keeps at most n entries per rank rounded to five decimals.
// sorted must be ordered by rank; the order is preserved.
func diversify(sorted []entry, n int) []entry {
	seen := make(map[float64]int, len(sorted))
	out := sorted[:0:0]
	for _, en := range sorted {
		key := math.Round(en.rank*1e5) / 1e5
		seen[key]++
		if seen[key] <= n {
			out = append(out, en)
		}
	}
	return out
}

// expand returns up to Expansions children of parent, each with one more
// fixture of type t. Candidate positions come from every size variation and
// are visited in a shuffled order.
func (b *Beam) expand(e *placement.Engine, parent layout.Layout, t catalog.ObjectType, standsIn string, requested []string, rng *rand.Rand) []entry {
	type option struct {
		rect   geometry.Rect
		height int
	}
	var opts []option
	seen := map[geometry.Rect]bool{}
	for _, size := range t.Variations(sizeStep) {
		for _, r := range e.Enumerate(t, size.Width, size.Depth, b.opts.Step) {
			if !seen[r] {
				seen[r] = true
				opts = append(opts, option{r, size.Height})
			}
		}
	}
	rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })

	idx := parent.Index()
	var out []entry
	for _, o := range opts {
		if len(out) == b.opts.Expansions {
			break
		}
		obj := layout.NewObject(t, o.rect, o.height)
		obj.StandsIn = standsIn
		if !e.Admit(idx, obj) {
			continue
		}
		l := parent.With(obj)
		s := scoring.Evaluate(l, requested, b.opts.Scoring)
		out = append(out, entry{layout: l, rank: s.Weighted(b.opts.Weights)})
	}
	return out
}

func deriveSeed(base uint64, step, entry int) uint64 {
	return base ^ uint64(step+1)<<32 ^ uint64(entry+1)
}
