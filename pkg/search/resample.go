package search

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/fixturefit/pkg/catalog"
	"github.com/matzehuels/fixturefit/pkg/layout"
	"github.com/matzehuels/fixturefit/pkg/observability"
	"github.com/matzehuels/fixturefit/pkg/placement"
)

// Resample runs the placement engine repeatedly with independent seeds and
// keeps the best layout.
type Resample struct {
	cat  *catalog.Catalog
	opts Options
}

// NewResample returns a resample strategy drawing types from cat.
func NewResample(cat *catalog.Catalog, opts Options) *Resample {
	return &Resample{cat: cat, opts: opts.withDefaults()}
}

// Name implements Strategy.
func (r *Resample) Name() string { return StrategyResample }

// Search implements Strategy.
func (r *Resample) Search(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	e, types, err := prepare(r.cat, req, r.opts)
	if err != nil {
		return Result{}, err
	}
	observability.Search().OnSearchStart(ctx, StrategyResample, len(types))

	runs := make([]placement.Result, r.opts.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Parallelism)
	for i := range runs {
		seed := r.opts.Seed + uint64(i)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			runs[i] = e.Run(types, placement.NewRand(seed))
			r.opts.Logger.Debug("run complete", "run", i+1, "seed", seed,
				"placed", len(runs[i].Layout.Objects), "status", runs[i].Status)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		observability.Search().OnSearchComplete(ctx, StrategyResample, 0, 0, time.Since(start), err)
		return Result{}, err
	}

	layouts := make([]layout.Layout, len(runs))
	for i, run := range runs {
		layouts[i] = run.Layout
	}
	res := Compare(layouts, typeNames(types), r.opts.Scoring, r.opts.Weights)
	return finish(ctx, res, StrategyResample, start, r.opts), nil
}

// finish stamps res, logs the winner and emits completion hooks.
func finish(ctx context.Context, res Result, strategy string, start time.Time, opts Options) Result {
	res.Strategy = strategy
	res.Duration = time.Since(start)
	opts.Logger.Info("selected layout",
		"strategy", strategy,
		"candidates", len(res.Ranked),
		"score", res.Best.Score.Total,
		"placed", len(res.Best.Layout.Objects),
		"status", res.Status)
	hooks := observability.Search()
	for _, n := range res.Best.Unplaced {
		hooks.OnFixtureUnplaced(ctx, n)
	}
	hooks.OnSearchComplete(ctx, strategy, len(res.Ranked), res.Best.Rank, res.Duration, nil)
	return res
}
