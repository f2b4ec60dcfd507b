package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fixturefit/pkg/access"
	"github.com/matzehuels/fixturefit/pkg/cache"
	"github.com/matzehuels/fixturefit/pkg/catalog"
	ferrors "github.com/matzehuels/fixturefit/pkg/errors"
	"github.com/matzehuels/fixturefit/pkg/layout"
	"github.com/matzehuels/fixturefit/pkg/observability"
	"github.com/matzehuels/fixturefit/pkg/scoring"
	"github.com/matzehuels/fixturefit/pkg/search"
	"github.com/matzehuels/fixturefit/pkg/space"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete search → analyze pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Search
	searchStart := time.Now()
	res, searchHit, err := r.SearchWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	result.Search = res
	result.Stats.SearchTime = time.Since(searchStart)
	result.Stats.Requested = len(res.Requested)
	result.Stats.Placed = len(res.Best.Layout.Objects)
	result.Stats.Candidates = len(res.Ranked)
	result.CacheInfo.SearchHit = searchHit

	r.Logger.Info("searched layouts",
		"strategy", res.Strategy,
		"candidates", len(res.Ranked),
		"score", fmt.Sprintf("%.1f", res.Best.Score.Total),
		"cached", searchHit,
		"duration", result.Stats.SearchTime)

	if opts.Strict && !res.Feasible() {
		return result, ferrors.New(ferrors.ErrCodeInfeasible, "no fixture fits in the %dx%d room", opts.Room.Width, opts.Room.Depth)
	}

	// Stage 2: Analyze
	analysisStart := time.Now()
	result.Analysis = Analyze(res.Best.Layout, opts)
	result.Stats.AnalysisTime = time.Since(analysisStart)

	r.Logger.Info("analyzed free space",
		"spaces", len(result.Analysis.Spaces.WithShadow),
		"inaccessible", len(result.Analysis.Access.Inaccessible),
		"duration", result.Stats.AnalysisTime)

	return result, nil
}

// SearchWithCacheInfo runs the configured search strategy with caching and
// returns cache hit info.
func (r *Runner) SearchWithCacheInfo(ctx context.Context, opts Options) (search.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return search.Result{}, false, err
	}

	cacheKey := r.Keyer.SearchKey(CatalogHash(opts.Catalog), opts.SearchKeyParams())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached search.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "search")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "search")
	}

	strategy, err := search.New(opts.Strategy, opts.Catalog, opts.SearchOptions())
	if err != nil {
		return search.Result{}, false, err
	}
	res, err := strategy.Search(ctx, opts.Request())
	if err != nil {
		return search.Result{}, false, err
	}

	// Cache the result
	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLSearch); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "search", len(data))
		}
	}

	return res, false, nil // Cache miss
}

// Search is a convenience wrapper that calls SearchWithCacheInfo and discards the cache hit info.
func (r *Runner) Search(ctx context.Context, opts Options) (search.Result, error) {
	res, _, err := r.SearchWithCacheInfo(ctx, opts)
	return res, err
}

// Score evaluates an existing layout. requested defaults to the names of
// the layout's own objects.
func (r *Runner) Score(l layout.Layout, requested []string, opts Options) (scoring.Score, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := ValidateWeights(opts.Weights); err != nil {
		return scoring.Score{}, err
	}
	if err := l.Validate(); err != nil {
		return scoring.Score{}, err
	}
	if requested == nil {
		requested = l.Fulfilled()
	}
	return scoring.Evaluate(l, requested, opts.ScoringOptions()), nil
}

// Analyze identifies the free floor of l and splits the shadow-free spaces
// by reachability from the doors.
func Analyze(l layout.Layout, opts Options) Analysis {
	opts.SetDefaults()
	avail := space.Identify(l, opts.GridSize)
	return Analysis{
		Spaces: avail,
		Access: access.MarkInaccessible(avail.WithoutShadow, l, opts.PathGrid, opts.MinPathWidth),
	}
}

// CatalogHash returns a content hash of the catalog's fixture types.
func CatalogHash(c *catalog.Catalog) string {
	if c == nil {
		c = catalog.Default()
	}
	data, _ := json.Marshal(c.Types())
	return cache.Hash(data)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
