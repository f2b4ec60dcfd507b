// Package observability routes search, cache and HTTP events to pluggable
// hooks. The registered hooks do nothing until a program installs its own,
// for example [LogHooks] or a metrics exporter, so library code emits events
// unconditionally:
//
//	observability.Search().OnSearchStart(ctx, "beam", len(fixtures))
//	// ... search ...
//	observability.Search().OnSearchComplete(ctx, "beam", candidates, best, duration, err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Search Hooks
// =============================================================================

// SearchHooks receives events from layout searches.
type SearchHooks interface {
	// OnSearchStart is called before a strategy places any fixture.
	OnSearchStart(ctx context.Context, strategy string, fixtures int)

	// OnSearchComplete is called once the strategy has ranked its
	// candidates. best is the winning ranking value.
	OnSearchComplete(ctx context.Context, strategy string, candidates int, best float64, duration time.Duration, err error)

	// OnFixtureUnplaced is called for every fixture the winning layout
	// could not place.
	OnFixtureUnplaced(ctx context.Context, fixture string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response status of a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a handler failure.
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSearchHooks is a no-op implementation of SearchHooks.
type NoopSearchHooks struct{}

func (NoopSearchHooks) OnSearchStart(context.Context, string, int) {}
func (NoopSearchHooks) OnSearchComplete(context.Context, string, int, float64, time.Duration, error) {
}
func (NoopSearchHooks) OnFixtureUnplaced(context.Context, string) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

// registry holds the installed hooks. Reads happen on every event, writes
// only at startup, so each slot is an atomic value rather than a mutex.
type registry struct {
	search atomic.Value // SearchHooks
	cache  atomic.Value // CacheHooks
	http   atomic.Value // HTTPHooks
}

type (
	searchSlot struct{ SearchHooks }
	cacheSlot  struct{ CacheHooks }
	httpSlot   struct{ HTTPHooks }
)

var hooks registry

func init() { Reset() }

// SetSearchHooks installs h for search events. A nil h is ignored.
func SetSearchHooks(h SearchHooks) {
	if h != nil {
		hooks.search.Store(searchSlot{h})
	}
}

// SetCacheHooks installs h for cache events. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		hooks.cache.Store(cacheSlot{h})
	}
}

// SetHTTPHooks installs h for HTTP events. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		hooks.http.Store(httpSlot{h})
	}
}

// Search returns the installed search hooks.
func Search() SearchHooks { return hooks.search.Load().(searchSlot).SearchHooks }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return hooks.cache.Load().(cacheSlot).CacheHooks }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return hooks.http.Load().(httpSlot).HTTPHooks }

// Reset reinstalls the no-op hooks.
func Reset() {
	hooks.search.Store(searchSlot{NoopSearchHooks{}})
	hooks.cache.Store(cacheSlot{NoopCacheHooks{}})
	hooks.http.Store(httpSlot{NoopHTTPHooks{}})
}
