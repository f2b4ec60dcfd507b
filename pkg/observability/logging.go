package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug records to
// Logger. The CLI installs it for --verbose runs.
type LogHooks struct {
	Logger *log.Logger
}

// Install registers h for search, cache and HTTP events.
func (h LogHooks) Install() {
	SetSearchHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h LogHooks) OnSearchStart(_ context.Context, strategy string, fixtures int) {
	h.Logger.Debug("search started", "strategy", strategy, "fixtures", fixtures)
}

func (h LogHooks) OnSearchComplete(_ context.Context, strategy string, candidates int, best float64, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("search failed", "strategy", strategy, "took", d.Round(time.Millisecond), "err", err)
		return
	}
	h.Logger.Debug("search finished", "strategy", strategy, "candidates", candidates, "best", best, "took", d.Round(time.Millisecond))
}

func (h LogHooks) OnFixtureUnplaced(_ context.Context, fixture string) {
	h.Logger.Debug("fixture left out", "fixture", fixture)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "kind", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "kind", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache write", "kind", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "route", route, "status", status, "took", d.Round(time.Millisecond))
}

func (h LogHooks) OnError(_ context.Context, method, route string, err error) {
	h.Logger.Debug("request error", "method", method, "route", route, "err", err)
}

var (
	_ SearchHooks = LogHooks{}
	_ CacheHooks  = LogHooks{}
	_ HTTPHooks   = LogHooks{}
)
