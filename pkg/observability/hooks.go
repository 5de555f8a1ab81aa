// Package observability provides hooks for metrics, tracing, and logging.
//
// The layout, routing and dataset code emit events through small hook
// interfaces. Nothing is recorded unless a consumer registers an
// implementation at startup; the defaults are no-ops.
//
// # Usage
//
// Register hooks at application startup:
//
//	h := observability.NewLogHooks(logger)
//	observability.SetPipelineHooks(h)
//	observability.SetCacheHooks(h)
//	observability.SetHTTPHooks(h)
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLayoutStart(ctx, focus, leylineCount)
//	// ... run the layout session ...
//	observability.Pipeline().OnLayoutComplete(ctx, focus, placed, duration, err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the load → layout → route → render
// pipeline.
type PipelineHooks interface {
	// Dataset events
	OnLoadStart(ctx context.Context, source, timeframe string)
	OnLoadComplete(ctx context.Context, source, timeframe string, planetCount, leylineCount int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, focus string, leylineCount int)
	OnLayoutComplete(ctx context.Context, focus string, placed int, duration time.Duration, err error)

	// Route events
	OnRouteStart(ctx context.Context, from, to string)
	OnRouteComplete(ctx context.Context, from, to string, reachable bool, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
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

// HTTPHooks receives events from dataset fetches over HTTP.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRouteStart(context.Context, string, string)                        {}
func (NoopPipelineHooks) OnRouteComplete(context.Context, string, string, bool, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// registry is swapped as a whole so readers never see a half-updated set.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var current atomic.Pointer[registry]

func init() {
	Reset()
}

func update(fn func(r *registry)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks registers custom pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks registers custom cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers custom HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset restores all hooks to their no-op defaults.
func Reset() {
	current.Store(&registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}
