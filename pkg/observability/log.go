package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a charm logger at debug level. It
// implements PipelineHooks, CacheHooks and HTTPHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l.WithPrefix("hooks")}
}

func (h *LogHooks) done(msg string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "took", d.Round(time.Microsecond))
	if err != nil {
		h.logger.Debug(msg+" failed", append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

func (h *LogHooks) OnLoadStart(_ context.Context, source, timeframe string) {
	h.logger.Debug("load", "source", source, "timeframe", timeframe)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source, timeframe string, planets, leylines int, d time.Duration, err error) {
	h.done("loaded", d, err, "source", source, "timeframe", timeframe, "planets", planets, "leylines", leylines)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, focus string, leylines int) {
	h.logger.Debug("layout", "focus", focus, "leylines", leylines)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, focus string, placed int, d time.Duration, err error) {
	h.done("laid out", d, err, "focus", focus, "placed", placed)
}

func (h *LogHooks) OnRouteStart(_ context.Context, from, to string) {
	h.logger.Debug("route", "from", from, "to", to)
}

func (h *LogHooks) OnRouteComplete(_ context.Context, from, to string, reachable bool, d time.Duration, err error) {
	h.done("routed", d, err, "from", from, "to", to, "reachable", reachable)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("rendered", d, err, "formats", formats)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}
