package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "testdata", "")
	p.OnLoadComplete(ctx, "testdata", "", 12, 4, time.Second, nil)
	p.OnLayoutStart(ctx, "aeldrum", 4)
	p.OnLayoutComplete(ctx, "aeldrum", 4, time.Second, nil)
	p.OnRouteStart(ctx, "aeldrum", "vesk")
	p.OnRouteComplete(ctx, "aeldrum", "vesk", false, time.Second, errors.New("boom"))
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "route")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "maps.example.org", "/planets.json")
	h.OnResponse(ctx, "GET", "maps.example.org", "/planets.json", 200, time.Second)
	h.OnError(ctx, "GET", "maps.example.org", "/planets.json", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &countingPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}
	Pipeline().OnLayoutStart(context.Background(), "aeldrum", 3)
	if customPipeline.layouts != 1 {
		t.Errorf("layouts = %d, want 1", customPipeline.layouts)
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &countingPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))

	var (
		_ PipelineHooks = h
		_ CacheHooks    = h
		_ HTTPHooks     = h
	)

	ctx := context.Background()
	h.OnLayoutComplete(ctx, "aeldrum", 3, time.Millisecond, nil)
	h.OnRouteComplete(ctx, "aeldrum", "vesk", false, time.Millisecond, errors.New("no such planet"))
	h.OnCacheHit(ctx, "layout")

	out := buf.String()
	for _, want := range []string{"laid out", "placed=3", "routed failed", "no such planet", "cache hit", "type=layout", "hooks"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	h.OnCacheMiss(context.Background(), "route")
	if buf.Len() != 0 {
		t.Errorf("info-level logger should drop hook events: %q", buf.String())
	}
}

type countingPipelineHooks struct {
	NoopPipelineHooks
	layouts int
}

func (h *countingPipelineHooks) OnLayoutStart(context.Context, string, int) { h.layouts++ }

type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
