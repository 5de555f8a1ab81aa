package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should never hit")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("empty cache should miss")
	}

	if err := c.Set(ctx, "layout:1", []byte(`{"focus":"aeldrum"}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:1")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v", hit, err)
	}
	if string(data) != `{"focus":"aeldrum"}` {
		t.Errorf("Get data = %s", data)
	}

	if err := c.Delete(ctx, "layout:1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:1"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "layout:1"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl should never expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("cleared cache should miss")
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	type payload struct {
		Focus string `json:"focus"`
	}
	if err := SetJSON(ctx, c, "k", payload{Focus: "aeldrum"}, time.Hour); err != nil {
		t.Fatal(err)
	}
	var got payload
	hit, err := GetJSON(ctx, c, "k", &got)
	if err != nil || !hit {
		t.Fatalf("GetJSON = %v, %v", hit, err)
	}
	if got.Focus != "aeldrum" {
		t.Errorf("Focus = %q", got.Focus)
	}

	if err := c.Set(ctx, "raw", []byte("{"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if hit, err := GetJSON(ctx, c, "raw", &got); hit || err != nil {
		t.Errorf("undecodable entry: hit=%v err=%v", hit, err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}

	a, _ := HashJSON(map[string]int{"x": 1, "y": 2})
	b, _ := HashJSON(map[string]int{"y": 2, "x": 1})
	if a != b {
		t.Error("HashJSON should not depend on map order")
	}
	if _, err := HashJSON(func() {}); err == nil {
		t.Error("HashJSON should reject unencodable values")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.HTTPKey("data", "https://example.org/planets.json"); got != "http:data:https://example.org/planets.json" {
		t.Errorf("HTTPKey = %s", got)
	}

	lk1 := k.LayoutKey("abc", LayoutKeyOpts{Focus: "aeldrum"})
	lk2 := k.LayoutKey("abc", LayoutKeyOpts{Focus: "aeldrum", TheaterOnly: true})
	if lk1 == lk2 {
		t.Error("different LayoutKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey prefix: %s", lk1)
	}
	if lk1 != k.LayoutKey("abc", LayoutKeyOpts{Focus: "aeldrum"}) {
		t.Error("LayoutKey should be deterministic")
	}

	rk1 := k.RouteKey("abc", RouteKeyOpts{From: "a", To: "b"})
	rk2 := k.RouteKey("abc", RouteKeyOpts{From: "b", To: "a"})
	if rk1 == rk2 {
		t.Error("route direction should be part of the key")
	}

	ak1 := k.ArtifactKey("abc", ArtifactKeyOpts{Kind: "layout", Format: "svg"})
	ak2 := k.ArtifactKey("abc", ArtifactKeyOpts{Kind: "layout", Format: "dot"})
	if ak1 == ak2 {
		t.Error("different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "staging:")
	if got := scoped.HTTPKey("data", "x"); got != "staging:http:data:x" {
		t.Errorf("HTTPKey = %s", got)
	}
	for _, key := range []string{
		scoped.LayoutKey("h", LayoutKeyOpts{}),
		scoped.RouteKey("h", RouteKeyOpts{}),
		scoped.ArtifactKey("h", ArtifactKeyOpts{}),
	} {
		if !strings.HasPrefix(key, "staging:") {
			t.Errorf("key not prefixed: %s", key)
		}
	}

	if got := NewScopedKeyer(nil, "p:").HTTPKey("ns", "k"); got != "p:http:ns:k" {
		t.Errorf("nil inner: %s", got)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0"); err == nil {
		t.Error("connecting to a closed port should fail")
	}
	if _, err := NewRedisCache(ctx, "not a url"); err == nil {
		t.Error("invalid URL should fail")
	}
}
