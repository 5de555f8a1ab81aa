package pipeline

import (
	"bytes"
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/leymap/pkg/archive"
	"github.com/matzehuels/leymap/pkg/cache"
	"github.com/matzehuels/leymap/pkg/errors"
	"github.com/matzehuels/leymap/pkg/graph"
)

const testPlanets = `{
  "a": {"full_name": "Aeldrum", "capital": true},
  "b": {}, "c": {}, "d": {}, "lonely": {}
}`

const testLeylines = `{
  "1": {"color": "#c33", "planets": [
    {"name": "a", "distance": 0.1},
    {"name": "b", "distance": 0.2},
    {"name": "c", "distance": 0.3}
  ]},
  "2": {"planets": [
    {"name": "c", "distance": 0.4},
    {"name": "d", "distance": 0.4}
  ]}
}`

func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range map[string]string{"planets.json": testPlanets, "leylines.json": testLeylines} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, quietLogger())
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"dot", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyleAndEngine(t *testing.T) {
	for _, s := range []string{"light", "dark"} {
		if err := ValidateStyle(s); err != nil {
			t.Errorf("ValidateStyle(%q): %v", s, err)
		}
	}
	if err := ValidateStyle("handdrawn"); err == nil {
		t.Error("unknown style should fail")
	}
	if err := ValidateEngine("neato"); err != nil {
		t.Errorf("ValidateEngine(neato): %v", err)
	}
	if err := ValidateEngine("twopi2"); err == nil {
		t.Error("unknown engine should fail")
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats("svg, JSON,,dot ")
	if want := []string{"svg", "json", "dot"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFormats = %v, want %v", got, want)
	}
	if got := ParseFormats(""); len(got) != 0 {
		t.Errorf("ParseFormats(\"\") = %v", got)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var empty Options
	if err := empty.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing focus and source: %v", err)
	}

	opts := Options{Focus: "a"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Data != DefaultData || opts.Style != DefaultStyle || opts.Engine != DefaultEngine {
		t.Errorf("defaults not applied: %+v", opts)
	}
	if !reflect.DeepEqual(opts.Formats, []string{FormatSVG}) {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Padding == 0 || opts.Logger == nil {
		t.Error("layout defaults not applied")
	}

	bad := Options{Focus: "a", Timeframe: "../etc"}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidTimeframe) {
		t.Errorf("bad timeframe: %v", err)
	}
	bad = Options{From: "a", Formats: []string{"gif"}}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("bad format should fail")
	}
}

func TestExecuteCaching(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	data := writeDataset(t)

	opts := func() Options {
		return Options{
			Data:    data,
			Focus:   "a",
			From:    "a",
			To:      "d",
			Formats: []string{FormatSVG, FormatJSON, FormatDOT},
		}
	}

	first, err := r.Execute(ctx, opts())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RouteHit || first.CacheInfo.RenderHit {
		t.Errorf("cold run hit the cache: %+v", first.CacheInfo)
	}
	if first.Layout == nil || len(first.Layout.Circles) == 0 {
		t.Fatal("missing layout")
	}
	if first.Layout.Focus != "a" {
		t.Errorf("Focus = %q", first.Layout.Focus)
	}
	if first.Stats.PlanetCount != 5 || first.Stats.LeylineCount != 2 {
		t.Errorf("stats = %+v", first.Stats)
	}

	rt := first.Route
	if rt == nil || !rt.Reachable {
		t.Fatalf("route = %+v", rt)
	}
	if !reflect.DeepEqual(rt.Planets, []string{"a", "c", "d"}) {
		t.Errorf("route planets = %v", rt.Planets)
	}
	if math.Abs(rt.Distance-0.7) > 1e-9 {
		t.Errorf("route distance = %v", rt.Distance)
	}

	for _, f := range []string{FormatSVG, FormatJSON, FormatDOT} {
		if len(first.Artifacts[f]) == 0 {
			t.Errorf("layout artifact %s missing", f)
		}
		if len(first.RouteArtifacts[f]) == 0 {
			t.Errorf("route artifact %s missing", f)
		}
	}
	if _, err := graph.UnmarshalLayout(first.Artifacts[FormatJSON]); err != nil {
		t.Errorf("layout json artifact: %v", err)
	}

	second, err := r.Execute(ctx, opts())
	if err != nil {
		t.Fatalf("Execute (warm): %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RouteHit || !second.CacheInfo.RenderHit {
		t.Errorf("warm run missed the cache: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}
	if first.AtlasHash != second.AtlasHash {
		t.Error("atlas hash should be stable")
	}

	filtered := opts()
	filtered.Hidden = []string{"2"}
	filtered.From = ""
	third, err := r.Execute(ctx, filtered)
	if err != nil {
		t.Fatalf("Execute (filtered): %v", err)
	}
	if third.CacheInfo.LayoutHit {
		t.Error("filtered atlas should not reuse the unfiltered layout")
	}
	if third.Stats.LeylineCount != 1 || third.Route != nil {
		t.Errorf("filtered run: %+v", third.Stats)
	}
}

func TestExecuteUnreachableRoute(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Execute(context.Background(), Options{
		Data: writeDataset(t),
		From: "a",
		To:   "lonely",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Route.Reachable {
		t.Error("lonely should be unreachable")
	}
	if res.Layout != nil || res.Artifacts != nil {
		t.Error("no focus means no layout")
	}
	if !bytes.Contains(res.RouteArtifacts[FormatSVG], []byte("unreachable")) {
		t.Error("route svg should mark the gap")
	}
}

func TestExecuteErrors(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	data := writeDataset(t)

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"starvation", Options{Data: data, Focus: "lonely"}, errors.ErrCodeStarvation},
		{"unknown focus", Options{Data: data, Focus: "nowhere"}, errors.ErrCodeMissingData},
		{"unknown route end", Options{Data: data, From: "a", To: "nowhere"}, errors.ErrCodeMissingData},
		{"missing dataset", Options{Data: filepath.Join(data, "nope"), Focus: "a"}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(ctx, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecuteArchive(t *testing.T) {
	ctx := context.Background()
	store, err := archive.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	r := newTestRunner(t).WithArchive(store)

	res, err := r.Execute(ctx, Options{Data: writeDataset(t), Focus: "a", Archive: true, Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.ArchiveID == "" || res.Layout.ID != res.ArchiveID {
		t.Fatalf("archive id = %q, layout id = %q", res.ArchiveID, res.Layout.ID)
	}
	rec, err := store.Get(ctx, res.ArchiveID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Focus != "a" || rec.Circles != len(res.Layout.Circles) {
		t.Errorf("record = %+v", rec.Summary())
	}
}

func TestRenderLayoutDotNeedsAtlas(t *testing.T) {
	l := graph.Layout{Focus: "a", Circles: []graph.Circle{{Leyline: "1", R: 10}}}
	_, err := RenderLayout(l, nil, Options{Formats: []string{FormatDOT}})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("error = %v", err)
	}
	out, err := RenderLayout(l, nil, Options{Formats: []string{FormatSVG, FormatJSON}, Style: "dark"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Errorf("artifacts = %d", len(out))
	}
}
