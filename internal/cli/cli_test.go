package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/leymap/internal/config"
	"github.com/matzehuels/leymap/pkg/graph"
)

func TestMain(m *testing.M) {
	statusOut = io.Discard
	os.Exit(m.Run())
}

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

// newTestCLI returns a CLI with caching off, an archive in a temp dir and
// the dataset as its configured source.
func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Data.Source = writeDataset(t)
	cfg.Cache.Enabled = false
	cfg.Archive.DSN = filepath.Join(t.TempDir(), "archive.db")

	var out bytes.Buffer
	c := New(io.Discard, log.InfoLevel)
	c.Config = cfg
	c.Out = &out
	return c, &out
}

func run(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SilenceErrors = true
	return root.ExecuteContext(context.Background())
}

// =============================================================================
// Helpers
// =============================================================================

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err = cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestConfiguredCacheDir(t *testing.T) {
	c, _ := newTestCLI(t)
	c.Config.Cache.Dir = "/srv/leymap-cache"
	dir, err := c.cacheDir()
	if err != nil || dir != "/srv/leymap-cache" {
		t.Errorf("cacheDir() = %q, %v", dir, err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,png, pdf", []string{"svg", "png", "pdf"}},
		{",,", []string{"svg"}},
		{"JSON", []string{"json"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseHidden(t *testing.T) {
	if got := parseHidden(""); got != nil {
		t.Errorf("parseHidden(\"\") = %v", got)
	}
	if got := parseHidden(" 3, 7 ,,12"); !reflect.DeepEqual(got, []string{"3", "7", "12"}) {
		t.Errorf("parseHidden = %v", got)
	}
}

func TestOutputStem(t *testing.T) {
	tests := []struct {
		focus, timeframe, want string
	}{
		{"aeldrum", "", "aeldrum"},
		{"Aeld Rum", "", "aeld-rum"},
		{"aeldrum", "3e112", "aeldrum-3e112"},
	}
	for _, tt := range tests {
		if got := outputStem(tt.focus, tt.timeframe); got != tt.want {
			t.Errorf("outputStem(%q, %q) = %q, want %q", tt.focus, tt.timeframe, got, tt.want)
		}
	}
}

func TestArtifactPaths(t *testing.T) {
	tests := []struct {
		name     string
		formats  []string
		output   string
		fallback string
		want     map[string]string
	}{
		{"single explicit", []string{"svg"}, "map.out", "x", map[string]string{"svg": "map.out"}},
		{"single default", []string{"png"}, "", "aeldrum", map[string]string{"png": "aeldrum.png"}},
		{"multiple strip ext", []string{"svg", "pdf"}, "out/map.svg", "x", map[string]string{"svg": "out/map.svg", "pdf": "out/map.pdf"}},
		{"multiple keep unknown ext", []string{"svg", "json"}, "map.v2", "x", map[string]string{"svg": "map.v2.svg", "json": "map.v2.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artifactPaths(tt.formats, tt.output, tt.fallback); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("artifactPaths = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	arts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}

	var out bytes.Buffer
	if err := writeArtifacts(&out, arts, []string{"svg", "json"}, "", filepath.Join(dir, "map")); err != nil {
		t.Fatal(err)
	}
	for ext, want := range map[string]string{"svg": "<svg/>", "json": "{}"} {
		got, err := os.ReadFile(filepath.Join(dir, "map."+ext))
		if err != nil || string(got) != want {
			t.Errorf("map.%s = %q, %v", ext, got, err)
		}
	}
	if out.Len() != 0 {
		t.Errorf("file output leaked to writer: %q", out.String())
	}

	if err := writeArtifacts(&out, arts, []string{"svg"}, "-", ""); err != nil {
		t.Fatal(err)
	}
	if out.String() != "<svg/>" {
		t.Errorf("stdout = %q", out.String())
	}
	if err := writeArtifacts(&out, arts, []string{"svg", "json"}, "-", ""); err == nil {
		t.Error("stdout with two formats should fail")
	}
}

// =============================================================================
// Commands
// =============================================================================

func TestPlanetsCommand(t *testing.T) {
	c, out := newTestCLI(t)
	if err := run(t, c, "planets", "--json"); err != nil {
		t.Fatal(err)
	}
	var entries []struct {
		Name     string   `json:"name"`
		FullName string   `json:"full_name"`
		Leylines []string `json:"leylines"`
	}
	if err := json.Unmarshal(out.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if len(entries) != 5 {
		t.Fatalf("got %d planets, want 5", len(entries))
	}
	if entries[0].Name != "a" || entries[0].FullName != "Aeldrum" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if !reflect.DeepEqual(entries[0].Leylines, []string{"1"}) {
		t.Errorf("a leylines = %v", entries[0].Leylines)
	}

	out.Reset()
	if err := run(t, c, "planets"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Aeldrum", "lonely", "1, 2"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("table missing %q:\n%s", want, out.String())
		}
	}
}

func TestLayoutCommand(t *testing.T) {
	c, out := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "a.json")
	if err := run(t, c, "layout", "a", "-o", path); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("layout with -o wrote to stdout: %q", out.String())
	}
	l, err := graph.ReadLayoutFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if l.Focus != "a" || len(l.Circles) == 0 {
		t.Errorf("layout = focus %q, %d circles", l.Focus, len(l.Circles))
	}

	svgPath := filepath.Join(t.TempDir(), "a.svg")
	if err := run(t, c, "render", "--layout", path, "-o", svgPath); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("<svg")) && !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("render output is not SVG: %.80s", data)
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	c, _ := newTestCLI(t)
	if err := run(t, c, "layout"); err == nil || !strings.Contains(err.Error(), "focus") {
		t.Errorf("missing focus: %v", err)
	}
	if err := run(t, c, "layout", "lonely"); err == nil || !strings.Contains(err.Error(), "lonely") {
		t.Errorf("starved focus: %v", err)
	}
	if err := run(t, c, "render", "a", "-f", "gif"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestRenderCommandStdout(t *testing.T) {
	c, out := newTestCLI(t)
	if err := run(t, c, "render", "a", "-o", "-", "--style", "dark", "--title", "Aeldrum"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "<svg") || !strings.Contains(out.String(), "Aeldrum") {
		t.Errorf("stdout = %.120s", out.String())
	}
}

func TestPathCommand(t *testing.T) {
	c, out := newTestCLI(t)
	if err := run(t, c, "path", "a", "d", "-f", "json"); err != nil {
		t.Fatal(err)
	}
	var rt graph.Route
	if err := json.Unmarshal(out.Bytes(), &rt); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if !rt.Reachable || !reflect.DeepEqual(rt.Planets, []string{"a", "c", "d"}) {
		t.Errorf("route = %+v", rt)
	}

	out.Reset()
	if err := run(t, c, "path", "a", "d"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Aeldrum", "total"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("table missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := run(t, c, "path", "a", "lonely"); err != nil {
		t.Fatalf("unreachable is not an error: %v", err)
	}
	if !strings.Contains(out.String(), "unreachable") {
		t.Errorf("unreachable output = %q", out.String())
	}

	if err := run(t, c, "path", "a", "nowhere"); err == nil {
		t.Error("unknown planet should fail")
	}
}

func TestArchiveCommands(t *testing.T) {
	c, out := newTestCLI(t)
	if err := run(t, c, "layout", "a", "--archive"); err != nil {
		t.Fatal(err)
	}
	var l graph.Layout
	if err := json.Unmarshal(out.Bytes(), &l); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if l.ID == "" {
		t.Fatal("archived layout has no id")
	}

	out.Reset()
	if err := run(t, c, "archive", "list"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), l.ID) {
		t.Errorf("list missing %s:\n%s", l.ID, out.String())
	}

	out.Reset()
	if err := run(t, c, "archive", "show", l.ID); err != nil {
		t.Fatal(err)
	}
	var shown graph.Layout
	if err := json.Unmarshal(out.Bytes(), &shown); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if shown.ID != l.ID || shown.Focus != "a" {
		t.Errorf("shown = id %q focus %q", shown.ID, shown.Focus)
	}

	if err := run(t, c, "archive", "rm", l.ID); err != nil {
		t.Fatal(err)
	}
	if err := run(t, c, "archive", "show", l.ID); err == nil {
		t.Error("deleted layout should be gone")
	}
}

func TestExportCommand(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := filepath.Join(t.TempDir(), "snapshot")
	if err := run(t, c, "export", dir, "-f", "yaml", "--multigate"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"planets.yaml", "leylines.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	// The snapshot reads back as a dataset.
	c2, out := newTestCLI(t)
	c2.Config.Data.Source = dir
	if err := run(t, c2, "planets", "--json"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"c"`) {
		t.Errorf("exported planets = %s", out.String())
	}
}

func TestConfigCommands(t *testing.T) {
	c, out := newTestCLI(t)
	c.ConfigPath = filepath.Join(t.TempDir(), "leymap", "config.toml")

	if err := run(t, c, "config", "path"); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != c.ConfigPath {
		t.Errorf("config path = %q", out.String())
	}

	if err := run(t, c, "config", "init"); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(c.ConfigPath); err != nil {
		t.Errorf("written config does not load: %v", err)
	}

	out.Reset()
	if err := run(t, c, "config", "show"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), c.Config.Data.Source) {
		t.Errorf("show missing data source:\n%s", out.String())
	}
}

func TestCacheCommands(t *testing.T) {
	c, out := newTestCLI(t)
	c.Config.Cache.Dir = t.TempDir()
	c.Config.Cache.Enabled = true

	if err := run(t, c, "layout", "a"); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := run(t, c, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != c.Config.Cache.Dir {
		t.Errorf("cache path = %q", out.String())
	}
	if err := run(t, c, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(c.Config.Cache.Dir)
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after clear", len(entries))
	}
}

func TestCompletionCommand(t *testing.T) {
	c, out := newTestCLI(t)
	if err := run(t, c, "completion", "bash"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), appName) {
		t.Error("bash completion should mention the program name")
	}
	if err := run(t, c, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}
