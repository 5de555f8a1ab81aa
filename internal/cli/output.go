package cli

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/leymap/pkg/pipeline"
)

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}

// basePath strips a known format extension from output so that several
// formats can share one stem. An empty output falls back to fallback.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPaths maps each format to its output file. A single format with
// an explicit output path uses it verbatim; otherwise files are named
// <base>.<format>.
func artifactPaths(formats []string, output, fallback string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, fallback)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes each rendered format to its file, or the single
// format to w when output is "-".
func writeArtifacts(w io.Writer, artifacts map[string][]byte, formats []string, output, fallback string) error {
	if output == "-" {
		if len(formats) != 1 {
			return fmt.Errorf("stdout output takes exactly one format, got %d", len(formats))
		}
		return writeOutput(w, "", artifacts[formats[0]])
	}
	paths := artifactPaths(formats, output, fallback)
	for _, f := range slices.Sorted(maps.Keys(paths)) {
		if err := writeOutput(w, paths[f], artifacts[f]); err != nil {
			return err
		}
	}
	return nil
}
