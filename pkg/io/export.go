package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/errors"
)

// Format is a dataset file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" and "yml".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown dataset format %q", s)
}

// Encode writes v to w. JSON is indented with two spaces.
func Encode(w io.Writer, v any, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	}
}

// WriteAtlas writes the datasets of a under dir using the default-timeframe
// layout. Powers are skipped when empty.
func WriteAtlas(dir string, a *atlas.Atlas, f Format) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	ext := "." + string(f)
	sets := []struct {
		name string
		v    any
		skip bool
	}{
		{Planets, a.Planets, false},
		{Leylines, a.Leylines, false},
		{Powers, a.Powers, len(a.Powers) == 0},
	}
	for _, s := range sets {
		if s.skip {
			continue
		}
		if err := writeFile(filepath.Join(dir, s.name+ext), s.v, f); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, v any, f Format) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(out, v, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
