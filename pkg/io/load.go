package io

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/errors"
)

// Dataset names.
const (
	Planets  = "planets"
	Leylines = "leylines"
	Powers   = "powers"
)

var extensions = []string{".json", ".yaml", ".yml"}

// Candidates returns the relative paths tried for a dataset, in order.
func Candidates(name, timeframe string) []string {
	base := name
	if timeframe != "" {
		base = path.Join(name, timeframe)
	}
	out := make([]string, len(extensions))
	for i, ext := range extensions {
		out[i] = base + ext
	}
	return out
}

// ReadDataset decodes the first candidate file that exists into v and
// reports the path it used. When none exists the result is an
// ErrCodeFileNotFound error.
func ReadDataset(ctx context.Context, src Source, name, timeframe string, v any) (string, error) {
	for _, rel := range Candidates(name, timeframe) {
		data, err := src.ReadFile(ctx, rel)
		if errors.Is(err, errors.ErrCodeFileNotFound) {
			continue
		}
		if err != nil {
			return "", err
		}
		if err := Decode(data, path.Ext(rel), v); err != nil {
			return rel, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s/%s", src, rel)
		}
		return rel, nil
	}
	tf := ""
	if timeframe != "" {
		tf = fmt.Sprintf(" for timeframe %q", timeframe)
	}
	return "", errors.New(errors.ErrCodeFileNotFound, "no %s dataset%s in %s", name, tf, src)
}

// LoadAtlas reads planets, leylines and (optionally) powers from src.
func LoadAtlas(ctx context.Context, src Source, timeframe string) (*atlas.Atlas, error) {
	if err := errors.ValidateTimeframe(timeframe); err != nil {
		return nil, err
	}

	a := atlas.New()
	if _, err := ReadDataset(ctx, src, Planets, timeframe, &a.Planets); err != nil {
		return nil, err
	}
	if _, err := ReadDataset(ctx, src, Leylines, timeframe, &a.Leylines); err != nil {
		return nil, err
	}
	if _, err := ReadDataset(ctx, src, Powers, timeframe, &a.Powers); err != nil &&
		!errors.Is(err, errors.ErrCodeFileNotFound) {
		return nil, err
	}

	a.Normalize()
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Decode unmarshals data by file extension. Anything other than .yaml or
// .yml is read as JSON.
func Decode(data []byte, ext string, v any) error {
	switch ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		return dec.Decode(v)
	}
}
