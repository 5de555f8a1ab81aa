package atlas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// UnknownToken is the wire representation of an unknown distance.
const UnknownToken = "?"

// Distance is a non-negative leyline distance or the "unknown" sentinel.
// The zero value is unknown.
type Distance struct {
	value float64
	known bool
}

// Unknown is the unknown distance.
var Unknown = Distance{}

// Miles returns a known distance of v. Negative and non-finite values are
// treated as unknown.
func Miles(v float64) Distance {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return Unknown
	}
	return Distance{value: v, known: true}
}

// Known reports whether d carries a numeric value.
func (d Distance) Known() bool { return d.known }

// Value returns the numeric value and whether it is known.
func (d Distance) Value() (float64, bool) { return d.value, d.known }

// Plus adds two distances. Unknown propagates: if either side is unknown
// the sum is unknown.
func (d Distance) Plus(o Distance) Distance {
	if !d.known || !o.known {
		return Unknown
	}
	return Distance{value: d.value + o.value, known: true}
}

// String returns the numeric value or "?".
func (d Distance) String() string {
	if !d.known {
		return UnknownToken
	}
	return strconv.FormatFloat(d.value, 'f', -1, 64)
}

// Label formats d the way map annotations show it: the raw value scaled by
// 10000 with thousands separators, followed by "em.".
func (d Distance) Label() string {
	if !d.known {
		return "? em."
	}
	return FormatMiles(d.value) + " em."
}

// FormatMiles scales a raw distance by 10000 and groups thousands with commas.
func FormatMiles(v float64) string {
	return humanize.Commaf(math.Round(v*10000*1000) / 1000)
}

// ParseDistance parses a textual distance. "?", "" and "null" are unknown.
func ParseDistance(s string) (Distance, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", UnknownToken, "null", "~":
		return Unknown, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Unknown, fmt.Errorf("invalid distance %q", s)
	}
	if v < 0 {
		return Unknown, fmt.Errorf("negative distance %q", s)
	}
	return Miles(v), nil
}

// MarshalJSON encodes known distances as numbers and unknown as "?".
func (d Distance) MarshalJSON() ([]byte, error) {
	if !d.known {
		return []byte(`"` + UnknownToken + `"`), nil
	}
	return []byte(d.String()), nil
}

// UnmarshalJSON accepts a number, a numeric string, "?" or null.
func (d *Distance) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParseDistance(s)
		if err != nil {
			return err
		}
		*d = v
		return nil
	}
	v, err := ParseDistance(string(data))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalYAML encodes known distances as numbers and unknown as "?".
func (d Distance) MarshalYAML() (any, error) {
	if !d.known {
		return UnknownToken, nil
	}
	return d.value, nil
}

// UnmarshalYAML accepts a scalar number, "?" or null.
func (d *Distance) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: distance must be a scalar", value.Line)
	}
	if value.Tag == "!!null" {
		*d = Unknown
		return nil
	}
	v, err := ParseDistance(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = v
	return nil
}
