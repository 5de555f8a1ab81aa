package errors

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

const (
	maxPlanetName = 128
	maxTimeframe  = 64
	maxPath       = 500
)

func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// ValidatePlanetName checks a planet key supplied by a user, either as a
// CLI argument or a planetA/planetB query parameter. Whether the planet
// exists is decided later against the loaded atlas.
func ValidatePlanetName(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidPlanet, "planet name cannot be empty")
	case len(name) > maxPlanetName:
		return New(ErrCodeInvalidPlanet, "planet name too long (max %d characters)", maxPlanetName)
	case hasControl(name):
		return New(ErrCodeInvalidPlanet, "planet name contains invalid control characters")
	}
	return nil
}

// timeframeRegex matches identifiers such as "2024", "post-war" or "era_3".
var timeframeRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateTimeframe checks a timeframe identifier. Timeframes become a path
// segment, so anything resembling a path is rejected. The empty string
// selects the default dataset.
func ValidateTimeframe(tf string) error {
	switch {
	case tf == "":
		return nil
	case len(tf) > maxTimeframe:
		return New(ErrCodeInvalidTimeframe, "timeframe too long (max %d characters)", maxTimeframe)
	case strings.Contains(tf, ".."):
		return New(ErrCodeInvalidTimeframe, "timeframe cannot contain path traversal sequences (..)")
	case !timeframeRegex.MatchString(tf):
		return New(ErrCodeInvalidTimeframe, "invalid timeframe: %q", tf)
	}
	return nil
}

// ValidatePath checks a dataset-relative file path. It must stay inside
// the dataset root and use forward slashes.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxPath:
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPath)
	case hasControl(path):
		return New(ErrCodeInvalidPath, "path contains invalid characters")
	case strings.Contains(path, `\`):
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	case !filepath.IsLocal(path):
		return New(ErrCodeInvalidPath, "path %q escapes the dataset root", path)
	}
	return nil
}

// ValidateURL checks that rawURL is an absolute http(s) URL with a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", rawURL)
	}
	return nil
}

// IsURL reports whether s looks like an http(s) URL rather than a local path.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
