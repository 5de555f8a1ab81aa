package errors

import (
	"strings"
	"testing"
)

func TestValidatePlanetName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "aeldrum", false},
		{"valid with space", "New Aeldrum", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"control char", "aeld\x01rum", true},
		{"newline", "aeld\nrum", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlanetName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePlanetName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPlanet) {
				t.Errorf("ValidatePlanetName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateTimeframe(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"default", "", false},
		{"year", "2024", false},
		{"named", "post-war_era.3", false},
		{"traversal", "../secrets", true},
		{"slash", "a/b", true},
		{"leading dot", ".hidden", true},
		{"too long", strings.Repeat("x", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeframe(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTimeframe(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTimeframe) {
				t.Errorf("ValidateTimeframe(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/data", false},
		{"http", "http://localhost:8080", false},
		{"empty", "", true},
		{"file scheme", "file:///etc/passwd", true},
		{"bare path", "data/planets.json", true},
		{"no host", "https:///planets.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "planets/2024.json", false},
		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../etc/passwd", true},
		{"backslash", "planets\\2024.json", true},
		{"null byte", "planets\x00.json", true},
		{"too long", strings.Repeat("a", 501), true},
		{"dot segments inside root", "planets/../leylines.json", false},
		{"climbs out after descending", "planets/../../leylines.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidCriteria,
		ErrCodeInvalidTimeframe,
		ErrCodeInvalidPlanet,
		ErrCodeInvalidPath,
		ErrCodeNotFound,
		ErrCodeMissingData,
		ErrCodeFileNotFound,
		ErrCodeStarvation,
		ErrCodeIterationLimit,
		ErrCodeBusy,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
