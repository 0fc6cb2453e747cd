package util

import (
	"testing"
)

const (
	id1 = "sGvgBXbBcVCjBIKCLS2Os"
	id2 = "tHwhCYcCdWDkCJLDMT3Pt"
)

func TestIsNanoid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"Valid21Chars", id1, true},
		{"Valid21CharsAlt", id2, true},
		{"TooShort", "abc123", false},
		{"TooLong", "sGvgBXbBcVCjBIKCLS2OsX", false},
		{"WithSpace", "sGvgBXbBcVCjBIKCL 2Os", false},
		{"WithComma", "sGvgBXbBcVCjBIKCL,2Os", false},
		{"WithSlash", "sGvgBXbBcVCjBIKCL/2Os", false},
		{"Empty", "", false},
		{"AllDashes", "---------------------", true},
		{"AllUnderscores", "_____________________", true},
		{"MixedValid", "Aa0_-Bb1_-Cc2_-Dd3_-E", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := IsNanoid(tc.in)
			if got != tc.want {
				t.Fatalf("IsNanoid(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNewIDIsNanoid(t *testing.T) {
	seen := map[string]bool{}
	for range 20 {
		id, err := NewID()
		if err != nil {
			t.Fatalf("NewID: %v", err)
		}
		if !IsNanoid(id) {
			t.Fatalf("NewID returned %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
