package util

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const nanoidLength = 21

// NewID returns a random 21 character nanoid.
func NewID() (string, error) {
	return gonanoid.New()
}

// IsNanoid reports whether s looks like an id from NewID.
func IsNanoid(s string) bool {
	if len(s) != nanoidLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}
