package flow

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reSlug     = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)
)

// fallbackSlug replaces names that slugify to nothing.
const fallbackSlug = "class"

// Slugify lowercases name, collapses every run of characters outside
// [a-z0-9] into one underscore and trims underscores at both ends.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = reNonAlnum.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return fallbackSlug
	}
	return s
}

// IsSlug reports whether s is a canonical slug.
func IsSlug(s string) bool {
	return reSlug.MatchString(s)
}

// SlugSet tracks the slugs already taken within one mapping.
type SlugSet map[string]struct{}

func (s SlugSet) Has(slug string) bool {
	_, ok := s[slug]
	return ok
}

// UniqueSlug returns the first of base, base_1, base_2, ... not in used,
// where base is Slugify(name), and records the choice in used.
func UniqueSlug(name string, used SlugSet) string {
	base := Slugify(name)
	slug := base
	for i := 1; used.Has(slug); i++ {
		slug = base + "_" + strconv.Itoa(i)
	}
	used[slug] = struct{}{}
	return slug
}
