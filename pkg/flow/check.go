package flow

import "fmt"

// Issue kinds reported by Inspect.
const (
	IssueSlug        = "slug"
	IssueRename      = "rename"
	IssueEmpty       = "empty"
	IssueUnknownTool = "unknown_tool"
)

// Issue is one finding about a stored tree. Path is the dotted slug path.
type Issue struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
	Msg  string `json:"msg"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s (%s)", i.Path, i.Msg, i.Kind)
}

type Stats struct {
	Classes  int      `json:"classes"`
	Terminal int      `json:"terminal"`
	MaxDepth int      `json:"max_depth"`
	Tools    []string `json:"tools"`
}

// Inspect walks tree and reports what a hydrate and serialize round trip
// would change: keys that are not canonical or would be re-derived from the
// class name, classes with neither tool nor subclass, and tool keys the
// catalog does not know. A nil catalog skips the tool check.
func Inspect(tree *Tree, catalog *Catalog) (Stats, []Issue) {
	var (
		stats  Stats
		issues []Issue
		seen   = map[string]bool{}
	)

	var walk func(t *Tree, prefix string, depth int)
	walk = func(t *Tree, prefix string, depth int) {
		used := SlugSet{}
		t.Each(func(slug string, c *Class) bool {
			path := slug
			if prefix != "" {
				path = prefix + "." + slug
			}
			if c == nil {
				c = &Class{}
			}

			stats.Classes++
			stats.MaxDepth = max(stats.MaxDepth, depth)
			if c.IsTerminal() {
				stats.Terminal++
			}

			if !IsSlug(slug) {
				issues = append(issues, Issue{path, IssueSlug, "key is not a canonical slug"})
			}
			name := c.Name
			if name == "" {
				name = slug
			}
			if want := UniqueSlug(name, used); want != slug {
				issues = append(issues, Issue{path, IssueRename, fmt.Sprintf("key becomes %q after a round trip", want)})
			}
			if c.Tools == "" && c.Subclass.Len() == 0 {
				issues = append(issues, Issue{path, IssueEmpty, "class has neither tools nor subclass"})
			}
			if c.Tools != "" {
				if !seen[c.Tools] {
					seen[c.Tools] = true
					stats.Tools = append(stats.Tools, c.Tools)
				}
				if catalog != nil && !catalog.Has(c.Tools) {
					issues = append(issues, Issue{path, IssueUnknownTool, fmt.Sprintf("tool %q is not in the catalog", c.Tools)})
				}
			}

			walk(c.Subclass, path, depth+1)
			return true
		})
	}
	walk(tree, "", 1)

	return stats, issues
}
