package flow

import "time"

// Layout strides used when hydrating a tree into a graph.
const (
	StrideX = 300
	StrideY = 120
)

// Hydration is the result of expanding a tree into a graph.
type Hydration struct {
	Graph *Graph
	// UnknownTools lists tool keys (in encounter order, deduplicated) that
	// the catalog does not know. They are kept verbatim on their nodes.
	UnknownTools []string
}

type hydrator struct {
	g       *Graph
	catalog *Catalog
	cursor  map[int]float64
	seen    map[string]bool
	unknown []string
}

// Hydrate builds a fresh graph from tree. Class nodes sit in columns by
// depth (x = depth*StrideX) and each column fills top to bottom in
// StrideY steps. A nil catalog skips unknown-key reporting.
func Hydrate(tree *Tree, catalog *Catalog) Hydration {
	return hydrate(tree, catalog, time.Now)
}

// HydrateJSON parses data tolerantly and hydrates the result.
func HydrateJSON(data []byte, catalog *Catalog) Hydration {
	return Hydrate(ParseTree(data), catalog)
}

func hydrate(tree *Tree, catalog *Catalog, now func() time.Time) Hydration {
	h := &hydrator{
		g:       newGraph(now),
		catalog: catalog,
		cursor:  make(map[int]float64),
		seen:    make(map[string]bool),
	}
	h.addLevel(tree, 1, StartID)
	return Hydration{Graph: h.g, UnknownTools: h.unknown}
}

func (h *hydrator) nextY(depth int) float64 {
	y := h.cursor[depth]
	h.cursor[depth] = y + StrideY
	return y
}

func (h *hydrator) position(depth int) Position {
	return Position{X: float64(depth * StrideX), Y: h.nextY(depth)}
}

func (h *hydrator) addLevel(tree *Tree, depth int, parent string) {
	tree.Each(func(slug string, c *Class) bool {
		h.addClass(slug, c, depth, parent)
		return true
	})
}

func (h *hydrator) addClass(slug string, c *Class, depth int, parent string) {
	if c == nil {
		c = &Class{}
	}
	name := c.Name
	if name == "" {
		name = slug
	}

	id := h.g.AddClass(name, c.Description, c.Instructions, h.position(depth))
	h.link(parent, id)

	if c.Tools != "" {
		toolID := h.g.AddTool(c.Tools, h.position(depth+1))
		h.link(id, toolID)
		h.noteTool(c.Tools)
	}

	h.addLevel(c.Subclass, depth+1, id)
}

// link appends an edge the tree shape guarantees to be valid.
func (h *hydrator) link(src, tgt string) {
	h.g.edges = append(h.g.edges, Edge{Source: src, Target: tgt})
}

func (h *hydrator) noteTool(key string) {
	if h.catalog == nil || h.catalog.Has(key) || h.seen[key] {
		return
	}
	h.seen[key] = true
	h.unknown = append(h.unknown, key)
}

// Canonicalize returns the tree the editor would save for tree: absent
// strings become "", leaves without a tool get NoTool, and keys are
// re-derived from class names.
func Canonicalize(tree *Tree) *Tree {
	return Serialize(Hydrate(tree, nil).Graph)
}
