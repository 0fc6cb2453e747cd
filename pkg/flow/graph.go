// Package flow implements the question-class flow editor: a typed graph the
// user edits, the validator guarding its shape, and the mapping between that
// graph and the nested classification tree consumed downstream.
package flow

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// idGenerator produces "<unix-ms>_<counter>" ids. The counter never resets
// so ids stay unique for the lifetime of the generator.
type idGenerator struct {
	now     func() time.Time
	counter uint64
}

func (g *idGenerator) next() string {
	g.counter++
	return fmt.Sprintf("%d_%d", g.now().UnixMilli(), g.counter)
}

// Graph holds nodes and edges in insertion order. It always contains the
// Start node, which is created first and cannot be removed.
//
// Graph is not safe for concurrent use.
type Graph struct {
	nodes []*Node
	index map[string]*Node
	edges []Edge
	ids   *idGenerator
}

// NewGraph returns a graph holding only the Start node at the origin.
func NewGraph() *Graph {
	return newGraph(time.Now)
}

func newGraph(now func() time.Time) *Graph {
	g := &Graph{
		index: make(map[string]*Node),
		ids:   &idGenerator{now: now},
	}
	g.insert(&Node{ID: StartID, Kind: KindStart})
	return g
}

func (g *Graph) insert(n *Node) {
	g.nodes = append(g.nodes, n)
	g.index[n.ID] = n
}

func (g *Graph) freshID() string {
	for {
		id := g.ids.next()
		if _, taken := g.index[id]; !taken {
			return id
		}
	}
}

// AddClass appends a detached class node and returns its id.
func (g *Graph) AddClass(name, description, instructions string, pos Position) string {
	n := &Node{
		ID:           g.freshID(),
		Kind:         KindClass,
		Position:     pos,
		Name:         name,
		Description:  description,
		Instructions: instructions,
	}
	g.insert(n)
	return n.ID
}

// AddTool appends a detached tool node and returns its id. An empty key
// binds the node to NoTool.
func (g *Graph) AddTool(toolKey string, pos Position) string {
	if toolKey == "" {
		toolKey = NoTool
	}
	n := &Node{
		ID:       g.freshID(),
		Kind:     KindTool,
		Position: pos,
		ToolKey:  toolKey,
	}
	g.insert(n)
	return n.ID
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

func (g *Graph) kindOf(id string) (NodeKind, bool) {
	n, ok := g.index[id]
	if !ok {
		return "", false
	}
	return n.Kind, true
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = *n
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// Len returns the number of nodes, Start included.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Children returns the targets of id's outgoing edges in insertion order.
func (g *Graph) Children(id string) []string {
	var out []string
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e.Target)
		}
	}
	return out
}

// HasEdge reports whether the edge src -> tgt exists.
func (g *Graph) HasEdge(src, tgt string) bool {
	return slices.Contains(g.edges, Edge{Source: src, Target: tgt})
}

// hasToolChild reports whether id already points to a tool node.
func (g *Graph) hasToolChild(id string) bool {
	for _, e := range g.edges {
		if e.Source != id {
			continue
		}
		if k, ok := g.kindOf(e.Target); ok && k == KindTool {
			return true
		}
	}
	return false
}

// AddEdge validates and appends src -> tgt.
func (g *Graph) AddEdge(src, tgt string) error {
	if err := ValidateConnection(g, src, tgt); err != nil {
		return err
	}
	g.edges = append(g.edges, Edge{Source: src, Target: tgt})
	return nil
}

// RemoveEdge deletes src -> tgt and reports whether it existed.
func (g *Graph) RemoveEdge(src, tgt string) bool {
	before := len(g.edges)
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
		return e.Source == src && e.Target == tgt
	})
	return len(g.edges) != before
}

// RemoveNode deletes a node together with every incident edge.
func (g *Graph) RemoveNode(id string) error {
	if id == StartID {
		return ErrStartImmutable
	}
	if _, ok := g.index[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
		return e.Source == id || e.Target == id
	})
	g.nodes = slices.DeleteFunc(g.nodes, func(n *Node) bool {
		return n.ID == id
	})
	delete(g.index, id)
	return nil
}

// UpdateNode applies patch to the node. Class attributes on a tool (or the
// reverse) are rejected with ErrWrongNodeKind, a blank class name with
// ErrEmptyName, and nothing about Start may change. The tool key is not
// checked against a catalog here.
func (g *Graph) UpdateNode(id string, patch NodePatch) error {
	if id == StartID {
		return ErrStartImmutable
	}
	n, ok := g.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	switch n.Kind {
	case KindClass:
		if patch.touchesTool() {
			return fmt.Errorf("%w: tool_key on %s node", ErrWrongNodeKind, n.Kind)
		}
	case KindTool:
		if patch.touchesClass() {
			return fmt.Errorf("%w: class attributes on %s node", ErrWrongNodeKind, n.Kind)
		}
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyName, id)
	}

	if patch.Name != nil {
		n.Name = *patch.Name
	}
	if patch.Description != nil {
		n.Description = *patch.Description
	}
	if patch.Instructions != nil {
		n.Instructions = *patch.Instructions
	}
	if patch.ToolKey != nil {
		n.ToolKey = *patch.ToolKey
	}
	if patch.Position != nil {
		n.Position = *patch.Position
	}
	return nil
}
