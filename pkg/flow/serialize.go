package flow

import (
	"errors"
	"fmt"
)

// Serialize folds the graph rooted at Start into a classification tree.
// It is total: edges that would revisit a node on the current path are
// skipped, and non-class children of Start are ignored.
func Serialize(g *Graph) *Tree {
	tree, _ := serialize(g)
	return tree
}

// SerializeStrict is Serialize that also reports every back-edge met
// during descent as a *StructuralError. The returned tree is the same one
// Serialize would produce.
func SerializeStrict(g *Graph) (*Tree, error) {
	return serialize(g)
}

type serializer struct {
	g      *Graph
	adj    map[string][]string
	onPath map[string]bool
	errs   []error
}

func serialize(g *Graph) (*Tree, error) {
	s := &serializer{
		g:      g,
		adj:    make(map[string][]string),
		onPath: map[string]bool{StartID: true},
	}
	for _, e := range g.edges {
		s.adj[e.Source] = append(s.adj[e.Source], e.Target)
	}

	tree := s.classChildren(StartID)
	if tree == nil {
		tree = NewTree()
	}
	return tree, errors.Join(s.errs...)
}

// classChildren builds the mapping for the class children of parent, or
// nil when there are none. Slugs are unique among these siblings only.
func (s *serializer) classChildren(parent string) *Tree {
	var tree *Tree
	used := SlugSet{}
	for _, id := range s.adj[parent] {
		n, ok := s.g.index[id]
		if !ok || n.Kind != KindClass {
			continue
		}
		if s.onPath[id] {
			s.errs = append(s.errs, &StructuralError{
				Kind: "back_edge",
				Msg:  fmt.Sprintf("back-edge %s -> %s", parent, id),
			})
			continue
		}
		if tree == nil {
			tree = NewTree()
		}
		tree.Set(UniqueSlug(n.Name, used), s.class(n))
	}
	return tree
}

func (s *serializer) class(n *Node) *Class {
	s.onPath[n.ID] = true
	defer delete(s.onPath, n.ID)

	c := &Class{
		Name:         n.Name,
		Description:  n.Description,
		Instructions: n.Instructions,
	}

	for _, id := range s.adj[n.ID] {
		if child, ok := s.g.index[id]; ok && child.Kind == KindTool {
			c.Tools = child.ToolKey
			break
		}
	}

	c.Subclass = s.classChildren(n.ID)

	if c.Tools == "" && c.Subclass == nil {
		c.Tools = NoTool
	}
	return c
}
