package flow

import "fmt"

// Placement of nodes created from the toolbar.
const (
	newClassX   = 300
	newToolX    = 600
	newNodeStep = 40
)

// Editor owns the graph of one editing session, tracks the selected node
// and reserializes the tree after every committed change. It is the only
// writer of its graph and is not safe for concurrent use.
type Editor struct {
	graph    *Graph
	catalog  *Catalog
	selected string
	tree     *Tree
	unknown  []string

	onTree   func(*Tree)
	onSelect func(string)
}

// NewEditor opens an editor over catalog, hydrated from initial when it is
// non-nil. A nil catalog is replaced by one holding only NoTool.
func NewEditor(catalog *Catalog, initial *Tree) *Editor {
	if catalog == nil {
		catalog = NewCatalog()
	}
	e := &Editor{catalog: catalog}
	e.load(initial)
	return e
}

func (e *Editor) load(tree *Tree) Hydration {
	h := Hydrate(tree, e.catalog)
	e.graph = h.Graph
	e.tree = Serialize(e.graph)
	e.unknown = h.UnknownTools
	return h
}

// UnknownTools lists the tool keys of the last hydrated tree that the
// catalog does not know.
func (e *Editor) UnknownTools() []string { return e.unknown }

// OnTreeChanged registers the consumer of every reserialized tree.
func (e *Editor) OnTreeChanged(fn func(*Tree)) {
	e.onTree = fn
}

// OnSelectionChanged registers the selection observer. An empty id means
// nothing is selected.
func (e *Editor) OnSelectionChanged(fn func(string)) {
	e.onSelect = fn
}

func (e *Editor) commit() {
	e.tree = Serialize(e.graph)
	if e.onTree != nil {
		e.onTree(e.tree)
	}
}

func (e *Editor) setSelection(id string) {
	if e.selected == id {
		return
	}
	e.selected = id
	if e.onSelect != nil {
		e.onSelect(id)
	}
}

// Catalog returns the tool catalog the editor labels nodes with.
func (e *Editor) Catalog() *Catalog { return e.catalog }

// Tree returns the latest serialization.
func (e *Editor) Tree() *Tree { return e.tree }

// Nodes returns copies of the graph nodes in render order.
func (e *Editor) Nodes() []Node { return e.graph.Nodes() }

// Edges returns the graph edges in insertion order.
func (e *Editor) Edges() []Edge { return e.graph.Edges() }

// Node returns a copy of one node.
func (e *Editor) Node(id string) (Node, bool) { return e.graph.Node(id) }

// Selected returns the selected node, if any.
func (e *Editor) Selected() (Node, bool) {
	if e.selected == "" {
		return Node{}, false
	}
	return e.graph.Node(e.selected)
}

// ReadOnly reports whether the selected node cannot be edited. Only Start is.
func (e *Editor) ReadOnly() bool {
	return e.selected == StartID
}

// Select makes id the selection. Selecting Start is allowed; its panel is
// read-only. An empty id clears the selection.
func (e *Editor) Select(id string) error {
	if id == "" {
		e.Deselect()
		return nil
	}
	if _, ok := e.graph.Node(id); !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	e.setSelection(id)
	return nil
}

func (e *Editor) Deselect() {
	e.setSelection("")
}

// AddClass creates a detached class named DefaultClassName and selects it.
func (e *Editor) AddClass() Node {
	pos := Position{X: newClassX, Y: float64(e.graph.Len()+1) * newNodeStep}
	id := e.graph.AddClass(DefaultClassName, "", "", pos)
	e.commit()
	e.setSelection(id)
	n, _ := e.graph.Node(id)
	return n
}

// AddTool creates a detached tool bound to NoTool and selects it.
func (e *Editor) AddTool() Node {
	pos := Position{X: newToolX, Y: float64(e.graph.Len()+1) * newNodeStep}
	id := e.graph.AddTool(NoTool, pos)
	e.commit()
	e.setSelection(id)
	n, _ := e.graph.Node(id)
	return n
}

// Update applies patch to the selected node.
func (e *Editor) Update(patch NodePatch) error {
	if e.selected == "" {
		return ErrNoSelection
	}
	return e.UpdateNode(e.selected, patch)
}

// UpdateNode applies patch to node id. Tool keys must exist in the catalog.
// Patches that only move the node do not reserialize.
func (e *Editor) UpdateNode(id string, patch NodePatch) error {
	if patch.ToolKey != nil && !e.catalog.Has(*patch.ToolKey) {
		return fmt.Errorf("%w: %s", ErrUnknownTool, *patch.ToolKey)
	}
	if err := e.graph.UpdateNode(id, patch); err != nil {
		return err
	}
	if patch.touchesTree() {
		e.commit()
	}
	return nil
}

// MoveNode changes layout only, so the tree is not reserialized. Start is
// not draggable.
func (e *Editor) MoveNode(id string, pos Position) error {
	return e.graph.UpdateNode(id, NodePatch{Position: &pos})
}

// Delete removes the selected node with its edges and clears the selection.
func (e *Editor) Delete() error {
	if e.selected == "" {
		return ErrNoSelection
	}
	return e.DeleteNode(e.selected)
}

// DeleteNode removes node id with its edges. Start cannot be deleted.
func (e *Editor) DeleteNode(id string) error {
	if err := e.graph.RemoveNode(id); err != nil {
		return err
	}
	if e.selected == id {
		e.setSelection("")
	}
	e.commit()
	return nil
}

// Connect adds src -> tgt when the validator accepts it. A refused edge
// leaves the graph and the tree untouched.
func (e *Editor) Connect(src, tgt string) error {
	if err := e.graph.AddEdge(src, tgt); err != nil {
		return err
	}
	e.commit()
	return nil
}

// Disconnect removes src -> tgt.
func (e *Editor) Disconnect(src, tgt string) error {
	if !e.graph.RemoveEdge(src, tgt) {
		return fmt.Errorf("%w: no edge %s -> %s", ErrNodeNotFound, src, tgt)
	}
	e.commit()
	return nil
}

// Reset rehydrates the editor from tree, clears the selection and
// publishes the new serialization.
func (e *Editor) Reset(tree *Tree) Hydration {
	h := e.load(tree)
	e.setSelection("")
	if e.onTree != nil {
		e.onTree(e.tree)
	}
	return h
}

// NodeView is a node as presented to a canvas.
type NodeView struct {
	Node
	Label string `json:"label"`
}

// Snapshot is a JSON-friendly view of the whole editor state.
type Snapshot struct {
	Nodes    []NodeView `json:"nodes"`
	Edges    []Edge     `json:"edges"`
	Selected *string    `json:"selected"`
	ReadOnly bool       `json:"read_only"`
	Tree     *Tree      `json:"tree"`
}

func (e *Editor) Snapshot() Snapshot {
	nodes := e.graph.Nodes()
	views := make([]NodeView, len(nodes))
	for i, n := range nodes {
		views[i] = NodeView{Node: n, Label: e.label(n)}
	}

	s := Snapshot{
		Nodes:    views,
		Edges:    e.graph.Edges(),
		ReadOnly: e.ReadOnly(),
		Tree:     e.tree,
	}
	if e.selected != "" {
		sel := e.selected
		s.Selected = &sel
	}
	return s
}

func (e *Editor) label(n Node) string {
	switch n.Kind {
	case KindStart:
		return "Start"
	case KindTool:
		return e.catalog.Label(n.ToolKey)
	default:
		if n.Name == "" {
			return "Class"
		}
		return n.Name
	}
}
