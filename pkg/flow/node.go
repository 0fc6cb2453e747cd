package flow

// NodeKind tags the variant of a Node.
type NodeKind string

const (
	KindStart NodeKind = "start"
	KindClass NodeKind = "class"
	KindTool  NodeKind = "tool"
)

// StartID is the reserved id of the singleton Start node.
const StartID = "start"

// NoTool is the catalog key meaning "no tool". It is also the default
// binding for classes without children.
const NoTool = "no_tool"

// DefaultClassName is the placeholder name of a class created from the editor.
const DefaultClassName = "New Class"

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a tagged record. Name, Description and Instructions are only
// meaningful for KindClass, ToolKey only for KindTool.
type Node struct {
	ID       string   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Position Position `json:"position"`

	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	Instructions string `json:"instructions,omitempty"`

	ToolKey string `json:"tool_key,omitempty"`
}

// Edge is a directed connection between two nodes. Edges carry no payload.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// NodePatch describes an attribute update. Nil fields are left untouched.
type NodePatch struct {
	Name         *string
	Description  *string
	Instructions *string
	ToolKey      *string
	Position     *Position
}

func (p NodePatch) touchesClass() bool {
	return p.Name != nil || p.Description != nil || p.Instructions != nil
}

func (p NodePatch) touchesTool() bool {
	return p.ToolKey != nil
}

// touchesTree reports whether applying the patch can change the serialized tree.
func (p NodePatch) touchesTree() bool {
	return p.touchesClass() || p.touchesTool()
}
