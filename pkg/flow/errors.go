package flow

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic checking via errors.Is().
var (
	// ErrInvalidConnection indicates an edge the validator refused.
	ErrInvalidConnection = errors.New("invalid connection")

	// ErrNodeNotFound indicates an unknown node id.
	ErrNodeNotFound = errors.New("node not found")

	// ErrStartImmutable indicates an attempt to modify or delete the Start node.
	ErrStartImmutable = errors.New("start node cannot be modified")

	// ErrWrongNodeKind indicates an attribute that does not exist on the node variant.
	ErrWrongNodeKind = errors.New("attribute not supported by node kind")

	// ErrEmptyName indicates a class rename to an empty or blank name. The
	// hydrator would replace such a name with the slug.
	ErrEmptyName = errors.New("class name must not be empty")

	// ErrUnknownTool indicates a tool key missing from the catalog.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrNoSelection indicates an edit on the selection while nothing is selected.
	ErrNoSelection = errors.New("no node selected")

	// ErrMalformedDocument indicates pasted input that is not JSON even after repair.
	ErrMalformedDocument = errors.New("document is not repairable JSON")

	// ErrStructural indicates a shape the tree cannot represent, such as a back-edge.
	ErrStructural = errors.New("structural error")
)

// Reasons reported by ConnectionError.
const (
	ReasonMissingNode   = "missing_node"
	ReasonSelfLoop      = "self_loop"
	ReasonToolSource    = "tool_source"
	ReasonStartTarget   = "start_target"
	ReasonClassTarget   = "class_target"
	ReasonSecondTool    = "second_tool"
	ReasonDuplicateEdge = "duplicate_edge"
)

// ConnectionError describes why a proposed edge was refused.
// Wraps ErrInvalidConnection for errors.Is() compatibility.
type ConnectionError struct {
	Source string
	Target string
	Reason string
}

func (e *ConnectionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s -> %s: %s", ErrInvalidConnection.Error(), e.Source, e.Target, e.Reason)
}

func (e *ConnectionError) Unwrap() error { return ErrInvalidConnection }

// StructuralError reports a structural violation found while serializing.
// Wraps ErrStructural for errors.Is() compatibility.
type StructuralError struct {
	Kind string // "back_edge"
	Msg  string
}

func (e *StructuralError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return ErrStructural.Error()
	}
	return fmt.Sprintf("%s: %s", ErrStructural.Error(), e.Msg)
}

func (e *StructuralError) Unwrap() error { return ErrStructural }
