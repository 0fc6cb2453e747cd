package flow

import (
	"fmt"

	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/gjson"
)

// RepairJSON fixes the usual damage in hand-edited or pasted JSON (trailing
// commas, single quotes, missing closing braces).
func RepairJSON(raw []byte) (string, error) {
	doc, err := jsonrepair.JSONRepair(string(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return doc, nil
}

// agentRecord returns the agent object inside doc, or false when doc is
// neither an agent nor an export. An agent is recognised by a string
// agent_name and an export by a string exported_at next to an agent object.
// Both fields are strings, so a bare tree, whose values are all class
// objects, never matches even with classes keyed like them.
func agentRecord(doc string) (gjson.Result, bool) {
	root := gjson.Parse(doc)
	if !root.IsObject() {
		return gjson.Result{}, false
	}
	if root.Get("agent_name").Type == gjson.String {
		return root, true
	}
	agent := root.Get("agent")
	if agent.IsObject() &&
		(root.Get("exported_at").Type == gjson.String || agent.Get("agent_name").Type == gjson.String) {
		return agent, true
	}
	return gjson.Result{}, false
}

// UnwrapAgent returns the agent object of an export document, or doc
// itself otherwise.
func UnwrapAgent(doc string) string {
	if agent, ok := agentRecord(doc); ok {
		return agent.Raw
	}
	return doc
}

// ParseDocument reads a tree from a pasted document: a bare tree, an agent
// or an export. Agents without a question_class give an empty tree.
func ParseDocument(raw []byte) (*Tree, error) {
	doc, err := RepairJSON(raw)
	if err != nil {
		return nil, err
	}
	if agent, ok := agentRecord(doc); ok {
		return treeFromResult(agent.Get("question_class")), nil
	}
	return ParseTree([]byte(doc)), nil
}
