package flow

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/tidwall/gjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Class is one record of the classification tree.
type Class struct {
	Name         string `json:"name" jsonschema_description:"Human name of the class"`
	Description  string `json:"description" jsonschema_description:"When a question belongs to this class"`
	Instructions string `json:"instructions" jsonschema_description:"Extra guidance for answering questions of this class"`
	Tools        string `json:"tools,omitempty" jsonschema_description:"Tool key bound to this class"`
	Subclass     *Tree  `json:"subclass,omitempty" jsonschema_description:"Nested classes keyed by slug"`
}

// IsTerminal reports whether the class binds a tool and has no subclasses.
func (c *Class) IsTerminal() bool {
	return c.Tools != "" && c.Subclass.Len() == 0
}

// Tree maps slugs to classes. Iteration and JSON order follow insertion order.
type Tree struct {
	m *orderedmap.OrderedMap[string, *Class]
}

func NewTree() *Tree {
	return &Tree{m: orderedmap.New[string, *Class]()}
}

func (t *Tree) lazy() *orderedmap.OrderedMap[string, *Class] {
	if t.m == nil {
		t.m = orderedmap.New[string, *Class]()
	}
	return t.m
}

// Set inserts or replaces slug. Replacing keeps the original position.
func (t *Tree) Set(slug string, c *Class) {
	t.lazy().Set(slug, c)
}

func (t *Tree) Get(slug string) (*Class, bool) {
	if t == nil || t.m == nil {
		return nil, false
	}
	return t.m.Get(slug)
}

// Len is nil-safe.
func (t *Tree) Len() int {
	if t == nil || t.m == nil {
		return 0
	}
	return t.m.Len()
}

// Keys returns the slugs in order.
func (t *Tree) Keys() []string {
	keys := make([]string, 0, t.Len())
	t.Each(func(slug string, _ *Class) bool {
		keys = append(keys, slug)
		return true
	})
	return keys
}

// Each calls fn for every entry in order until fn returns false.
func (t *Tree) Each(fn func(slug string, c *Class) bool) {
	if t == nil || t.m == nil {
		return
	}
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Walk visits every class depth-first, parents before children. depth
// starts at 1 for top-level entries.
func (t *Tree) Walk(fn func(slug string, c *Class, depth int)) {
	var walk func(tree *Tree, depth int)
	walk = func(tree *Tree, depth int) {
		tree.Each(func(slug string, c *Class) bool {
			fn(slug, c, depth)
			walk(c.Subclass, depth+1)
			return true
		})
	}
	walk(t, 1)
}

// Clone returns a deep copy. A nil tree clones to an empty one.
func (t *Tree) Clone() *Tree {
	out := NewTree()
	t.Each(func(slug string, c *Class) bool {
		if c == nil {
			out.Set(slug, &Class{})
			return true
		}
		cp := *c
		if c.Subclass != nil {
			cp.Subclass = c.Subclass.Clone()
		}
		out.Set(slug, &cp)
		return true
	})
	return out
}

func (t *Tree) MarshalJSON() ([]byte, error) {
	if t == nil || t.m == nil {
		return []byte("{}"), nil
	}
	return t.m.MarshalJSON()
}

// UnmarshalJSON is tolerant: anything that is not an object decodes to an
// empty tree and wrong-typed class fields are treated as absent.
func (t *Tree) UnmarshalJSON(data []byte) error {
	*t = *ParseTree(data)
	return nil
}

// JSONSchema describes a tree as an object keyed by slugs.
func (Tree) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		PatternProperties: map[string]*jsonschema.Schema{
			reSlug.String(): {Ref: "#/$defs/Class"},
		},
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

// Schema returns the JSON Schema of a serialized classification tree.
func Schema() *jsonschema.Schema {
	r := jsonschema.Reflector{AllowAdditionalProperties: false}
	classSchema := r.Reflect(&Class{})
	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Ref:         "#/$defs/Tree",
		Definitions: classSchema.Definitions,
	}
}

// ParseTree reads a classification tree from JSON, keeping key order.
// Malformed input never fails: see UnmarshalJSON.
func ParseTree(data []byte) *Tree {
	if !gjson.ValidBytes(data) {
		return NewTree()
	}
	return treeFromResult(gjson.ParseBytes(data))
}

func treeFromResult(res gjson.Result) *Tree {
	tree := NewTree()
	if !res.IsObject() {
		return tree
	}
	res.ForEach(func(key, value gjson.Result) bool {
		tree.Set(key.String(), classFromResult(value))
		return true
	})
	return tree
}

func classFromResult(res gjson.Result) *Class {
	c := &Class{}
	if !res.IsObject() {
		return c
	}
	c.Name = stringField(res, "name")
	c.Description = stringField(res, "description")
	c.Instructions = stringField(res, "instructions")
	c.Tools = stringField(res, "tools")

	if sub := res.Get("subclass"); sub.IsObject() {
		c.Subclass = treeFromResult(sub)
	}
	return c
}

func stringField(res gjson.Result, field string) string {
	v := res.Get(field)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}

// Equal compares two trees including key order. A nil tree equals an empty one.
func Equal(a, b *Tree) bool {
	if a == nil {
		a = NewTree()
	}
	if b == nil {
		b = NewTree()
	}
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(ab) == string(bb)
}
