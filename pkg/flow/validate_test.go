package flow

import (
	"errors"
	"testing"
)

func TestValidateConnection(t *testing.T) {
	g := NewGraph()
	a := g.AddClass("A", "", "", Position{})
	b := g.AddClass("B", "", "", Position{})
	c := g.AddClass("C", "", "", Position{})
	tool1 := g.AddTool("ds_speed_analysis", Position{})
	tool2 := g.AddTool("or_idle", Position{})

	if err := g.AddEdge(StartID, a); err != nil {
		t.Fatalf("start -> a: %v", err)
	}
	if err := g.AddEdge(a, tool1); err != nil {
		t.Fatalf("a -> tool1: %v", err)
	}

	tests := []struct {
		name   string
		src    string
		tgt    string
		reason string
	}{
		{"StartToClass", StartID, b, ""},
		{"ClassToClass", a, b, ""},
		{"ClassToToolFirst", b, tool2, ""},
		{"SharedTool", b, tool1, ""},
		{"MissingSource", "nope", a, ReasonMissingNode},
		{"MissingTarget", a, "nope", ReasonMissingNode},
		{"SelfLoop", a, a, ReasonSelfLoop},
		{"ToolSource", tool1, c, ReasonToolSource},
		{"StartToTool", StartID, tool2, ReasonStartTarget},
		{"StartToStart", StartID, StartID, ReasonSelfLoop},
		{"ClassToStart", a, StartID, ReasonClassTarget},
		{"SecondTool", a, tool2, ReasonSecondTool},
		{"Duplicate", StartID, a, ReasonDuplicateEdge},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConnection(g, tc.src, tc.tgt)
			if tc.reason == "" {
				if err != nil {
					t.Fatalf("expected %s -> %s to be valid, got %v", tc.src, tc.tgt, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected %s -> %s to be refused with %s", tc.src, tc.tgt, tc.reason)
			}
			if !errors.Is(err, ErrInvalidConnection) {
				t.Fatalf("expected ErrInvalidConnection, got %T: %v", err, err)
			}
			var ce *ConnectionError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConnectionError, got %T", err)
			}
			if ce.Reason != tc.reason {
				t.Fatalf("reason = %q, want %q", ce.Reason, tc.reason)
			}
		})
	}
}

func TestValidateConnectionIsPure(t *testing.T) {
	g := NewGraph()
	a := g.AddClass("A", "", "", Position{})
	before := len(g.Edges())

	for range 3 {
		if err := ValidateConnection(g, StartID, a); err != nil {
			t.Fatalf("unexpected refusal: %v", err)
		}
	}
	if len(g.Edges()) != before {
		t.Fatalf("validator mutated the graph: %d edges, want %d", len(g.Edges()), before)
	}
}

func TestAddEdgeRefusalLeavesGraphUnchanged(t *testing.T) {
	g := NewGraph()
	a := g.AddClass("A", "", "", Position{})
	tool := g.AddTool("", Position{})
	if err := g.AddEdge(a, tool); err != nil {
		t.Fatalf("a -> tool: %v", err)
	}

	edges := g.Edges()
	if err := g.AddEdge(tool, a); err == nil {
		t.Fatal("expected tool -> class to be refused")
	}
	if got := g.Edges(); len(got) != len(edges) {
		t.Fatalf("edges after refusal = %v, want %v", got, edges)
	}
}
