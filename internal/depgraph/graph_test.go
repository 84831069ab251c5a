// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package depgraph

import (
	"testing"

	"github.com/gitai-dev/gitai/internal/parser"
	gitaitesting "github.com/gitai-dev/gitai/internal/testing"
)

// TestBuildFromSummary_ChainOfCalls exercises BuildFromSummary against the
// same n-function call-chain shape C4's PageRank tests use, confirming the
// Calls edges it emits form the expected chain rather than just checking a
// single function in isolation.
func TestBuildFromSummary_ChainOfCalls(t *testing.T) {
	summary := gitaitesting.CallGraphSummary(4)
	g := BuildFromSummary("chain.go", summary)

	for i := 0; i < 3; i++ {
		fromID := NodeID(NodeFunction, "chain.go", summary.Functions[i].Name)
		// Call targets are unresolved placeholders ("?"): BuildFromSummary
		// sees one file only, and Merge does not resolve them.
		toID := NodeID(NodeFunction, "?", summary.Functions[i+1].Name)

		found := false
		for _, e := range g.Out(fromID) {
			if e.To == toID && e.Kind == EdgeCalls {
				found = true
			}
		}
		if !found {
			t.Errorf("expected Calls edge %s -> %s", fromID, toID)
		}
	}
}

func TestBuildFromSummary_EmitsFileFunctionAndContains(t *testing.T) {
	summary := parser.StructuralSummary{
		Language: parser.LanguageGo,
		Functions: []parser.Function{
			{Name: "add", StartLine: 1, EndLine: 3},
		},
		Calls: []parser.Call{
			{Callee: "helper", Line: 2},
		},
		Imports: []string{"fmt"},
	}

	g := BuildFromSummary("math.go", summary)

	fileID := NodeID(NodeFile, "math.go", "")
	fnID := NodeID(NodeFunction, "math.go", "add")

	if _, ok := g.Node(fileID); !ok {
		t.Fatalf("expected file node %q", fileID)
	}
	if _, ok := g.Node(fnID); !ok {
		t.Fatalf("expected function node %q", fnID)
	}

	foundContains := false
	for _, e := range g.Out(fileID) {
		if e.To == fnID && e.Kind == EdgeContains {
			foundContains = true
		}
	}
	if !foundContains {
		t.Errorf("expected Contains edge from file to function")
	}

	foundCall := false
	for _, e := range g.Out(fnID) {
		if e.Kind == EdgeCalls {
			foundCall = true
		}
	}
	if !foundCall {
		t.Errorf("expected Calls edge out of add()")
	}

	foundImport := false
	for _, e := range g.Out(fileID) {
		if e.Kind == EdgeImports {
			foundImport = true
		}
	}
	if !foundImport {
		t.Errorf("expected Imports edge for fmt")
	}
}

// TestMerge_Idempotence mirrors spec.md §8's graph-idempotence property:
// merge(G, G) must equal G after edge coalescing (weights double,
// adjacency sets unchanged).
func TestMerge_Idempotence(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "func:a.go::f", Kind: NodeFunction})
	g.AddNode(Node{ID: "func:a.go::g", Kind: NodeFunction})
	g.AddEdge(Edge{From: "func:a.go::f", To: "func:a.go::g", Kind: EdgeCalls, Weight: 1})

	merged := Merge(g, g)

	if merged.NodeCount() != g.NodeCount() {
		t.Errorf("NodeCount = %d, want %d", merged.NodeCount(), g.NodeCount())
	}
	if merged.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1 (coalesced)", merged.EdgeCount())
	}
	edges := merged.Out("func:a.go::f")
	if len(edges) != 1 || edges[0].Weight != 2 {
		t.Errorf("expected coalesced weight 2, got %+v", edges)
	}
}

// TestCycles_DetectsThreeNodeCycle mirrors the A->B->C->A fixture from
// spec.md §8 scenario 4.
func TestCycles_DetectsThreeNodeCycle(t *testing.T) {
	g := New()
	for _, id := range []string{"A", "B", "C"} {
		g.AddNode(Node{ID: id, Kind: NodeFunction})
	}
	g.AddEdge(Edge{From: "A", To: "B", Kind: EdgeCalls, Weight: 1})
	g.AddEdge(Edge{From: "B", To: "C", Kind: EdgeCalls, Weight: 1})
	g.AddEdge(Edge{From: "C", To: "A", Kind: EdgeCalls, Weight: 1})

	sccs := g.Cycles()
	if len(sccs) != 1 {
		t.Fatalf("expected 1 SCC, got %d: %+v", len(sccs), sccs)
	}

	members := map[string]bool{}
	for _, id := range sccs[0] {
		members[id] = true
	}
	for _, want := range []string{"A", "B", "C"} {
		if !members[want] {
			t.Errorf("expected %q in cycle, got %+v", want, sccs[0])
		}
	}

	stats := g.Statistics()
	if stats.CyclesCount < 1 {
		t.Errorf("CyclesCount = %d, want >= 1", stats.CyclesCount)
	}
}

func TestStatistics_AvgDegreeOnEmptyGraph(t *testing.T) {
	g := New()
	stats := g.Statistics()
	if stats.AvgDegree != 0 {
		t.Errorf("AvgDegree on empty graph = %v, want 0", stats.AvgDegree)
	}
}
