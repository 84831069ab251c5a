// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package graphexport

import (
	"strings"
	"testing"

	"github.com/gitai-dev/gitai/internal/depgraph"
)

func sampleGraph(t *testing.T) *depgraph.Graph {
	t.Helper()
	g := depgraph.New()
	g.AddNode(depgraph.Node{ID: "func:a.go:foo", Kind: depgraph.NodeFunction, FilePath: "a.go"})
	g.AddNode(depgraph.Node{ID: "func:a.go:bar", Kind: depgraph.NodeFunction, FilePath: "a.go"})
	g.AddEdge(depgraph.Edge{From: "func:a.go:foo", To: "func:a.go:bar", Kind: depgraph.EdgeCalls, Weight: 1})
	g.RebuildAdjacency()
	return g
}

func TestRender_JSON(t *testing.T) {
	g := sampleGraph(t)
	out, err := Render(g, FormatJSON, Options{IncludeCalls: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, `"id": "func:a.go:foo"`) {
		t.Errorf("expected node in JSON output, got %s", out)
	}
}

func TestRender_DOT(t *testing.T) {
	g := sampleGraph(t)
	out, err := Render(g, FormatDOT, Options{IncludeCalls: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(out, "digraph gitai {") || !strings.Contains(out, "->") {
		t.Errorf("expected dot digraph with an edge, got %s", out)
	}
}

func TestRender_ExcludesCallsWhenDisabled(t *testing.T) {
	g := sampleGraph(t)
	out, err := Render(g, FormatDOT, Options{IncludeCalls: false})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "->") {
		t.Errorf("expected no edges when IncludeCalls is false, got %s", out)
	}
}

func TestRender_Mermaid(t *testing.T) {
	g := sampleGraph(t)
	out, err := Render(g, FormatMermaid, Options{IncludeCalls: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(out, "graph LR") {
		t.Errorf("expected mermaid graph header, got %s", out)
	}
}

func TestRender_UnsupportedFormat(t *testing.T) {
	g := sampleGraph(t)
	if _, err := Render(g, Format("svg"), Options{}); err == nil {
		t.Errorf("expected error for non-native format svg")
	}
}
