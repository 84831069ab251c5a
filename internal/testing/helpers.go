// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package testing

import (
	"testing"

	"github.com/gitai-dev/gitai/internal/depgraph"
	"github.com/gitai-dev/gitai/internal/parser"
)

// ChainGraph builds a graph of n function nodes named "a", "b", "c", ... with
// a Calls edge from each node to the next, weight 1. This is the fixture
// shape used throughout C4's PageRank and impact-propagation tests.
func ChainGraph(t *testing.T, n int) *depgraph.Graph {
	t.Helper()

	g := depgraph.New()
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = nodeName(i)
		g.AddNode(depgraph.Node{ID: ids[i], Kind: depgraph.NodeFunction})
	}
	for i := 0; i < n-1; i++ {
		g.AddEdge(depgraph.Edge{From: ids[i], To: ids[i+1], Kind: depgraph.EdgeCalls, Weight: 1})
	}
	return g
}

func nodeName(i int) string {
	return string(rune('a' + i))
}

// FunctionSummary builds a minimal StructuralSummary containing a single
// public function with the given name and line span.
func FunctionSummary(name string, startLine, endLine int) parser.StructuralSummary {
	return parser.StructuralSummary{
		Language: parser.LanguageGo,
		Functions: []parser.Function{
			{Name: name, StartLine: startLine, EndLine: endLine, Visibility: parser.VisibilityPublic},
		},
	}
}

// CallGraphSummary builds a StructuralSummary with n functions, each (but
// the last) calling the next by name — the structural-summary analog of
// ChainGraph, for exercising BuildFromSummary end to end.
func CallGraphSummary(n int) parser.StructuralSummary {
	s := parser.StructuralSummary{Language: parser.LanguageGo}
	for i := 0; i < n; i++ {
		name := nodeName(i)
		start := i*10 + 1
		s.Functions = append(s.Functions, parser.Function{
			Name: name, StartLine: start, EndLine: start + 5, Visibility: parser.VisibilityPublic,
		})
		if i < n-1 {
			s.Calls = append(s.Calls, parser.Call{Callee: nodeName(i + 1), Line: start + 1})
		}
	}
	return s
}
