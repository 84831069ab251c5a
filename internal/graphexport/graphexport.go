// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package graphexport renders a dependency graph (internal/depgraph) into
// the formats GitAI's `graph` command and `execute_dependency_graph` /
// `export_dependency_graph` MCP tools expose: json, dot, mermaid, and
// ascii natively, plus svg/png/pdf by shelling out to Graphviz's `dot`
// binary when available (spec.md §6's convert_graph_to_image contract).
package graphexport

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/gitai-dev/gitai/internal/depgraph"
)

// Format names the output format requested of Export/Render.
type Format string

const (
	FormatJSON    Format = "json"
	FormatDOT     Format = "dot"
	FormatMermaid Format = "mermaid"
	FormatASCII   Format = "ascii"
)

// Options controls what Render includes.
type Options struct {
	IncludeCalls   bool
	IncludeImports bool
}

// jsonNode/jsonEdge are the wire shapes for FormatJSON, kept flat and
// independent of depgraph's internal field names so the exported
// contract is stable even if Graph's internals change.
type jsonNode struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	FilePath  string  `json:"file_path"`
	StartLine int     `json:"start_line"`
	EndLine   int     `json:"end_line"`
	Score     float64 `json:"importance_score"`
}

type jsonEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Kind   string  `json:"kind"`
	Weight float64 `json:"weight"`
}

type jsonGraph struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

// Render produces the graph in the requested native format. svg/png/pdf
// are not native formats; callers should render to FormatDOT and pass
// the result through ToImage.
func Render(g *depgraph.Graph, format Format, opts Options) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(g, opts)
	case FormatDOT:
		return renderDOT(g, opts), nil
	case FormatMermaid:
		return renderMermaid(g, opts), nil
	case FormatASCII:
		return renderASCII(g, opts), nil
	default:
		return "", fmt.Errorf("graphexport: unsupported format %q", format)
	}
}

func includeEdge(kind depgraph.EdgeKind, opts Options) bool {
	switch kind {
	case depgraph.EdgeCalls:
		return opts.IncludeCalls
	case depgraph.EdgeImports:
		return opts.IncludeImports
	default:
		return true
	}
}

func edgeKindName(kind depgraph.EdgeKind) string {
	switch kind {
	case depgraph.EdgeCalls:
		return "calls"
	case depgraph.EdgeImports:
		return "imports"
	case depgraph.EdgeExports:
		return "exports"
	case depgraph.EdgeInherits:
		return "inherits"
	case depgraph.EdgeImplements:
		return "implements"
	case depgraph.EdgeUses:
		return "uses"
	case depgraph.EdgeReferences:
		return "references"
	case depgraph.EdgeContains:
		return "contains"
	case depgraph.EdgeDependsOn:
		return "depends_on"
	default:
		return "unknown"
	}
}

func sortedNodes(g *depgraph.Graph) []depgraph.Node {
	nodes := g.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

func renderJSON(g *depgraph.Graph, opts Options) (string, error) {
	out := jsonGraph{}
	for _, n := range sortedNodes(g) {
		out.Nodes = append(out.Nodes, jsonNode{
			ID: n.ID, Kind: n.Kind.String(), FilePath: n.FilePath,
			StartLine: n.StartLine, EndLine: n.EndLine, Score: n.ImportanceScore,
		})
	}
	for _, e := range g.Edges() {
		if !includeEdge(e.Kind, opts) {
			continue
		}
		out.Edges = append(out.Edges, jsonEdge{
			From: e.From, To: e.To, Kind: edgeKindName(e.Kind), Weight: e.Weight,
		})
	}
	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func renderDOT(g *depgraph.Graph, opts Options) string {
	var b strings.Builder
	b.WriteString("digraph gitai {\n")
	for _, n := range sortedNodes(g) {
		fmt.Fprintf(&b, "  %q [label=%q shape=box];\n", n.ID, fmt.Sprintf("%s\\n%s", n.Kind, n.FilePath))
	}
	for _, e := range g.Edges() {
		if !includeEdge(e.Kind, opts) {
			continue
		}
		fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", e.From, e.To, edgeKindName(e.Kind))
	}
	b.WriteString("}\n")
	return b.String()
}

func renderMermaid(g *depgraph.Graph, opts Options) string {
	var b strings.Builder
	b.WriteString("graph LR\n")
	ids := make(map[string]string, g.NodeCount())
	for i, n := range sortedNodes(g) {
		alias := fmt.Sprintf("n%d", i)
		ids[n.ID] = alias
		fmt.Fprintf(&b, "  %s[%q]\n", alias, n.ID)
	}
	for _, e := range g.Edges() {
		if !includeEdge(e.Kind, opts) {
			continue
		}
		from, ok1 := ids[e.From]
		to, ok2 := ids[e.To]
		if !ok1 || !ok2 {
			continue
		}
		fmt.Fprintf(&b, "  %s -- %s --> %s\n", from, edgeKindName(e.Kind), to)
	}
	return b.String()
}

func renderASCII(g *depgraph.Graph, opts Options) string {
	var b strings.Builder
	for _, n := range sortedNodes(g) {
		fmt.Fprintf(&b, "%s (%s)\n", n.ID, n.Kind)
		for _, e := range g.Out(n.ID) {
			if !includeEdge(e.Kind, opts) {
				continue
			}
			fmt.Fprintf(&b, "  -- %s --> %s\n", edgeKindName(e.Kind), e.To)
		}
	}
	return b.String()
}
