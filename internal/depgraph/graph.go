// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package depgraph implements GitAI's project dependency-and-call graph:
// typed nodes and edges with adjacency lists, construction from a
// structural summary, merge across files, and basic statistics including
// cycle detection.
//
// Nodes and edges are owned by the Graph value; adjacency maps index them
// by string id rather than by pointer, which makes merge a matter of
// unioning maps and trades a hash lookup for freedom from cyclic ownership.
package depgraph

import (
	"fmt"
	"time"

	"github.com/gitai-dev/gitai/internal/parser"
)

// NodeKind tags what a Node represents.
type NodeKind int

const (
	NodeFile NodeKind = iota
	NodeModule
	NodeClass
	NodeFunction
)

// String renders a NodeKind's id prefix ("file", "mod", "class", "func").
func (k NodeKind) String() string {
	switch k {
	case NodeFile:
		return "file"
	case NodeModule:
		return "mod"
	case NodeClass:
		return "class"
	case NodeFunction:
		return "func"
	default:
		return "unknown"
	}
}

// EdgeKind tags the relationship an Edge encodes.
type EdgeKind int

const (
	EdgeCalls EdgeKind = iota
	EdgeImports
	EdgeExports
	EdgeInherits
	EdgeImplements
	EdgeUses
	EdgeReferences
	EdgeContains
	EdgeDependsOn
)

// Node is one vertex in the dependency graph.
type Node struct {
	ID              string
	Kind            NodeKind
	FilePath        string
	StartLine       int
	EndLine         int
	Complexity      float64
	CreatedAt       time.Time
	ImportanceScore float64
}

// Edge is one directed, typed relationship between two nodes.
type Edge struct {
	From, To  string
	Kind      EdgeKind
	Weight    float64
	Notes     string
	CallCount int
	IsStrong  bool
}

// Graph is a directed multi-labeled graph over Node/Edge. Nodes and edges
// are created at build time from structural summaries; the graph is
// otherwise immutable, and analytics operate read-only over it.
type Graph struct {
	nodes map[string]Node
	edges []Edge
	out   map[string][]int // node id -> indices into edges
	in    map[string][]int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]Node),
		out:   make(map[string][]int),
		in:    make(map[string][]int),
	}
}

// NodeID builds the stable, globally unique id for a node of the given
// kind, file, and name: "kind:file_path::name".
func NodeID(kind NodeKind, filePath, name string) string {
	return fmt.Sprintf("%s:%s::%s", kind, filePath, name)
}

// AddNode inserts or replaces a node. Later writes win on id collision.
func (g *Graph) AddNode(n Node) {
	g.nodes[n.ID] = n
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes, in no particular order. Callers that need
// determinism should sort by ID.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// Edges returns the edge slice in insertion order, which all analytics
// rely on for deterministic traversal.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// NodeCount and EdgeCount report the graph's size.
func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.edges) }

// AddEdge appends an edge, coalescing with an existing edge of identical
// (from,to,kind) by summing weight (and call count), per the dependency
// graph's duplicate-edge invariant. Self-loops are stored like any other
// edge with no marker; callers may inspect From==To themselves, and
// Statistics counts them in CyclesCount.
func (g *Graph) AddEdge(e Edge) {
	for i := range g.edges {
		existing := &g.edges[i]
		if existing.From == e.From && existing.To == e.To && existing.Kind == e.Kind {
			existing.Weight += e.Weight
			existing.CallCount += e.CallCount
			if e.IsStrong {
				existing.IsStrong = true
			}
			return
		}
	}
	g.edges = append(g.edges, e)
	g.rebuildAdjacencyIncremental(len(g.edges) - 1)
}

func (g *Graph) rebuildAdjacencyIncremental(idx int) {
	e := g.edges[idx]
	g.out[e.From] = append(g.out[e.From], idx)
	g.in[e.To] = append(g.in[e.To], idx)
}

// RebuildAdjacency recomputes the outgoing/incoming adjacency maps from the
// current edge slice. The adjacency maps are a pure function of the edge
// set and MUST always be recoverable from it; this is that recovery path,
// used after Merge or any bulk edge mutation.
func (g *Graph) RebuildAdjacency() {
	g.out = make(map[string][]int, len(g.nodes))
	g.in = make(map[string][]int, len(g.nodes))
	for i, e := range g.edges {
		g.out[e.From] = append(g.out[e.From], i)
		g.in[e.To] = append(g.in[e.To], i)
	}
}

// Out returns the edges leaving id, in insertion order.
func (g *Graph) Out(id string) []Edge {
	idxs := g.out[id]
	edges := make([]Edge, len(idxs))
	for i, idx := range idxs {
		edges[i] = g.edges[idx]
	}
	return edges
}

// In returns the edges entering id, in insertion order.
func (g *Graph) In(id string) []Edge {
	idxs := g.in[id]
	edges := make([]Edge, len(idxs))
	for i, idx := range idxs {
		edges[i] = g.edges[idx]
	}
	return edges
}

// OutDegree and InDegree count adjacent edges.
func (g *Graph) OutDegree(id string) int { return len(g.out[id]) }
func (g *Graph) InDegree(id string) int  { return len(g.in[id]) }

// BuildFromSummary constructs a graph fragment for one file's structural
// summary, per spec.md §4.3:
//  1. one File node NodeID(NodeFile, F, "") = "file:F::"
//  2. one Function node + Contains edge per top-level function
//  3. one Class node + Contains edge per class, plus Contains edges to its
//     methods as Function nodes "func:F::class.method"; an Inherits edge
//     to an (possibly unresolved placeholder) superclass node when present
//  4. one Calls edge per call site that lies inside a function's line
//     range, always to the unresolved placeholder "func:?::<callee>"
//  5. one Imports edge per import, to a Module node "mod:::<import>"
func BuildFromSummary(filePath string, s parser.StructuralSummary) *Graph {
	g := New()
	now := time.Now()

	fileID := NodeID(NodeFile, filePath, "")
	g.AddNode(Node{ID: fileID, Kind: NodeFile, FilePath: filePath, CreatedAt: now})

	for _, fn := range s.Functions {
		fnID := NodeID(NodeFunction, filePath, fn.Name)
		g.AddNode(Node{
			ID: fnID, Kind: NodeFunction, FilePath: filePath,
			StartLine: fn.StartLine, EndLine: fn.EndLine, CreatedAt: now,
		})
		g.AddEdge(Edge{From: fileID, To: fnID, Kind: EdgeContains, Weight: 1})
	}

	for _, cls := range s.Classes {
		classID := NodeID(NodeClass, filePath, cls.Name)
		g.AddNode(Node{
			ID: classID, Kind: NodeClass, FilePath: filePath,
			StartLine: cls.StartLine, EndLine: cls.EndLine, CreatedAt: now,
		})
		g.AddEdge(Edge{From: fileID, To: classID, Kind: EdgeContains, Weight: 1})

		for _, method := range cls.Methods {
			methodID := NodeID(NodeFunction, filePath, cls.Name+"."+method)
			if _, ok := g.Node(methodID); !ok {
				g.AddNode(Node{ID: methodID, Kind: NodeFunction, FilePath: filePath, CreatedAt: now})
			}
			g.AddEdge(Edge{From: classID, To: methodID, Kind: EdgeContains, Weight: 1})
		}

		if cls.Superclass != "" {
			superID := NodeID(NodeClass, "*", cls.Superclass)
			if _, ok := g.Node(superID); !ok {
				g.AddNode(Node{ID: superID, Kind: NodeClass, CreatedAt: now})
			}
			g.AddEdge(Edge{From: classID, To: superID, Kind: EdgeInherits, Weight: 1})
		}
	}

	for _, fn := range s.Functions {
		fnID := NodeID(NodeFunction, filePath, fn.Name)
		for _, call := range s.Calls {
			if call.Line < fn.StartLine || call.Line > fn.EndLine {
				continue
			}
			targetID := NodeID(NodeFunction, "?", call.Callee)
			if _, ok := g.Node(targetID); !ok {
				g.AddNode(Node{ID: targetID, Kind: NodeFunction, CreatedAt: now})
			}
			g.AddEdge(Edge{From: fnID, To: targetID, Kind: EdgeCalls, Weight: 1, CallCount: 1})
		}
	}

	for _, imp := range s.Imports {
		modID := NodeID(NodeModule, "", imp)
		if _, ok := g.Node(modID); !ok {
			g.AddNode(Node{ID: modID, Kind: NodeModule, CreatedAt: now})
		}
		g.AddEdge(Edge{From: fileID, To: modID, Kind: EdgeImports, Weight: 1})
	}

	return g
}

// Merge unions node sets (later graph wins on id collision) and
// concatenates edge sets (coalesced by (from,to,kind) with weight summed),
// then rebuilds adjacency. It produces a new logical graph; inputs are
// left untouched.
func Merge(graphs ...*Graph) *Graph {
	out := New()
	for _, g := range graphs {
		for _, n := range g.Nodes() {
			out.AddNode(n)
		}
	}
	for _, g := range graphs {
		for _, e := range g.edges {
			out.AddEdge(e)
		}
	}
	out.RebuildAdjacency()
	return out
}

// Stats holds graph-wide summary statistics.
type Stats struct {
	NodeCount          int
	EdgeCount          int
	AvgDegree          float64
	CyclesCount        int
	CriticalNodesCount int
}

// CriticalNodeThreshold is the default importance-score threshold at which
// a node is counted as "critical" in Statistics().
const CriticalNodeThreshold = 0.15

// Statistics computes node_count, edge_count, avg_degree, cycles_count
// (SCCs of size > 1 plus self-loops), and critical_nodes_count (importance
// >= CriticalNodeThreshold), per spec.md §4.3.
func (g *Graph) Statistics() Stats {
	n := g.NodeCount()
	avgDegree := 0.0
	if n > 0 {
		avgDegree = 2 * float64(g.EdgeCount()) / float64(n)
	}

	selfLoops := 0
	for _, e := range g.edges {
		if e.From == e.To {
			selfLoops++
		}
	}

	sccs := g.Cycles()
	critical := 0
	for _, node := range g.nodes {
		if node.ImportanceScore >= CriticalNodeThreshold {
			critical++
		}
	}

	return Stats{
		NodeCount:          n,
		EdgeCount:          g.EdgeCount(),
		AvgDegree:          avgDegree,
		CyclesCount:        len(sccs) + selfLoops,
		CriticalNodesCount: critical,
	}
}
