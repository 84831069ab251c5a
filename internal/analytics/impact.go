// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package analytics

import (
	"math"

	"github.com/gitai-dev/gitai/internal/depgraph"
)

// ScopedNode is one node discovered during a BFS impact scope traversal.
type ScopedNode struct {
	NodeID string
	Depth  int
}

// ImpactScope returns every node reachable from source in at most maxDepth
// hops following outgoing edges, each annotated with its discovery depth.
// Ties at equal depth are ordered by discovery order (BFS visitation
// order), per spec.md §4.4.
func ImpactScope(g *depgraph.Graph, source string, maxDepth int) []ScopedNode {
	visited := map[string]bool{source: true}
	queue := []ScopedNode{{NodeID: source, Depth: 0}}
	var out []ScopedNode

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)

		if cur.Depth >= maxDepth {
			continue
		}
		for _, e := range g.Out(cur.NodeID) {
			if visited[e.To] {
				continue
			}
			visited[e.To] = true
			queue = append(queue, ScopedNode{NodeID: e.To, Depth: cur.Depth + 1})
		}
	}
	return out
}

// edgeImpactFactor is the per-edge-kind weight used by both weighted
// impact propagation and critical-path scoring. Table values and the 0.4
// default are grounded directly on the original implementation's
// impact_propagation.rs get_edge_impact_factor, which spec.md §4.4's
// edge_impact_factor table matches exactly.
func edgeImpactFactor(kind depgraph.EdgeKind) float64 {
	switch kind {
	case depgraph.EdgeInherits:
		return 0.95
	case depgraph.EdgeCalls:
		return 0.90
	case depgraph.EdgeImplements:
		return 0.90
	case depgraph.EdgeContains:
		return 0.80
	case depgraph.EdgeDependsOn:
		return 0.80
	case depgraph.EdgeUses:
		return 0.70
	case depgraph.EdgeReferences:
		return 0.60
	case depgraph.EdgeImports:
		return 0.50
	case depgraph.EdgeExports:
		return 0.30
	default:
		return 0.40
	}
}

// WeightedImpact computes, for every node reachable from source, the
// maximum propagated magnitude across all paths from source to it, per
// spec.md §4.4: at depth k the magnitude contributed by an edge of weight
// w is m0 * alpha^k * w/maxOutWeight(u). Propagation stops expanding a
// path once its magnitude drops below cutoff; the returned map never
// contains a node whose magnitude is below cutoff.
func WeightedImpact(g *depgraph.Graph, source string, m0, alpha, cutoff float64) map[string]float64 {
	magnitude := map[string]float64{source: m0}

	type frontierNode struct {
		id    string
		depth int
		mag   float64
	}
	queue := []frontierNode{{id: source, depth: 0, mag: m0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		maxOut := maxOutWeight(g, cur.id)
		if maxOut == 0 {
			continue
		}

		for _, e := range g.Out(cur.id) {
			next := cur.mag * alpha * (e.Weight / maxOut)
			if next < cutoff {
				continue
			}
			if existing, ok := magnitude[e.To]; !ok || next > existing {
				magnitude[e.To] = next
				queue = append(queue, frontierNode{id: e.To, depth: cur.depth + 1, mag: next})
			}
		}
	}

	return magnitude
}

func maxOutWeight(g *depgraph.Graph, id string) float64 {
	max := 0.0
	for _, e := range g.Out(id) {
		if e.Weight > max {
			max = e.Weight
		}
	}
	return max
}

// Centrality returns the lightweight normalized degree of a node:
// (in-degree + out-degree) / (N-1).
func Centrality(g *depgraph.Graph, nodeID string) float64 {
	n := g.NodeCount()
	if n <= 1 {
		return 0
	}
	deg := g.InDegree(nodeID) + g.OutDegree(nodeID)
	return float64(deg) / float64(n-1)
}

// nodeImpactFactor mirrors get_node_impact_factor: a per-node-kind
// multiplier applied on top of a base score. Not currently consumed by
// WeightedImpact (spec.md §4.4 specifies only an edge-weighted formula);
// CriticalPaths uses it when ranking candidate targets.
func nodeImpactFactor(kind depgraph.NodeKind) float64 {
	switch kind {
	case depgraph.NodeFunction:
		return 1.0
	case depgraph.NodeClass:
		return 1.2
	case depgraph.NodeModule:
		return 1.1
	case depgraph.NodeFile:
		return 0.8
	default:
		return 1.0
	}
}

// ImpactRadius estimates how far a change's influence reaches, blending
// average impact score and traversal depth, grounded on
// impact_propagation.rs's calculate_radius.
func ImpactRadius(avgImpactScore float64, maxDepth int) float64 {
	depthFactor := float64(maxDepth) / 10.0
	radius := 0.3 + avgImpactScore*0.3 + depthFactor*0.2
	return math.Min(radius, 1.0)
}
