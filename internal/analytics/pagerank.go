// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package analytics implements GitAI's graph analytics (C4): PageRank,
// BFS impact scope, weighted impact propagation, lightweight centrality,
// and critical-path enumeration, all as pure functions over a
// depgraph.Graph. Every traversal walks adjacency in insertion order and
// every ranking is a stable sort, so results are deterministic for a given
// graph and parameter set.
package analytics

import (
	"sort"

	"github.com/gitai-dev/gitai/internal/depgraph"
)

// PageRank computes the stationary distribution of a random walk on g with
// teleportation probability 1-damping, per spec.md §4.4. Dangling nodes
// (no outgoing edges) redistribute their mass uniformly across all nodes.
// Iteration stops when the maximum absolute per-node delta falls below
// tol, or maxIter is reached.
func PageRank(g *depgraph.Graph, damping float64, maxIter int, tol float64) map[string]float64 {
	ids := sortedNodeIDs(g)
	n := len(ids)
	if n == 0 {
		return map[string]float64{}
	}

	rank := make(map[string]float64, n)
	for _, id := range ids {
		rank[id] = 1.0 / float64(n)
	}

	outWeight := make(map[string]float64, n)
	for _, id := range ids {
		var sum float64
		for _, e := range g.Out(id) {
			sum += e.Weight
		}
		outWeight[id] = sum
	}

	for iter := 0; iter < maxIter; iter++ {
		next := make(map[string]float64, n)
		base := (1 - damping) / float64(n)
		for _, id := range ids {
			next[id] = base
		}

		var danglingMass float64
		for _, id := range ids {
			if outWeight[id] == 0 {
				danglingMass += rank[id]
			}
		}
		if danglingMass > 0 {
			share := damping * danglingMass / float64(n)
			for _, id := range ids {
				next[id] += share
			}
		}

		for _, u := range ids {
			if outWeight[u] == 0 {
				continue
			}
			for _, e := range g.Out(u) {
				next[e.To] += damping * rank[u] * e.Weight / outWeight[u]
			}
		}

		maxDelta := 0.0
		for _, id := range ids {
			d := next[id] - rank[id]
			if d < 0 {
				d = -d
			}
			if d > maxDelta {
				maxDelta = d
			}
		}
		rank = next
		if maxDelta < tol {
			break
		}
	}

	return rank
}

func sortedNodeIDs(g *depgraph.Graph) []string {
	nodes := g.Nodes()
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	sort.Strings(ids)
	return ids
}
