// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package analytics

import (
	"math"
	"sort"

	"github.com/gitai-dev/gitai/internal/depgraph"
)

// Path is one enumerated critical or near-critical path between a source
// and a target node.
type Path struct {
	Nodes       []string
	Weight      float64
	Description string
	IsCritical  bool
}

// CriticalPaths enumerates up to maxResults shortest paths from every node
// in sources to the top maxTargets impacted targets (by weighted-impact
// magnitude, excluding the sources themselves), scoring each path by the
// product of its edges' edgeImpactFactor times a length decay of
// 0.9^(len-1). A path is critical if its weight exceeds threshold. Results
// are sorted by weight descending, truncated to maxResults. Grounded on
// impact_propagation.rs's find_critical_paths/calculate_path_weight.
func CriticalPaths(g *depgraph.Graph, sources []string, maxTargets, maxResults int, threshold float64) []Path {
	impact := map[string]float64{}
	for _, s := range sources {
		for id, mag := range WeightedImpact(g, s, 1.0, 0.85, 0.05) {
			if mag > impact[id] {
				impact[id] = mag
			}
		}
	}

	sourceSet := map[string]bool{}
	for _, s := range sources {
		sourceSet[s] = true
	}

	targets := topTargets(g, impact, sourceSet, maxTargets)

	var paths []Path
	for _, s := range sources {
		for _, target := range targets {
			nodes, ok := shortestPath(g, s, target)
			if !ok {
				continue
			}
			weight := pathWeight(g, nodes)
			paths = append(paths, Path{
				Nodes:      nodes,
				Weight:     weight,
				IsCritical: weight > threshold,
			})
		}
	}

	sort.SliceStable(paths, func(i, j int) bool { return paths[i].Weight > paths[j].Weight })
	if len(paths) > maxResults {
		paths = paths[:maxResults]
	}
	return paths
}

// topTargets ranks impacted nodes by magnitude scaled by their node-kind
// impact factor (a class changing matters more than a file changing, per
// nodeImpactFactor), and returns the top k ids, excluding sources.
func topTargets(g *depgraph.Graph, impact map[string]float64, exclude map[string]bool, k int) []string {
	type scored struct {
		id    string
		score float64
	}
	var candidates []scored
	for id, score := range impact {
		if exclude[id] {
			continue
		}
		factor := 1.0
		if node, ok := g.Node(id); ok {
			factor = nodeImpactFactor(node.Kind)
		}
		candidates = append(candidates, scored{id, score * factor})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].id < candidates[j].id
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.id
	}
	return out
}

// shortestPath runs BFS from source to target over outgoing edges,
// reconstructing the path via parent pointers.
func shortestPath(g *depgraph.Graph, source, target string) ([]string, bool) {
	if source == target {
		return []string{source}, true
	}

	parent := map[string]string{source: ""}
	queue := []string{source}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, e := range g.Out(cur) {
			if _, seen := parent[e.To]; seen {
				continue
			}
			parent[e.To] = cur
			if e.To == target {
				return reconstructPath(parent, source, target), true
			}
			queue = append(queue, e.To)
		}
	}
	return nil, false
}

func reconstructPath(parent map[string]string, source, target string) []string {
	var rev []string
	for n := target; n != ""; n = parent[n] {
		rev = append(rev, n)
		if n == source {
			break
		}
	}
	out := make([]string, len(rev))
	for i, n := range rev {
		out[len(rev)-1-i] = n
	}
	return out
}

// pathWeight multiplies edgeImpactFactor along every hop of nodes, then
// applies a 0.9^(len-1) length decay.
func pathWeight(g *depgraph.Graph, nodes []string) float64 {
	if len(nodes) < 2 {
		return 1.0
	}
	weight := 1.0
	for i := 0; i < len(nodes)-1; i++ {
		weight *= edgeFactorBetween(g, nodes[i], nodes[i+1])
	}
	weight *= math.Pow(0.9, float64(len(nodes)-1))
	return weight
}

func edgeFactorBetween(g *depgraph.Graph, from, to string) float64 {
	best := 0.0
	found := false
	for _, e := range g.Out(from) {
		if e.To != to {
			continue
		}
		f := edgeImpactFactor(e.Kind)
		if !found || f > best {
			best = f
			found = true
		}
	}
	if !found {
		return 0.4
	}
	return best
}
