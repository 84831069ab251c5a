// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package analytics

import (
	"math"
	"testing"

	"github.com/gitai-dev/gitai/internal/depgraph"
	gitaitesting "github.com/gitai-dev/gitai/internal/testing"
)

// chainGraph delegates to the shared fixture builder so this package's
// PageRank/impact/centrality tests and C4's own consumers (C8's graph
// service, in later fixtures) build identical chain graphs.
func chainGraph(t *testing.T, n int) *depgraph.Graph {
	return gitaitesting.ChainGraph(t, n)
}

// TestPageRank_ConservesTotalMass mirrors spec.md §8's PageRank-conservation
// property: sum of ranks equals 1 within 1e-6 after convergence.
func TestPageRank_ConservesTotalMass(t *testing.T) {
	g := chainGraph(t, 5)
	ranks := PageRank(g, 0.85, 20, 1e-4)

	var sum float64
	for _, r := range ranks {
		sum += r
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("sum(ranks) = %v, want 1.0 +/- 1e-6", sum)
	}
}

// TestPageRank_FiveNodeChainIsMonotonic mirrors spec.md §8 scenario 5: on
// n1->n2->n3->n4->n5 with uniform weights, ranks increase strictly from n1
// to n5.
func TestPageRank_FiveNodeChainIsMonotonic(t *testing.T) {
	g := chainGraph(t, 5)
	ranks := PageRank(g, 0.85, 20, 1e-4)

	ids := []string{"a", "b", "c", "d", "e"}
	for i := 1; i < len(ids); i++ {
		if ranks[ids[i]] <= ranks[ids[i-1]] {
			t.Errorf("rank(%s)=%v should exceed rank(%s)=%v", ids[i], ranks[ids[i]], ids[i-1], ranks[ids[i-1]])
		}
	}
}

// TestImpactScope_MonotonicAcrossDepth mirrors spec.md §8's impact
// monotonicity property: scope(d1) subset of scope(d2) for d1 < d2.
func TestImpactScope_MonotonicAcrossDepth(t *testing.T) {
	g := chainGraph(t, 5)

	shallow := ImpactScope(g, "a", 1)
	deep := ImpactScope(g, "a", 3)

	shallowIDs := map[string]bool{}
	for _, n := range shallow {
		shallowIDs[n.NodeID] = true
	}
	deepIDs := map[string]bool{}
	for _, n := range deep {
		deepIDs[n.NodeID] = true
	}
	for id := range shallowIDs {
		if !deepIDs[id] {
			t.Errorf("scope(1) node %q missing from scope(3)", id)
		}
	}
}

// TestWeightedImpact_RespectsCutoff mirrors spec.md §8's weighted-impact
// cutoff property: no returned node has magnitude below epsilon.
func TestWeightedImpact_RespectsCutoff(t *testing.T) {
	g := chainGraph(t, 10)
	cutoff := 0.05
	result := WeightedImpact(g, "a", 1.0, 0.85, cutoff)

	for id, mag := range result {
		if mag < cutoff {
			t.Errorf("node %q has magnitude %v below cutoff %v", id, mag, cutoff)
		}
	}
	if _, ok := result["a"]; !ok {
		t.Errorf("source node should be present with magnitude m0")
	}
}

// TestCriticalPaths_DirectCallIsCritical mirrors the edge_impact_factor
// table: a single Calls hop (0.9) times one step of length decay (0.9)
// scores 0.81, which exceeds the 0.8 threshold.
func TestCriticalPaths_DirectCallIsCritical(t *testing.T) {
	g := depgraph.New()
	g.AddNode(depgraph.Node{ID: "a", Kind: depgraph.NodeFunction})
	g.AddNode(depgraph.Node{ID: "b", Kind: depgraph.NodeFunction})
	g.AddEdge(depgraph.Edge{From: "a", To: "b", Kind: depgraph.EdgeCalls, Weight: 1})

	paths := CriticalPaths(g, []string{"a"}, 5, 5, 0.8)
	if len(paths) == 0 {
		t.Fatalf("expected at least one path")
	}
	if !paths[0].IsCritical {
		t.Errorf("expected direct Calls edge to be critical, weight=%v", paths[0].Weight)
	}
}

func TestCentrality_NormalizesByNMinusOne(t *testing.T) {
	g := chainGraph(t, 5)
	c := Centrality(g, "b") // in-degree 1, out-degree 1 => 2/(5-1)
	if math.Abs(c-0.5) > 1e-9 {
		t.Errorf("Centrality(b) = %v, want 0.5", c)
	}
}
