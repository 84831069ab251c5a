// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package review

import (
	"context"
	"strings"
	"testing"

	"github.com/gitai-dev/gitai/internal/reviewcache"
)

type fakeGitProbe struct {
	diff string
	err  error
}

func (f fakeGitProbe) ProbeDiff(ctx context.Context) (string, error) { return f.diff, f.err }

func TestReview_EmptyDiffProbeYieldsNoChanges(t *testing.T) {
	o := &Orchestrator{Git: fakeGitProbe{diff: ""}}
	result, err := o.Review(context.Background(), "", Options{})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if !result.Success || result.Score != 100 {
		t.Errorf("expected success with score 100 for no changes, got %+v", result)
	}
	if !strings.Contains(result.Summary, "没有需要评审的代码变更") {
		t.Errorf("expected summary to contain the no-changes marker, got %q", result.Summary)
	}
}

func TestReview_CacheHitReturnsCachedPayload(t *testing.T) {
	cache := reviewcache.New(t.TempDir(), 10, 3600)
	diff := "diff --git a/x.go b/x.go\n"
	key := reviewcache.DeriveKey(diff, false, false, false, "", PromptVersion)
	if err := cache.Put(key, "", "cached payload"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	o := &Orchestrator{Cache: cache}
	result, err := o.Review(context.Background(), diff, Options{})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if !result.Cached || result.Summary != "cached payload" || result.Score != 85 {
		t.Errorf("expected cached result with score 85, got %+v", result)
	}
}

func TestReview_NoAIProviderSynthesizesDegradedSummary(t *testing.T) {
	o := &Orchestrator{Cache: reviewcache.New(t.TempDir(), 10, 3600)}
	result, err := o.Review(context.Background(), "diff --git a/x.go b/x.go\n", Options{})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if result.Details["ai"] == "" {
		t.Errorf("expected details[ai] to note degraded summary, got %+v", result.Details)
	}
}
