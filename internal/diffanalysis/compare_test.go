// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package diffanalysis

import (
	"testing"

	"github.com/gitai-dev/gitai/internal/parser"
	gitaitesting "github.com/gitai-dev/gitai/internal/testing"
)

func TestCompareStructure_SignatureChangeIsBreaking(t *testing.T) {
	before := parser.StructuralSummary{Functions: []parser.Function{
		{Name: "Greet", Parameters: nil, Visibility: parser.VisibilityPublic},
	}}
	after := parser.StructuralSummary{Functions: []parser.Function{
		{Name: "Greet", Parameters: []string{"name string"}, Visibility: parser.VisibilityPublic},
	}}

	diff := CompareStructure(before, after)
	if diff.BreakingCount != 1 {
		t.Fatalf("expected 1 breaking change, got %d: %+v", diff.BreakingCount, diff.Changes)
	}
	if diff.Risk != RiskHigh {
		t.Errorf("expected RiskHigh, got %s", diff.Risk)
	}
}

func TestCompareStructure_PrivateRemovalIsNonBreaking(t *testing.T) {
	before := parser.StructuralSummary{Functions: []parser.Function{
		{Name: "helper", Visibility: parser.VisibilityPrivate},
	}}
	after := parser.StructuralSummary{}

	diff := CompareStructure(before, after)
	if diff.BreakingCount != 0 {
		t.Errorf("expected 0 breaking changes for a private removal, got %d", diff.BreakingCount)
	}
	if diff.Risk != RiskMedium {
		t.Errorf("expected RiskMedium, got %s", diff.Risk)
	}
}

func TestCompareStructure_NoChangesIsLowRisk(t *testing.T) {
	summary := gitaitesting.FunctionSummary("Greet", 1, 3)
	diff := CompareStructure(summary, summary)
	if diff.Risk != RiskLow {
		t.Errorf("expected RiskLow for identical summaries, got %s", diff.Risk)
	}
}
