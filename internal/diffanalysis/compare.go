// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package diffanalysis

import (
	"sort"
	"strings"

	"github.com/gitai-dev/gitai/internal/parser"
)

// ChangeKind classifies one detected breaking or non-breaking change.
type ChangeKind string

const (
	KindAPISignatureChange  ChangeKind = "ApiSignatureChange"
	KindAPIRemoval          ChangeKind = "ApiRemoval"
	KindInterfaceChange     ChangeKind = "InterfaceChange"
	KindDataStructureChange ChangeKind = "DataStructureChange"
	KindBehaviorChange      ChangeKind = "BehaviorChange"
)

// SymbolChange is one detected difference between a before/after
// structural summary pair.
type SymbolChange struct {
	Kind     ChangeKind
	Symbol   string
	Before   string // human-readable prior signature/supertype, "" if added
	After    string // human-readable new signature/supertype, "" if removed
	Breaking bool
}

// RiskLevel is the overall risk classification of a StructuralDiff.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// StructuralDiff is the full before/after comparison result for one file
// pair, per spec.md §4.5's preferred (non-heuristic) pathway.
type StructuralDiff struct {
	Changes        []SymbolChange
	BreakingCount  int
	NonBreakingCount int
	Risk           RiskLevel
}

// CompareStructure diffs two StructuralSummary snapshots and classifies
// the resulting changes by set difference on (name, parameter-list) and
// (name, supertype) tuples, per spec.md §4.5.
func CompareStructure(before, after parser.StructuralSummary) StructuralDiff {
	var diff StructuralDiff

	beforeFns := indexFunctions(before.Functions)
	afterFns := indexFunctions(after.Functions)
	for name, b := range beforeFns {
		a, ok := afterFns[name]
		if !ok {
			diff.Changes = append(diff.Changes, SymbolChange{
				Kind: KindAPIRemoval, Symbol: name,
				Before: functionSignature(b), Breaking: b.Visibility == parser.VisibilityPublic,
			})
			continue
		}
		if functionSignature(a) != functionSignature(b) {
			diff.Changes = append(diff.Changes, SymbolChange{
				Kind: KindAPISignatureChange, Symbol: name,
				Before: functionSignature(b), After: functionSignature(a),
				Breaking: b.Visibility == parser.VisibilityPublic || a.Visibility == parser.VisibilityPublic,
			})
		}
	}

	beforeClasses := indexClasses(before.Classes)
	afterClasses := indexClasses(after.Classes)
	for name, b := range beforeClasses {
		a, ok := afterClasses[name]
		if !ok {
			diff.Changes = append(diff.Changes, SymbolChange{
				Kind: KindDataStructureChange, Symbol: name,
				Before: b.Superclass, Breaking: true,
			})
			continue
		}
		if a.Superclass != b.Superclass || !sameStrings(a.Interfaces, b.Interfaces) {
			diff.Changes = append(diff.Changes, SymbolChange{
				Kind: KindInterfaceChange, Symbol: name,
				Before: b.Superclass, After: a.Superclass, Breaking: true,
			})
		}
		if !sameStrings(a.Methods, b.Methods) {
			diff.Changes = append(diff.Changes, SymbolChange{
				Kind: KindBehaviorChange, Symbol: name,
				Before: strings.Join(b.Methods, ","), After: strings.Join(a.Methods, ","),
			})
		}
	}

	sort.SliceStable(diff.Changes, func(i, j int) bool { return diff.Changes[i].Symbol < diff.Changes[j].Symbol })

	for _, c := range diff.Changes {
		if c.Breaking {
			diff.BreakingCount++
		} else {
			diff.NonBreakingCount++
		}
	}

	switch {
	case diff.BreakingCount >= 1:
		diff.Risk = RiskHigh
	case diff.NonBreakingCount >= 1:
		diff.Risk = RiskMedium
	default:
		diff.Risk = RiskLow
	}
	return diff
}

func indexFunctions(fns []parser.Function) map[string]parser.Function {
	m := make(map[string]parser.Function, len(fns))
	for _, fn := range fns {
		m[fn.Name] = fn
	}
	return m
}

func indexClasses(classes []parser.Class) map[string]parser.Class {
	m := make(map[string]parser.Class, len(classes))
	for _, c := range classes {
		m[c.Name] = c
	}
	return m
}

func functionSignature(fn parser.Function) string {
	return fn.Name + "(" + strings.Join(fn.Parameters, ",") + ")" + fn.ReturnType
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]string(nil), a...)
	sb := append([]string(nil), b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}
