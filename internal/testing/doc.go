// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package testing provides fixture builders shared by GitAI's package
// tests: small dependency graphs and structural summaries that would
// otherwise be hand-built field-by-field in every _test.go file that
// exercises C3/C4.
//
// # Quick Start
//
//	func TestMyAnalysis(t *testing.T) {
//	    g := testing.ChainGraph(t, 5) // a -> b -> c -> d -> e
//	    // exercise C4 against g...
//	}
//
// # Seeding Structural Summaries
//
//   - FunctionSummary: a StructuralSummary with a single function
//   - CallGraphSummary: a StructuralSummary whose functions call one another
package testing
