// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package diffanalysis

import "testing"

const sampleDiff = `diff --git a/main.go b/main.go
index abc123..def456 100644
--- a/main.go
+++ b/main.go
@@ -1,5 +1,6 @@
 package main

+// Greet says hi.
-func Greet() string {
+func Greet(name string) string {
 	return "hi"
 }
`

func TestParseUnifiedDiff(t *testing.T) {
	files := ParseUnifiedDiff(sampleDiff)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	f := files[0]
	if f.NewPath != "main.go" || f.OldPath != "main.go" {
		t.Errorf("paths = %q/%q, want main.go/main.go", f.OldPath, f.NewPath)
	}
	if len(f.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(f.Hunks))
	}

	var added, removed int
	for _, l := range f.Hunks[0].Lines {
		switch l.Kind {
		case LineAdded:
			added++
		case LineRemoved:
			removed++
		}
	}
	if added != 2 || removed != 1 {
		t.Errorf("added=%d removed=%d, want added=2 removed=1", added, removed)
	}
}

func TestClassifyFileStatus(t *testing.T) {
	cases := []struct {
		header string
		want   FileStatus
	}{
		{"diff --git a/x b/x\nnew file mode 100644\n", StatusAdded},
		{"diff --git a/x b/x\ndeleted file mode 100644\n", StatusRemoved},
		{"diff --git a/x b/x\nindex 1..2 100644\n", StatusModified},
	}
	for _, c := range cases {
		if got := ClassifyFileStatus(c.header); got != c.want {
			t.Errorf("ClassifyFileStatus(%q) = %q, want %q", c.header, got, c.want)
		}
	}
}

func TestExtractHeuristicSymbols(t *testing.T) {
	files := ParseUnifiedDiff(sampleDiff)
	symbols := ExtractHeuristicSymbols(files[0], "go")
	var sawFunc bool
	for _, s := range symbols {
		if s.Name == "Greet" && s.Kind == "function" {
			sawFunc = true
		}
	}
	if !sawFunc {
		t.Errorf("expected to find function Greet, got %+v", symbols)
	}
}
