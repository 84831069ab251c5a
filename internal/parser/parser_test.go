// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package parser

import "testing"

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		ext  string
		want Language
		ok   bool
	}{
		{".go", LanguageGo, true},
		{".ts", LanguageTypeScript, true},
		{".tsx", LanguageTypeScript, true},
		{".py", LanguagePython, true},
		{".rs", LanguageRust, true},
		{".java", LanguageJava, true},
		{".cpp", LanguageCPP, true},
		{".md", "", false},
	}
	for _, c := range cases {
		got, ok := DetectLanguage(c.ext)
		if ok != c.ok || got != c.want {
			t.Errorf("DetectLanguage(%q) = (%q, %v), want (%q, %v)", c.ext, got, ok, c.want, c.ok)
		}
	}
}

func TestSplitParams(t *testing.T) {
	cases := []struct {
		lang Language
		raw  string
		want []string
	}{
		{LanguageGo, "(a int, b string)", []string{"a int", "b string"}},
		{LanguageGo, "()", nil},
		{LanguageTypeScript, "(a: number, b: Map<string, number>)", []string{"a: number", "b: Map<string, number>"}},
	}
	for _, c := range cases {
		got := splitParams(c.lang, c.raw)
		if len(got) != len(c.want) {
			t.Fatalf("splitParams(%q) = %v, want %v", c.raw, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("splitParams(%q)[%d] = %q, want %q", c.raw, i, got[i], c.want[i])
			}
		}
	}
}

func TestVisibilityFor(t *testing.T) {
	if visibilityFor(LanguageGo, "Exported") != VisibilityPublic {
		t.Error("Go capitalized name should be public")
	}
	if visibilityFor(LanguageGo, "unexported") != VisibilityPrivate {
		t.Error("Go lowercase name should be private")
	}
	if visibilityFor(LanguagePython, "_private") != VisibilityPrivate {
		t.Error("Python underscore-prefixed name should be private")
	}
	if visibilityFor(LanguagePython, "public") != VisibilityPublic {
		t.Error("Python bare name should be public")
	}
}

func TestAnalyzeStructure_Go(t *testing.T) {
	registry := mustRegistry(t)
	m := NewManager(registry, nil)

	src := []byte(`package demo

// Greet says hello to name.
func Greet(name string) string {
	return helper(name)
}

func helper(name string) string {
	return name
}
`)

	summary, err := m.AnalyzeStructure(testContext(), LanguageGo, "demo.go", src)
	if err != nil {
		t.Fatalf("AnalyzeStructure: %v", err)
	}

	if len(summary.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d: %+v", len(summary.Functions), summary.Functions)
	}

	var sawDoc bool
	for _, c := range summary.Comments {
		if c.IsDocComment {
			sawDoc = true
		}
	}
	if !sawDoc {
		t.Errorf("expected the // Greet comment to be classified as a doc comment")
	}

	var sawCall bool
	for _, c := range summary.Calls {
		if c.Callee == "helper" {
			sawCall = true
		}
	}
	if !sawCall {
		t.Errorf("expected a call to helper to be extracted, got %+v", summary.Calls)
	}
}
