// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package parser

// Language is a supported source language tag.
type Language string

// Supported languages. Each carries a canonical name and (via the query
// registry and tree-sitter grammar table) an extension set and grammar
// handle at runtime.
const (
	LanguageGo         Language = "go"
	LanguageTypeScript Language = "typescript"
	LanguageJavaScript Language = "javascript"
	LanguagePython     Language = "python"
	LanguageRust       Language = "rust"
	LanguageJava       Language = "java"
	LanguageC          Language = "c"
	LanguageCPP        Language = "cpp"
)

// Visibility is a symbol's exported/unexported status.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Function is one parsed function or method.
type Function struct {
	Name       string
	Parameters []string
	ReturnType string
	StartLine  int
	EndLine    int
	IsAsync    bool
	Visibility Visibility
}

// Class is one parsed class, struct, or interface declaration.
type Class struct {
	Name       string
	Methods    []string
	Fields     []string
	Superclass string
	Interfaces []string
	StartLine  int
	EndLine    int
	IsAbstract bool
}

// Comment is one parsed comment span.
type Comment struct {
	Text         string
	Line         int
	IsDocComment bool
}

// Call is one parsed call expression.
type Call struct {
	Callee       string
	Line         int
	IsMethodCall bool
}

// StructuralSummary is the per-source-unit extract produced by
// AnalyzeStructure: functions, classes, imports, comments, and calls.
// AnalyzeStructure leaves ComplexityHints empty; no code in this module
// fills it. Summaries are immutable once returned; line
// numbers are 1-based and non-decreasing within an entity.
type StructuralSummary struct {
	Language        Language
	Functions       []Function
	Classes         []Class
	Imports         []string
	Comments        []Comment
	Calls           []Call
	ComplexityHints []string
}
