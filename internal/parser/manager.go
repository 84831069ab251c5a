// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package parser implements GitAI's Parser Manager (C1): a pool of
// per-language tree-sitter parsers that turn source bytes into a
// StructuralSummary, driven by capture queries resolved from the Query
// Registry (C2) rather than hand-written AST walks.
package parser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/gitai-dev/gitai/internal/contract"
	"github.com/gitai-dev/gitai/internal/queryreg"
)

// QueryRegistry is the subset of *queryreg.Registry the manager needs,
// narrowed so this package doesn't import queryreg's embed machinery
// directly in tests.
type QueryRegistry interface {
	Compiled(language string, kind queryreg.Kind, grammar *sitter.Language) (*sitter.Query, error)
}

// Manager owns one *sitter.Parser per language, reused across calls.
// tree-sitter parsers are not safe for concurrent use; a single mutex
// shared by all languages guards every parse, so parses are serialized
// across languages as well as within one.
type Manager struct {
	registry QueryRegistry
	logger   *slog.Logger

	grammars map[Language]*sitter.Language

	mu      sync.Mutex
	parsers map[Language]*sitter.Parser
}

// NewManager constructs a Manager wired to the given query registry. A nil
// logger falls back to slog.Default().
func NewManager(registry QueryRegistry, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		registry: registry,
		logger:   logger,
		grammars: map[Language]*sitter.Language{
			LanguageGo:         golang.GetLanguage(),
			LanguageTypeScript: typescript.GetLanguage(),
			LanguageJavaScript: javascript.GetLanguage(),
			LanguagePython:     python.GetLanguage(),
			LanguageRust:       rust.GetLanguage(),
			LanguageJava:       java.GetLanguage(),
			LanguageC:          c.GetLanguage(),
			LanguageCPP:        cpp.GetLanguage(),
		},
		parsers: make(map[Language]*sitter.Parser),
	}
}

// DetectLanguage maps a file extension (as returned by filepath.Ext, dot
// included) to a supported Language, or ("", false) if unrecognized.
func DetectLanguage(ext string) (Language, bool) {
	switch ext {
	case ".go":
		return LanguageGo, true
	case ".ts", ".tsx":
		return LanguageTypeScript, true
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript, true
	case ".py":
		return LanguagePython, true
	case ".rs":
		return LanguageRust, true
	case ".java":
		return LanguageJava, true
	case ".c", ".h":
		return LanguageC, true
	case ".cc", ".cpp", ".cxx", ".hpp":
		return LanguageCPP, true
	default:
		return "", false
	}
}

func (m *Manager) parserFor(lang Language) (*sitter.Parser, *sitter.Language, error) {
	grammar, ok := m.grammars[lang]
	if !ok {
		return nil, nil, fmt.Errorf("unsupported language %q", lang)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.parsers[lang]
	if !ok {
		p = sitter.NewParser()
		p.SetLanguage(grammar)
		m.parsers[lang] = p
	}
	return p, grammar, nil
}

// AnalyzeStructure parses content as the given language and returns its
// StructuralSummary: functions, classes, imports, comments and calls, each
// resolved through the query registry's compiled captures for that
// language. Missing query kinds (e.g. a language with no class_query)
// simply yield an empty slice for that facet.
func (m *Manager) AnalyzeStructure(ctx context.Context, lang Language, filePath string, content []byte) (StructuralSummary, error) {
	if v := contract.ValidateSourceSize(content); !v.OK {
		return StructuralSummary{}, fmt.Errorf("parse %s: %s", filePath, v.Message)
	}

	p, grammar, err := m.parserFor(lang)
	if err != nil {
		return StructuralSummary{}, err
	}

	// Guard the shared *sitter.Parser: ParseCtx is not safe to call
	// concurrently on the same parser instance. m.mu is one lock for all
	// languages.
	m.mu.Lock()
	tree, err := p.ParseCtx(ctx, nil, content)
	m.mu.Unlock()
	if err != nil {
		return StructuralSummary{}, fmt.Errorf("parse %s: %w", filePath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		m.logger.Warn("parser.syntax_errors", "path", filePath, "language", string(lang))
	}

	summary := StructuralSummary{Language: lang}

	if err := m.captureFunctions(lang, grammar, root, content, &summary); err != nil {
		return StructuralSummary{}, err
	}
	if err := m.captureClasses(lang, grammar, root, content, &summary); err != nil {
		return StructuralSummary{}, err
	}
	if err := m.captureComments(lang, grammar, root, content, &summary); err != nil {
		return StructuralSummary{}, err
	}
	if err := m.captureCalls(lang, grammar, root, content, &summary); err != nil {
		return StructuralSummary{}, err
	}
	summary.Imports = extractImports(lang, root, content)

	return summary, nil
}

// FileInput is one unit of work for AnalyzeMulti.
type FileInput struct {
	Path     string
	Language Language
	Content  []byte
}

// FileResult pairs a FileInput's path with its outcome.
type FileResult struct {
	Path    string
	Summary StructuralSummary
	Err     error
}

// AnalyzeMulti fans out AnalyzeStructure across files using up to
// concurrency worker goroutines (concurrency <= 0 means unbounded up to
// len(files)), and returns results in the same order as the input slice.
// This is C1's multi-file entry point; the review pipeline and the
// dependency-graph build call AnalyzeStructure per file instead.
func (m *Manager) AnalyzeMulti(ctx context.Context, files []FileInput, concurrency int) []FileResult {
	results := make([]FileResult, len(files))
	if concurrency <= 0 || concurrency > len(files) {
		concurrency = len(files)
	}
	if concurrency == 0 {
		return results
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, f := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, f FileInput) {
			defer wg.Done()
			defer func() { <-sem }()
			summary, err := m.AnalyzeStructure(ctx, f.Language, f.Path, f.Content)
			results[i] = FileResult{Path: f.Path, Summary: summary, Err: err}
		}(i, f)
	}
	wg.Wait()
	return results
}
