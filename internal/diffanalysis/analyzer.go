// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package diffanalysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gitai-dev/gitai/internal/parser"
)

// StructureAnalyzer is the subset of *parser.Manager the analyzer needs.
type StructureAnalyzer interface {
	AnalyzeStructure(ctx context.Context, lang parser.Language, filePath string, content []byte) (parser.StructuralSummary, error)
}

// Analyzer ties git content retrieval to C1's structural analysis,
// producing before/after StructuralDiffs for every changed file.
// Grounded on git_state_analyzer.rs's GitStateAnalyzer: lazy structural
// analysis of both commit states, independent before/after error
// handling so one file's parse failure doesn't abort the batch.
type Analyzer struct {
	git     *GitReader
	parser  StructureAnalyzer
	logger  *slog.Logger
}

// NewAnalyzer constructs an Analyzer.
func NewAnalyzer(git *GitReader, p StructureAnalyzer, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{git: git, parser: p, logger: logger}
}

// FileAnalysis is one file's full before/after comparison result, or a
// heuristic-only result when a structural summary could not be produced
// for one or both sides (binary files, unsupported language, parse
// error).
type FileAnalysis struct {
	Path       string
	Status     FileStatus
	Structural *StructuralDiff
	Heuristic  []HeuristicSymbol
	Err        error
}

// AnalyzeChangedFiles computes before/after structural comparisons for
// every file that differs between baseRef and headRef. Each file is
// analyzed independently: a failure analyzing one file's before or after
// state does not stop analysis of the rest (mirrors
// analyze_all_changed_files's independent per-file error handling).
func (a *Analyzer) AnalyzeChangedFiles(ctx context.Context, baseRef, headRef string) ([]FileAnalysis, error) {
	files, err := a.git.ChangedFiles(ctx, baseRef, headRef)
	if err != nil {
		return nil, fmt.Errorf("list changed files: %w", err)
	}

	results := make([]FileAnalysis, 0, len(files))
	for _, path := range files {
		results = append(results, a.analyzeFile(ctx, baseRef, headRef, path))
	}
	return results, nil
}

func (a *Analyzer) analyzeFile(ctx context.Context, baseRef, headRef, path string) FileAnalysis {
	lang, ok := parser.DetectLanguage(extOf(path))
	diffText, err := a.git.UnifiedDiff(ctx, baseRef, headRef, path)
	if err != nil {
		return FileAnalysis{Path: path, Err: err}
	}

	fds := ParseUnifiedDiff(diffText)
	status := StatusModified
	var fd FileDiff
	if len(fds) > 0 {
		fd = fds[0]
		status = ClassifyFileStatus(diffText)
	}

	result := FileAnalysis{Path: path, Status: status}

	if !ok {
		result.Heuristic = ExtractHeuristicSymbols(fd, "")
		return result
	}

	before, beforeErr := a.structureAt(ctx, baseRef, path, lang)
	after, afterErr := a.structureAt(ctx, headRef, path, lang)

	if beforeErr != nil || afterErr != nil {
		a.logger.Warn("diffanalysis.structural_summary_unavailable",
			"path", path, "before_err", beforeErr, "after_err", afterErr)
		result.Heuristic = ExtractHeuristicSymbols(fd, string(lang))
		return result
	}

	diff := CompareStructure(before, after)
	result.Structural = &diff
	return result
}

func (a *Analyzer) structureAt(ctx context.Context, ref, path string, lang parser.Language) (parser.StructuralSummary, error) {
	content, err := a.git.ContentAt(ctx, ref, path)
	if err != nil {
		return parser.StructuralSummary{}, err
	}
	if content == "" {
		return parser.StructuralSummary{Language: lang}, nil
	}
	return a.parser.AnalyzeStructure(ctx, lang, path, []byte(content))
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i:]
		}
		if path[i] == '/' {
			break
		}
	}
	return ""
}
