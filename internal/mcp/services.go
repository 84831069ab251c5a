// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gitai-dev/gitai/internal/depgraph"
	"github.com/gitai-dev/gitai/internal/graphexport"
	"github.com/gitai-dev/gitai/internal/parser"
	"github.com/gitai-dev/gitai/internal/review"
	"github.com/gitai-dev/gitai/pkg/scan"
)

// schema is a tiny helper for the minimal JSON Schema fragments the
// tool surface needs; all arguments here are flat objects with a
// handful of optional string/bool/int properties, so a hand-built
// literal is clearer than a builder API.
func schema(props map[string]string, required ...string) json.RawMessage {
	properties := make(map[string]any, len(props))
	for name, typ := range props {
		properties[name] = map[string]string{"type": typ}
	}
	doc := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	raw, _ := json.Marshal(doc)
	return raw
}

// AnalysisService wraps C1's parser manager as the execute_analysis tool.
type AnalysisService struct {
	Parser *parser.Manager
}

func (s *AnalysisService) Name() string        { return "analysis" }
func (s *AnalysisService) Description() string { return "Structural analysis of a source file via C1" }

func (s *AnalysisService) Tools() []ToolDescriptor {
	return []ToolDescriptor{{
		Name:        "execute_analysis",
		Description: "Parse a source file and return its structural summary (functions, classes, imports)",
		InputSchema: schema(map[string]string{"path": "string", "language": "string", "verbosity": "string"}, "path"),
	}}
}

type analysisArgs struct {
	Path     string `json:"path"`
	Language string `json:"language"`
}

func (s *AnalysisService) HandleToolCall(ctx context.Context, tool string, args json.RawMessage) (json.RawMessage, error) {
	if tool != "execute_analysis" {
		return nil, fmt.Errorf("analysis service does not own tool %q", tool)
	}
	var a analysisArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("bad arguments: %w", err)
	}
	lang, ok := parser.DetectLanguage(filepath.Ext(a.Path))
	if a.Language != "" {
		lang = parser.Language(a.Language)
		ok = true
	}
	if !ok {
		return nil, fmt.Errorf("cannot detect language for %q", a.Path)
	}
	content, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", a.Path, err)
	}
	summary, err := s.Parser.AnalyzeStructure(ctx, lang, a.Path, content)
	if err != nil {
		return nil, fmt.Errorf("analyze %q: %w", a.Path, err)
	}
	return JSONResult(summary)
}

// ScanService wraps the security scanner (pkg/scan) as the execute_scan tool.
type ScanService struct {
	Scanner scan.Scanner
}

func (s *ScanService) Name() string        { return "scan" }
func (s *ScanService) Description() string { return "Run the security scanner over a path" }

func (s *ScanService) Tools() []ToolDescriptor {
	return []ToolDescriptor{{
		Name:        "execute_scan",
		Description: "Run the OpenGrep-compatible security scanner against a path",
		InputSchema: schema(map[string]string{"path": "string", "lang": "string", "timeout": "integer"}, "path"),
	}}
}

type scanArgs struct {
	Path        string `json:"path"`
	Language    string `json:"lang"`
	TimeoutSecs int    `json:"timeout"`
}

func (s *ScanService) HandleToolCall(ctx context.Context, tool string, args json.RawMessage) (json.RawMessage, error) {
	if tool != "execute_scan" {
		return nil, fmt.Errorf("scan service does not own tool %q", tool)
	}
	var a scanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("bad arguments: %w", err)
	}
	opts := scan.Options{Language: a.Language}
	if a.TimeoutSecs > 0 {
		opts.Timeout = time.Duration(a.TimeoutSecs) * time.Second
	}
	result, err := s.Scanner.Scan(ctx, a.Path, opts)
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", a.Path, err)
	}
	return JSONResult(struct {
		Findings []scan.Finding `json:"findings"`
	}{Findings: result.Findings})
}

// ReviewService wraps C6's review orchestrator as the execute_review tool.
type ReviewService struct {
	Orchestrator *review.Orchestrator
}

func (s *ReviewService) Name() string        { return "review" }
func (s *ReviewService) Description() string { return "Run the AI-assisted code review pipeline" }

func (s *ReviewService) Tools() []ToolDescriptor {
	return []ToolDescriptor{{
		Name:        "execute_review",
		Description: "Review a diff (or the current repo state) and return findings, score, and summary",
		InputSchema: schema(map[string]string{
			"diff": "string", "tree_sitter": "boolean", "security_scan": "boolean",
			"deviation_analysis": "boolean", "full": "boolean", "language": "string",
		}),
	}}
}

type reviewArgs struct {
	Diff              string   `json:"diff"`
	TreeSitter        bool     `json:"tree_sitter"`
	SecurityScan      bool     `json:"security_scan"`
	DeviationAnalysis bool     `json:"deviation_analysis"`
	Full              bool     `json:"full"`
	Language          string   `json:"language"`
	IssueIDs          []string `json:"issue_ids"`
}

func (s *ReviewService) HandleToolCall(ctx context.Context, tool string, args json.RawMessage) (json.RawMessage, error) {
	if tool != "execute_review" {
		return nil, fmt.Errorf("review service does not own tool %q", tool)
	}
	var a reviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("bad arguments: %w", err)
	}
	result, err := s.Orchestrator.Review(ctx, a.Diff, review.Options{
		TreeSitter: a.TreeSitter, SecurityScan: a.SecurityScan,
		DeviationAnalysis: a.DeviationAnalysis, Full: a.Full,
		Language: a.Language, IssueIDs: a.IssueIDs,
	})
	if err != nil {
		return nil, err
	}
	return JSONResult(result)
}

// GraphService wraps C3/C4 and internal/graphexport as the dependency-
// graph, call-chain, and image-conversion tools.
type GraphService struct {
	Parser *parser.Manager
}

func (s *GraphService) Name() string        { return "graph" }
func (s *GraphService) Description() string { return "Dependency graph export, call-chain queries, and image conversion" }

func (s *GraphService) Tools() []ToolDescriptor {
	return []ToolDescriptor{
		{
			Name:        "execute_dependency_graph",
			Description: "Build and render the dependency graph for a path",
			InputSchema: schema(map[string]string{
				"path": "string", "format": "string", "output": "string",
				"include_calls": "boolean", "include_imports": "boolean", "verbosity": "string",
			}, "path"),
		},
		{
			Name:        "export_dependency_graph",
			Description: "Alias of execute_dependency_graph for external callers that expect an export-flavored name",
			InputSchema: schema(map[string]string{
				"path": "string", "format": "string", "output": "string",
				"include_calls": "boolean", "include_imports": "boolean", "verbosity": "string",
			}, "path"),
		},
		{
			Name:        "query_call_chain",
			Description: "Find call/dependency chains between two symbols, or outward from one",
			InputSchema: schema(map[string]string{
				"path": "string", "start": "string", "end": "string",
				"direction": "string", "max_depth": "integer", "max_paths": "integer",
			}, "path", "start"),
		},
		{
			Name:        "convert_graph_to_image",
			Description: "Convert DOT graph source into png/svg/pdf via an external layout engine",
			InputSchema: schema(map[string]string{
				"input_format": "string", "input_content": "string",
				"output_format": "string", "output_path": "string", "engine": "string",
			}, "input_content", "output_format", "output_path"),
		},
	}
}

type graphArgs struct {
	Path           string `json:"path"`
	Format         string `json:"format"`
	IncludeCalls   bool   `json:"include_calls"`
	IncludeImports bool   `json:"include_imports"`
}

type callChainArgs struct {
	Path      string `json:"path"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Direction string `json:"direction"`
	MaxDepth  int    `json:"max_depth"`
	MaxPaths  int    `json:"max_paths"`
}

type convertArgs struct {
	InputContent string `json:"input_content"`
	OutputFormat string `json:"output_format"`
	OutputPath   string `json:"output_path"`
	Engine       string `json:"engine"`
}

func (s *GraphService) HandleToolCall(ctx context.Context, tool string, args json.RawMessage) (json.RawMessage, error) {
	switch tool {
	case "execute_dependency_graph", "export_dependency_graph":
		return s.handleDependencyGraph(ctx, args)
	case "query_call_chain":
		return s.handleCallChain(ctx, args)
	case "convert_graph_to_image":
		return s.handleConvert(ctx, args)
	default:
		return nil, fmt.Errorf("graph service does not own tool %q", tool)
	}
}

func (s *GraphService) buildGraph(ctx context.Context, root string) (*depgraph.Graph, error) {
	var graphs []*depgraph.Graph
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		lang, ok := parser.DetectLanguage(filepath.Ext(path))
		if !ok {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		summary, err := s.Parser.AnalyzeStructure(ctx, lang, path, content)
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		graphs = append(graphs, depgraph.BuildFromSummary(rel, summary))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(graphs) == 0 {
		return depgraph.New(), nil
	}
	return depgraph.Merge(graphs...), nil
}

func (s *GraphService) handleDependencyGraph(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var a graphArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("bad arguments: %w", err)
	}
	if a.Format == "" {
		a.Format = string(graphexport.FormatJSON)
	}
	g, err := s.buildGraph(ctx, a.Path)
	if err != nil {
		return nil, fmt.Errorf("build graph for %q: %w", a.Path, err)
	}
	rendered, err := graphexport.Render(g, graphexport.Format(a.Format), graphexport.Options{
		IncludeCalls: a.IncludeCalls, IncludeImports: a.IncludeImports,
	})
	if err != nil {
		return nil, err
	}
	return TextResult(rendered)
}

func (s *GraphService) handleCallChain(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var a callChainArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("bad arguments: %w", err)
	}
	if a.Direction == "" {
		a.Direction = "downstream"
	}
	if a.MaxDepth <= 0 {
		a.MaxDepth = 5
	}
	if a.MaxPaths <= 0 {
		a.MaxPaths = 10
	}
	g, err := s.buildGraph(ctx, a.Path)
	if err != nil {
		return nil, fmt.Errorf("build graph for %q: %w", a.Path, err)
	}
	chains := findChains(g, a.Start, a.End, a.Direction, a.MaxDepth, a.MaxPaths)
	return JSONResult(struct {
		Chains [][]string `json:"chains"`
	}{Chains: chains})
}

// findChains does a depth-bounded DFS from start, following outgoing
// edges for "downstream" or incoming edges for "upstream". When end is
// set, only chains that reach it are kept; otherwise every explored
// chain (up to maxPaths) is returned. Grounded on
// analytics.CriticalPaths' shortestPath/reconstructPath BFS idiom,
// generalized here to enumerate multiple paths rather than just the
// shortest one.
func findChains(g *depgraph.Graph, start, end, direction string, maxDepth, maxPaths int) [][]string {
	var chains [][]string
	var walk func(path []string, visited map[string]bool)
	walk = func(path []string, visited map[string]bool) {
		if len(chains) >= maxPaths {
			return
		}
		current := path[len(path)-1]
		if end != "" && current == end && len(path) > 1 {
			chains = append(chains, append([]string(nil), path...))
			return
		}
		if len(path) > maxDepth {
			if end == "" {
				chains = append(chains, append([]string(nil), path...))
			}
			return
		}
		var edges []depgraph.Edge
		if direction == "upstream" {
			edges = g.In(current)
		} else {
			edges = g.Out(current)
		}
		if len(edges) == 0 && end == "" && len(path) > 1 {
			chains = append(chains, append([]string(nil), path...))
			return
		}
		for _, e := range edges {
			next := e.To
			if direction == "upstream" {
				next = e.From
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			walk(append(path, next), visited)
			delete(visited, next)
			if len(chains) >= maxPaths {
				return
			}
		}
	}
	walk([]string{start}, map[string]bool{start: true})
	return chains
}

func (s *GraphService) handleConvert(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var a convertArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("bad arguments: %w", err)
	}
	if err := graphexport.ToImage(ctx, a.InputContent, graphexport.ImageFormat(a.OutputFormat), a.OutputPath, a.Engine); err != nil {
		return nil, err
	}
	return JSONResult(struct {
		OutputPath string `json:"output_path"`
	}{OutputPath: a.OutputPath})
}
