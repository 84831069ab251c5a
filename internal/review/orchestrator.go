// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package review

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/gitai-dev/gitai/internal/analytics"
	"github.com/gitai-dev/gitai/internal/depgraph"
	"github.com/gitai-dev/gitai/internal/diffanalysis"
	"github.com/gitai-dev/gitai/internal/parser"
	"github.com/gitai-dev/gitai/internal/reviewcache"
	"github.com/gitai-dev/gitai/pkg/issues"
	"github.com/gitai-dev/gitai/pkg/llm"
	"github.com/gitai-dev/gitai/pkg/scan"
)

const centralityFindingThreshold = 0.15

// GitProbe is the subset of *diffanalysis.GitReader the orchestrator
// needs for step 1's empty-diff probe.
type GitProbe interface {
	ProbeDiff(ctx context.Context) (string, error)
}

// Orchestrator wires C1, C3, C4, C5's parsing helpers, C7, the external
// scanner, issue tracker and LLM provider into the review(diff, options)
// pipeline described by spec.md §4.6.
type Orchestrator struct {
	Git     GitProbe
	Parser  *parser.Manager
	Cache   *reviewcache.Cache
	Scanner scan.Scanner
	Issues  issues.Tracker
	AI      llm.Provider
	Logger  *slog.Logger

	// RepoRoot is where changed-file paths are resolved from disk for the
	// dependency-insights stage (step 5).
	RepoRoot string

	DefaultModel string
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Review runs the full pipeline. Each optional stage is best-effort: a
// failure is logged at warn level (structural-parse, security-scan and
// issue-fetch failures are also noted in Result.Details), but does not
// abort the review (spec.md §4.6's Failure semantics), except
// for the AI call itself which is fatal.
func (o *Orchestrator) Review(ctx context.Context, diff string, opts Options) (Result, error) {
	details := map[string]string{}
	if opts.Full {
		opts.TreeSitter = true
		opts.SecurityScan = true
		opts.DeviationAnalysis = true
	}

	// Step 1: probe for a diff if none was supplied.
	if diff == "" {
		if o.Git == nil {
			return Result{}, fmt.Errorf("no diff supplied and no git probe configured")
		}
		probed, err := o.Git.ProbeDiff(ctx)
		if err != nil {
			o.logger().Warn("review.probe_failed", "err", err)
		}
		if probed == "" {
			return Result{
				Success: true, Score: 100,
				Summary: "没有需要评审的代码变更",
				Message: "no changes detected to review",
				Details: details,
			}, nil
		}
		diff = probed
	}

	// Step 2: cache consult.
	key := reviewcache.DeriveKey(diff, opts.TreeSitter, opts.SecurityScan, opts.DeviationAnalysis, opts.Language, PromptVersion)
	if o.Cache != nil {
		if entry, ok := o.Cache.Get(key); ok {
			return Result{
				Success: true, Summary: entry.Payload, Score: 85,
				Cached: true, Details: details,
			}, nil
		}
	}

	fileDiffs := diffanalysis.ParseUnifiedDiff(diff)

	// Step 3: structural summary (best-effort, per file language).
	var structuralText string
	if opts.TreeSitter && o.Parser != nil {
		structuralText = o.buildStructuralSummary(ctx, fileDiffs, details)
	}

	// Step 4 + 5: dependency insights via C3/C4.
	var findings []Finding
	var depInsights string
	if opts.DeviationAnalysis || opts.Full {
		depInsights, findings = o.buildDependencyInsights(ctx, fileDiffs, details)
	}

	// Step 6: security scan.
	if opts.SecurityScan && o.Scanner != nil {
		findings = append(findings, o.runSecurityScan(ctx, details)...)
	}

	// Step 7: issue context.
	var issueContext string
	if (len(opts.IssueIDs) > 0 || opts.DeviationAnalysis) && o.Issues != nil {
		issueContext = o.fetchIssueContext(ctx, opts, details)
	}

	// Step 8: assemble prompt.
	prompt, err := BuildPrompt(PromptInput{
		Diff: diff, Structural: structuralText,
		DependencyInsights: depInsights, IssueContext: issueContext,
	})
	if err != nil {
		return Result{}, fmt.Errorf("build prompt: %w", err)
	}

	// Step 9: call AI. If unavailable, synthesize a degraded summary.
	var summary string
	if o.AI == nil {
		summary = degradedSummary(structuralText, depInsights, issueContext)
		details["ai"] = "unavailable, degraded summary synthesized"
	} else {
		resp, err := o.AI.Chat(ctx, llm.ChatRequest{
			Messages: llm.BuildChatMessages(llm.SystemPrompts.CodeReview, prompt),
			Model:    o.DefaultModel,
		})
		if err != nil {
			return Result{}, fmt.Errorf("ai chat: %w", err)
		}
		summary = resp.Message.Content
	}

	// Step 10: score extraction and penalties.
	score := ApplyPenalties(ExtractScore(summary), findings)

	// Step 11: cache fill.
	if o.Cache != nil {
		if err := o.Cache.Put(key, opts.Language, summary); err != nil {
			o.logger().Warn("review.cache_put_failed", "err", err)
		}
	}

	return Result{
		Success: true, Summary: summary, Details: details,
		Findings: findings, Score: score,
	}, nil
}

func (o *Orchestrator) buildStructuralSummary(ctx context.Context, fileDiffs []diffanalysis.FileDiff, details map[string]string) string {
	var out string
	for _, fd := range fileDiffs {
		lang, ok := parser.DetectLanguage(filepath.Ext(fd.NewPath))
		if !ok {
			continue
		}
		content, err := os.ReadFile(filepath.Join(o.RepoRoot, fd.NewPath))
		if err != nil {
			o.logger().Warn("review.structural_read_failed", "path", fd.NewPath, "err", err)
			continue
		}
		summary, err := o.Parser.AnalyzeStructure(ctx, lang, fd.NewPath, content)
		if err != nil {
			o.logger().Warn("review.structural_parse_failed", "path", fd.NewPath, "err", err)
			details["structural"] = "partial: one or more files failed to parse"
			continue
		}
		out += fmt.Sprintf("%s (%s): %d functions, %d classes\n", fd.NewPath, lang, len(summary.Functions), len(summary.Classes))
	}
	return out
}

func (o *Orchestrator) buildDependencyInsights(ctx context.Context, fileDiffs []diffanalysis.FileDiff, details map[string]string) (string, []Finding) {
	var graphs []*depgraph.Graph
	var changedNodeIDs []string

	for _, fd := range fileDiffs {
		lang, ok := parser.DetectLanguage(filepath.Ext(fd.NewPath))
		if !ok || o.Parser == nil {
			continue
		}
		content, err := os.ReadFile(filepath.Join(o.RepoRoot, fd.NewPath))
		if err != nil {
			continue
		}
		summary, err := o.Parser.AnalyzeStructure(ctx, lang, fd.NewPath, content)
		if err != nil {
			o.logger().Warn("review.dependency_parse_failed", "path", fd.NewPath, "err", err)
			continue
		}
		g := depgraph.BuildFromSummary(fd.NewPath, summary)
		graphs = append(graphs, g)
		for _, n := range g.Nodes() {
			changedNodeIDs = append(changedNodeIDs, n.ID)
		}
	}

	if len(graphs) == 0 {
		details["dependencies"] = "no parseable changed files"
		return "", nil
	}

	graph := depgraph.Merge(graphs...)
	ranks := analytics.PageRank(graph, 0.85, 20, 1e-4)

	topRanks := topN(ranks, 5)
	var findings []Finding
	var b string
	b += fmt.Sprintf("top PageRank nodes: %v\n", topRanks)

	for _, id := range changedNodeIDs {
		c := analytics.Centrality(graph, id)
		if c > centralityFindingThreshold {
			findings = append(findings, Finding{
				Title: criticalNodeFindingTitle, Severity: SeverityHigh,
				Message: fmt.Sprintf("node %s has centrality %.2f exceeding threshold %.2f", id, c, centralityFindingThreshold),
			})
		}
	}

	var topImpacted []string
	for _, id := range changedNodeIDs {
		scope := analytics.ImpactScope(graph, id, 3)
		for _, s := range scope {
			topImpacted = append(topImpacted, s.NodeID)
		}
	}
	if len(topImpacted) > 5 {
		topImpacted = topImpacted[:5]
	}
	b += fmt.Sprintf("top impacted nodes: %v\n", topImpacted)

	return b, findings
}

func (o *Orchestrator) runSecurityScan(ctx context.Context, details map[string]string) []Finding {
	result, err := o.Scanner.Scan(ctx, o.RepoRoot, scan.Options{})
	if err != nil {
		o.logger().Warn("review.security_scan_failed", "err", err)
		details["security"] = "scan failed: " + err.Error()
		return nil
	}
	findings := make([]Finding, 0, len(result.Findings))
	for _, f := range result.Findings {
		findings = append(findings, Finding{
			Title: f.Title, Severity: mapScanSeverity(f.Severity),
			FilePath: f.FilePath, Line: f.Line, Column: f.Column,
			CodeSnippet: f.CodeSnippet, Message: f.Message,
			RuleID: f.RuleID, Recommendation: f.Remediation,
		})
	}
	return findings
}

func mapScanSeverity(s scan.Severity) Severity {
	switch s {
	case scan.SeverityError:
		return SeverityHigh
	case scan.SeverityWarning:
		return SeverityMedium
	default:
		return SeverityInfo
	}
}

func (o *Orchestrator) fetchIssueContext(ctx context.Context, opts Options, details map[string]string) string {
	fetched, err := o.Issues.GetIssues(ctx, opts.IssueIDs, opts.SpaceID)
	if err != nil {
		o.logger().Warn("review.issue_fetch_failed", "err", err)
		details["issues"] = "fetch failed: " + err.Error()
		return ""
	}
	return issues.FormatContext(fetched)
}

func degradedSummary(structural, deps, issueCtx string) string {
	summary := "AI provider unavailable; degraded summary assembled from available sections.\n"
	if structural != "" {
		summary += "\nStructural analysis:\n" + structural
	}
	if deps != "" {
		summary += "\nDependency insights:\n" + deps
	}
	if issueCtx != "" {
		summary += "\nIssue context:\n" + issueCtx
	}
	return summary
}

func topN(ranks map[string]float64, n int) []string {
	type kv struct {
		id   string
		rank float64
	}
	items := make([]kv, 0, len(ranks))
	for id, r := range ranks {
		items = append(items, kv{id, r})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].rank != items[j].rank {
			return items[i].rank > items[j].rank
		}
		return items[i].id < items[j].id
	})
	if len(items) > n {
		items = items[:n]
	}
	out := make([]string, len(items))
	for i, kv := range items {
		out[i] = kv.id
	}
	return out
}

