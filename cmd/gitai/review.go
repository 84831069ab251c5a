// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/gitai-dev/gitai/internal/config"
	"github.com/gitai-dev/gitai/internal/diffanalysis"
	"github.com/gitai-dev/gitai/internal/errs"
	"github.com/gitai-dev/gitai/internal/output"
	"github.com/gitai-dev/gitai/internal/parser"
	"github.com/gitai-dev/gitai/internal/queryreg"
	"github.com/gitai-dev/gitai/internal/review"
	"github.com/gitai-dev/gitai/internal/reviewcache"
	"github.com/gitai-dev/gitai/internal/ui"
	"github.com/gitai-dev/gitai/pkg/issues"
	"github.com/gitai-dev/gitai/pkg/llm"
	"github.com/gitai-dev/gitai/pkg/scan"
)

func runReview(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	treeSitter := fs.Bool("tree-sitter", false, "Include a structural (tree-sitter) summary in the review")
	securityScan := fs.Bool("security-scan", false, "Run the security scanner and fold its findings in")
	deviationAnalysis := fs.Bool("deviation-analysis", false, "Include dependency-impact insights")
	full := fs.Bool("full", false, "Enable every optional review stage")
	language := fs.String("language", "", "Force a language instead of detecting per file")
	issueIDs := fs.StringSlice("issue-ids", nil, "Issue-tracker ids to pull context for")
	failOnError := fs.Bool("fail-on-error", false, "Exit 1 if the review finds anything")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: gitai review [options]

Reviews the staged diff, falling back to the working-tree diff and then
the last commit's diff if nothing is staged.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load(globals.Config)
	if err != nil {
		errs.FatalError(errs.NewConfigError("failed to load config", err.Error(), "check --config path and YAML syntax", err), globals.JSON)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	o := buildOrchestrator(cfg, logger)

	opts := review.Options{
		TreeSitter: *treeSitter, SecurityScan: *securityScan,
		DeviationAnalysis: *deviationAnalysis, Full: *full,
		Language: *language, IssueIDs: *issueIDs,
	}

	result, err := o.Review(context.Background(), "", opts)
	if err != nil {
		errs.FatalError(errs.NewNetworkError("review failed", err.Error(), "check AI provider and network connectivity", err), globals.JSON)
	}

	if globals.JSON {
		if err := output.JSON(result); err != nil {
			errs.FatalError(errs.NewInternalError("failed to encode result", err.Error(), "", err), true)
		}
	} else {
		printReviewHuman(result)
	}

	if *failOnError && len(result.Findings) > 0 {
		os.Exit(errs.ExitFindings)
	}
}

func printReviewHuman(result review.Result) {
	ui.Header("Review")
	fmt.Printf("Score: %d\n\n", result.Score)
	if result.Cached {
		ui.Info("served from cache")
	}
	if result.Summary != "" {
		fmt.Println(result.Summary)
	}
	if len(result.Findings) > 0 {
		ui.SubHeader(fmt.Sprintf("Findings (%d)", len(result.Findings)))
		for _, f := range result.Findings {
			fmt.Printf("  [%s] %s %s\n", f.Severity, f.Title, f.Message)
		}
	}
}

func buildOrchestrator(cfg config.Config, logger *slog.Logger) *review.Orchestrator {
	registry, err := queryreg.New(cfg.Queries.ConfigPath)
	if err != nil {
		errs.FatalError(errs.NewConfigError("failed to load query registry", err.Error(), "check queries.config_path", err), false)
	}
	parserMgr := parser.NewManager(registry, logger)

	git := diffanalysis.NewGitReader(".", logger)

	cache := reviewcache.New(cfg.Cache.Root, cfg.Cache.LRUCapacity, cfg.Cache.TTLSeconds)

	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		p, err := llm.NewProvider(llm.ProviderConfig{
			Type: cfg.LLM.Provider, BaseURL: cfg.LLM.BaseURL,
			APIKey: cfg.LLM.APIKey, DefaultModel: cfg.LLM.DefaultModel,
		})
		if err != nil {
			logger.Warn("gitai.llm_provider_unavailable", "err", err)
		} else {
			provider = p
		}
	}

	var tracker issues.Tracker
	if v := os.Getenv("GITAI_ISSUES_BASE_URL"); v != "" {
		tracker = issues.NewHTTPTracker(v, os.Getenv("GITAI_ISSUES_TOKEN"))
	}

	return &review.Orchestrator{
		Git: git, Parser: parserMgr, Cache: cache,
		Scanner: scan.OpenGrepScanner{BinaryPath: resolveScannerBinary()},
		Issues:  tracker, AI: provider, Logger: logger,
		RepoRoot: ".", DefaultModel: cfg.LLM.DefaultModel,
	}
}

func resolveScannerBinary() string {
	if v := os.Getenv("GITAI_SCANNER_BIN"); v != "" {
		return v
	}
	return "opengrep"
}
