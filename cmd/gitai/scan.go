// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/gitai-dev/gitai/internal/errs"
	"github.com/gitai-dev/gitai/internal/output"
	"github.com/gitai-dev/gitai/internal/ui"
	"github.com/gitai-dev/gitai/pkg/scan"
)

func runScan(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	lang := fs.String("lang", "", "Restrict the rule set to a language")
	timeoutSecs := fs.Int("timeout", 0, "Scan timeout in seconds (default 300)")
	jobs := fs.Int("jobs", 0, "Parallel job count (scanner default if 0)")
	rulesDir := fs.String("rules-dir", "", "Custom rules directory")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: gitai scan <path> [options]

Runs the OpenGrep-compatible security scanner against a path and prints
its findings.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(errs.ExitInput)
	}
	path := fs.Arg(0)

	opts := scan.Options{Language: *lang, Jobs: *jobs, RulesDir: *rulesDir}
	if *timeoutSecs > 0 {
		opts.Timeout = time.Duration(*timeoutSecs) * time.Second
	}

	scanner := scan.OpenGrepScanner{BinaryPath: resolveScannerBinary()}
	result, err := scanner.Scan(context.Background(), path, opts)
	if err != nil {
		errs.FatalError(errs.NewNetworkError("scan failed", err.Error(), "check the scanner binary is installed and on PATH", err), globals.JSON)
	}

	if globals.JSON {
		if err := output.JSON(result); err != nil {
			errs.FatalError(errs.NewInternalError("failed to encode result", err.Error(), "", err), true)
		}
		return
	}

	ui.Header(fmt.Sprintf("Scan: %s", path))
	if result.Error != "" {
		ui.Warning(result.Error)
	}
	fmt.Printf("%d findings (%s, %.2fs)\n", len(result.Findings), result.Tool, result.ExecutionTime)
	for _, f := range result.Findings {
		fmt.Printf("  [%s] %s:%d %s\n", f.Severity, f.FilePath, f.Line, f.Title)
		if f.Message != "" {
			fmt.Printf("      %s\n", f.Message)
		}
	}
	if len(result.Findings) > 0 {
		os.Exit(errs.ExitFindings)
	}
}
