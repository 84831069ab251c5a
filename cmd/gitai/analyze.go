// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/gitai-dev/gitai/internal/config"
	"github.com/gitai-dev/gitai/internal/errs"
	"github.com/gitai-dev/gitai/internal/output"
	"github.com/gitai-dev/gitai/internal/parser"
	"github.com/gitai-dev/gitai/internal/queryreg"
	"github.com/gitai-dev/gitai/internal/ui"
)

func runAnalyze(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	language := fs.String("language", "", "Force a language instead of detecting from the file extension")
	verbosity := fs.Int("verbosity", 0, "0: summary counts, 1: names, 2: full detail")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: gitai analyze <path> [options]

Parses a single source file and prints its structural summary: functions,
classes, comments, imports, and calls.

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

	cfg, err := config.Load(globals.Config)
	if err != nil {
		errs.FatalError(errs.NewConfigError("failed to load config", err.Error(), "check --config path", err), globals.JSON)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	registry, err := queryreg.New(cfg.Queries.ConfigPath)
	if err != nil {
		errs.FatalError(errs.NewConfigError("failed to load query registry", err.Error(), "check queries.config_path", err), globals.JSON)
	}
	mgr := parser.NewManager(registry, logger)

	lang, ok := parser.DetectLanguage(filepath.Ext(path))
	if *language != "" {
		lang = parser.Language(*language)
		ok = true
	}
	if !ok {
		errs.FatalError(errs.NewInputError("cannot detect language", fmt.Sprintf("unrecognized extension for %q", path), "pass --language explicitly"), globals.JSON)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		errs.FatalError(errs.NewIOError("cannot read file", err.Error(), "check the path exists and is readable", err), globals.JSON)
	}

	summary, err := mgr.AnalyzeStructure(context.Background(), lang, path, content)
	if err != nil {
		errs.FatalError(errs.NewInternalError("analysis failed", err.Error(), "", err), globals.JSON)
	}

	if globals.JSON {
		if err := output.JSON(summary); err != nil {
			errs.FatalError(errs.NewInternalError("failed to encode result", err.Error(), "", err), true)
		}
		return
	}
	printStructuralSummaryHuman(path, summary, *verbosity)
}

func printStructuralSummaryHuman(path string, summary parser.StructuralSummary, verbosity int) {
	ui.Header(path)
	fmt.Printf("%d functions, %d classes, %d comments, %d calls, %d imports\n",
		len(summary.Functions), len(summary.Classes), len(summary.Comments), len(summary.Calls), len(summary.Imports))
	if verbosity < 1 {
		return
	}
	for _, fn := range summary.Functions {
		fmt.Printf("  func %s(%v) %s [%s]\n", fn.Name, fn.Parameters, fn.ReturnType, fn.Visibility)
	}
	for _, cls := range summary.Classes {
		fmt.Printf("  class %s extends %s implements %v\n", cls.Name, cls.Superclass, cls.Interfaces)
	}
	if verbosity < 2 {
		return
	}
	for _, c := range summary.Calls {
		fmt.Printf("  call %s (line %d)\n", c.Callee, c.Line)
	}
	for _, imp := range summary.Imports {
		fmt.Printf("  import %s\n", imp)
	}
}
