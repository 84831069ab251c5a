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
	"github.com/schollz/progressbar/v3"

	"github.com/gitai-dev/gitai/internal/config"
	"github.com/gitai-dev/gitai/internal/depgraph"
	"github.com/gitai-dev/gitai/internal/errs"
	"github.com/gitai-dev/gitai/internal/graphexport"
	"github.com/gitai-dev/gitai/internal/parser"
	"github.com/gitai-dev/gitai/internal/queryreg"
)

func runGraph(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	format := fs.String("format", "json", "Output format: json|dot|mermaid|ascii|svg|png|pdf")
	output := fs.String("output", "", "Write the render to this file instead of stdout")
	includeCalls := fs.Bool("include-calls", true, "Include call edges")
	includeImports := fs.Bool("include-imports", true, "Include import edges")
	engine := fs.String("engine", "dot", "Graphviz-compatible binary to shell out to for image formats")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: gitai graph <path> [options]

Walks the path, parses every recognized source file, and builds the
project dependency graph (imports and calls), rendering it in the
requested format.

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
	root := fs.Arg(0)

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

	spinner := NewSpinner(NewProgressConfig(globals), "Walking "+root)
	g, err := buildDependencyGraph(context.Background(), mgr, root, spinner)
	if spinner != nil {
		_ = spinner.Finish()
	}
	if err != nil {
		errs.FatalError(errs.NewInternalError("failed to build dependency graph", err.Error(), "", err), globals.JSON)
	}

	opts := graphexport.Options{IncludeCalls: *includeCalls, IncludeImports: *includeImports}

	switch graphexport.ImageFormat(*format) {
	case graphexport.ImageSVG, graphexport.ImagePNG, graphexport.ImagePDF:
		dot, err := graphexport.Render(g, graphexport.FormatDOT, opts)
		if err != nil {
			errs.FatalError(errs.NewInternalError("failed to render dot source", err.Error(), "", err), globals.JSON)
		}
		if *output == "" {
			errs.FatalError(errs.NewInputError("image formats require --output", "no output path given", "pass --output=<file>"), globals.JSON)
		}
		if err := graphexport.ToImage(context.Background(), dot, graphexport.ImageFormat(*format), *output, *engine); err != nil {
			errs.FatalError(errs.NewInternalError("image conversion failed", err.Error(), "check the "+*engine+" binary is installed", err), globals.JSON)
		}
		return
	}

	rendered, err := graphexport.Render(g, graphexport.Format(*format), opts)
	if err != nil {
		errs.FatalError(errs.NewInputError("unsupported format", err.Error(), "use json|dot|mermaid|ascii|svg|png|pdf"), globals.JSON)
	}
	if *output != "" {
		if err := os.WriteFile(*output, []byte(rendered), 0o644); err != nil {
			errs.FatalError(errs.NewIOError("failed to write output file", err.Error(), "check the path is writable", err), globals.JSON)
		}
		return
	}
	fmt.Println(rendered)
}

func buildDependencyGraph(ctx context.Context, mgr *parser.Manager, root string, spinner *progressbar.ProgressBar) (*depgraph.Graph, error) {
	var graphs []*depgraph.Graph
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if spinner != nil {
			_ = spinner.Add(1)
		}
		lang, ok := parser.DetectLanguage(filepath.Ext(path))
		if !ok {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		summary, analyzeErr := mgr.AnalyzeStructure(ctx, lang, path, content)
		if analyzeErr != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
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
