// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package main implements the GitAI CLI: language-aware structural
// analysis, a project-wide dependency graph, an AI-assisted review
// pipeline, and an MCP server exposing the same capabilities to
// remote callers.
//
// Usage:
//
//	gitai review [--tree-sitter] [--security-scan] [--deviation-analysis] [--full] [--language=<lang>] [--issue-ids=<ids>] [--fail-on-error]
//	gitai analyze <path> [--language=<lang>] [--verbosity=<n>]
//	gitai graph <path> [--format=json|dot|mermaid|ascii|svg] [--output=<file>]
//	gitai scan <path> [--lang=<lang>] [--timeout=<seconds>]
//	gitai mcp [--transport=stdio|tcp|http] [--addr=<host:port>] [--metrics-addr=<host:port>]
//	gitai install-hook [--force] [--remove]
//	gitai init [--with-query-overrides]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gitai-dev/gitai/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags carries the options every subcommand shares.
type GlobalFlags struct {
	Config  string
	NoColor bool
	JSON    bool
	Quiet   bool
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		configPath  = flag.String("config", "", "Path to config.yaml (default: none; built-in defaults are used)")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
		jsonOutput  = flag.Bool("json", false, "Print machine-readable JSON instead of human-readable text")
		quiet       = flag.Bool("quiet", false, "Suppress progress output")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `GitAI - structural analysis, dependency graphs, and AI-assisted review

Usage:
  gitai <command> [options]

Commands:
  review        Run the AI-assisted review pipeline over a diff or repo state
  analyze       Structurally analyze a single source file
  graph         Build and render the project dependency graph
  scan          Run the security scanner over a path
  mcp           Start the MCP server (stdio, TCP, or HTTP transport)
  install-hook  Install (or remove) a pre-commit hook that runs 'review --fail-on-error'
  init          Create the review cache directory (and optional query-override scaffold)

Global Options:
  --config      Path to config.yaml
  --no-color    Disable colored output
  --json        Print machine-readable JSON instead of human-readable text
  --quiet       Suppress progress output
  --version     Show version and exit

Examples:
  gitai review --tree-sitter --security-scan
  gitai analyze internal/parser/manager.go
  gitai graph . --format=dot --output=deps.dot
  gitai scan . --lang=go
  gitai mcp --transport=http --addr=:8787

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("gitai version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	ui.InitColors(*noColor)
	globals := GlobalFlags{Config: *configPath, NoColor: *noColor, JSON: *jsonOutput, Quiet: *quiet}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "review":
		runReview(cmdArgs, globals)
	case "analyze":
		runAnalyze(cmdArgs, globals)
	case "graph":
		runGraph(cmdArgs, globals)
	case "scan":
		runScan(cmdArgs, globals)
	case "mcp":
		runMCP(cmdArgs, globals)
	case "install-hook":
		runInstallHook(cmdArgs, globals)
	case "init":
		runInit(cmdArgs, globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
