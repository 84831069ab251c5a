// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/gitai-dev/gitai/internal/bootstrap"
	"github.com/gitai-dev/gitai/internal/config"
	"github.com/gitai-dev/gitai/internal/errs"
	"github.com/gitai-dev/gitai/internal/output"
)

// runInit implements 'gitai init': prepares the on-disk state GitAI needs
// before it can run, namely C7's review cache directory tree and, when
// requested, a scaffold C2 query-override file.
func runInit(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	withQueryOverride := fs.Bool("with-query-overrides", false, "Also scaffold a query-override file at queries.config_path")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: gitai init [options]

Creates the review cache directory (C7) and, optionally, a scaffold
query-override file (C2) for the active config. Safe to run repeatedly.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load(globals.Config)
	if err != nil {
		errs.FatalError(errs.NewConfigError("failed to load config", err.Error(), "check --config path", err), globals.JSON)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	wsCfg := bootstrap.WorkspaceConfig{CacheRoot: cfg.Cache.Root}
	if *withQueryOverride {
		wsCfg.QueryOverridePath = cfg.Queries.ConfigPath
	}

	info, err := bootstrap.InitWorkspace(wsCfg, logger)
	if err != nil {
		errs.FatalError(errs.NewIOError("failed to initialize workspace", err.Error(), "", err), globals.JSON)
	}

	if globals.JSON {
		if err := output.JSON(info); err != nil {
			errs.FatalError(errs.NewInternalError("failed to encode result", err.Error(), "", err), true)
		}
		return
	}

	fmt.Printf("Review cache ready at %s\n", info.CacheRoot)
	if info.QueryOverridePath != "" {
		fmt.Printf("Query override scaffold at %s\n", info.QueryOverridePath)
	}
}
