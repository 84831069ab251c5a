// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package bootstrap handles GitAI workspace initialization.
//
// Unlike the subsystems it drives, GitAI has no database to provision: the
// dependency graph is rebuilt in memory on every run. What bootstrap does
// own is the on-disk state that must exist before the engine can run: the
// review cache root (C7's directory tree) and an optional user query
// override file (C2's highest-precedence source).
//
// # Initialization Workflow
//
//	info, err := bootstrap.InitWorkspace(bootstrap.WorkspaceConfig{
//	    CacheRoot: "~/.cache/gitai",
//	}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("cache ready at: %s\n", info.CacheRoot)
//
// # Idempotency
//
// InitWorkspace is idempotent: calling it repeatedly on the same CacheRoot
// is safe and never discards existing cache entries.
package bootstrap
