// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// WorkspaceConfig holds configuration for initializing a GitAI workspace.
type WorkspaceConfig struct {
	// CacheRoot is the review cache root directory (C7). Defaults to
	// ~/.cache/gitai if empty.
	CacheRoot string

	// QueryOverridePath, if set, is created as an empty scaffold TOML file
	// when it does not already exist, so users have something to edit.
	QueryOverridePath string
}

// WorkspaceInfo describes a successfully initialized workspace.
type WorkspaceInfo struct {
	CacheRoot         string
	QueryOverridePath string
}

// InitWorkspace prepares the on-disk state GitAI needs before it can run:
// the review cache directory tree (C7) and, if requested, a scaffold query
// override file (C2). It is idempotent — existing cache entries and an
// existing override file are left untouched.
func InitWorkspace(cfg WorkspaceConfig, logger *slog.Logger) (*WorkspaceInfo, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cacheRoot := cfg.CacheRoot
	if cacheRoot == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		cacheRoot = filepath.Join(home, ".cache", "gitai")
	}

	logger.Info("bootstrap.workspace.init.start", "cache_root", cacheRoot)

	if err := os.MkdirAll(filepath.Join(cacheRoot, "reviews"), 0o755); err != nil {
		return nil, fmt.Errorf("create cache root: %w", err)
	}

	if cfg.QueryOverridePath != "" {
		if _, err := os.Stat(cfg.QueryOverridePath); os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(cfg.QueryOverridePath), 0o755); err != nil {
				return nil, fmt.Errorf("create query override dir: %w", err)
			}
			if err := os.WriteFile(cfg.QueryOverridePath, []byte(scaffoldQueryOverride), 0o644); err != nil {
				return nil, fmt.Errorf("write query override scaffold: %w", err)
			}
		}
	}

	logger.Info("bootstrap.workspace.init.success", "cache_root", cacheRoot)

	return &WorkspaceInfo{CacheRoot: cacheRoot, QueryOverridePath: cfg.QueryOverridePath}, nil
}

// CacheDirExists reports whether a workspace has already been initialized
// at the given cache root.
func CacheDirExists(cacheRoot string) bool {
	info, err := os.Stat(filepath.Join(cacheRoot, "reviews"))
	return err == nil && info.IsDir()
}

const scaffoldQueryOverride = `# GitAI capture-query overrides.
#
# Each top-level table is a language name; a table that omits a query kind
# inherits the embedded default for that kind. See internal/queryreg.
#
# [go]
# function_query = "..."
`
