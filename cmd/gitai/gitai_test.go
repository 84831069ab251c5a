// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gitai-dev/gitai/internal/config"
	"github.com/gitai-dev/gitai/internal/mcp"
	"github.com/gitai-dev/gitai/internal/parser"
	"github.com/gitai-dev/gitai/internal/queryreg"
)

func TestResolveScannerBinary(t *testing.T) {
	t.Run("defaults to opengrep", func(t *testing.T) {
		os.Unsetenv("GITAI_SCANNER_BIN")
		if got := resolveScannerBinary(); got != "opengrep" {
			t.Errorf("resolveScannerBinary() = %q, want %q", got, "opengrep")
		}
	})

	t.Run("honors GITAI_SCANNER_BIN", func(t *testing.T) {
		t.Setenv("GITAI_SCANNER_BIN", "/usr/local/bin/semgrep")
		if got := resolveScannerBinary(); got != "/usr/local/bin/semgrep" {
			t.Errorf("resolveScannerBinary() = %q, want %q", got, "/usr/local/bin/semgrep")
		}
	})
}

func TestRegisterMCPServices_NoToolNameCollisions(t *testing.T) {
	cfg := config.Default()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	d := mcp.NewDispatcher(4, logger)
	if err := registerMCPServices(d, cfg, logger); err != nil {
		t.Fatalf("registerMCPServices: %v", err)
	}
}

func TestBuildDependencyGraph_WalksDirectory(t *testing.T) {
	dir := t.TempDir()
	src := "package main\n\nfunc a() { b() }\n\nfunc b() {}\n"
	if err := os.WriteFile(filepath.Join(dir, "x.go"), []byte(src), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg := config.Default()
	registry, err := queryreg.New(cfg.Queries.ConfigPath)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	mgr := parser.NewManager(registry, logger)

	g, err := buildDependencyGraph(context.Background(), mgr, dir, nil)
	if err != nil {
		t.Fatalf("buildDependencyGraph: %v", err)
	}
	if g == nil {
		t.Fatal("buildDependencyGraph returned a nil graph")
	}
}
