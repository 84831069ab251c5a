// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitWorkspace_CreatesCacheDir(t *testing.T) {
	dir := t.TempDir()
	cacheRoot := filepath.Join(dir, "cache")

	info, err := InitWorkspace(WorkspaceConfig{CacheRoot: cacheRoot}, nil)
	if err != nil {
		t.Fatalf("InitWorkspace() error: %v", err)
	}
	if info.CacheRoot != cacheRoot {
		t.Errorf("CacheRoot = %q, want %q", info.CacheRoot, cacheRoot)
	}
	if !CacheDirExists(cacheRoot) {
		t.Errorf("CacheDirExists(%q) = false, want true", cacheRoot)
	}
}

func TestInitWorkspace_Idempotent(t *testing.T) {
	dir := t.TempDir()
	cacheRoot := filepath.Join(dir, "cache")

	if _, err := InitWorkspace(WorkspaceConfig{CacheRoot: cacheRoot}, nil); err != nil {
		t.Fatalf("first InitWorkspace() error: %v", err)
	}
	if _, err := InitWorkspace(WorkspaceConfig{CacheRoot: cacheRoot}, nil); err != nil {
		t.Fatalf("second InitWorkspace() error: %v", err)
	}
}

func TestInitWorkspace_WritesQueryOverrideScaffoldOnce(t *testing.T) {
	dir := t.TempDir()
	overridePath := filepath.Join(dir, "queries.toml")

	if _, err := InitWorkspace(WorkspaceConfig{CacheRoot: dir, QueryOverridePath: overridePath}, nil); err != nil {
		t.Fatalf("InitWorkspace() error: %v", err)
	}

	custom := []byte("custom content")
	if err := os.WriteFile(overridePath, custom, 0o644); err != nil {
		t.Fatalf("write custom content: %v", err)
	}

	if _, err := InitWorkspace(WorkspaceConfig{CacheRoot: dir, QueryOverridePath: overridePath}, nil); err != nil {
		t.Fatalf("second InitWorkspace() error: %v", err)
	}

	got, err := os.ReadFile(overridePath)
	if err != nil {
		t.Fatalf("read override: %v", err)
	}
	if string(got) != string(custom) {
		t.Errorf("InitWorkspace overwrote existing override file, got %q", got)
	}
}
