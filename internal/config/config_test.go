// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_MatchesSpecConstants(t *testing.T) {
	cfg := Default()

	if cfg.Analytics.PageRank.Damping != 0.85 {
		t.Errorf("PageRank damping = %v, want 0.85", cfg.Analytics.PageRank.Damping)
	}
	if cfg.Analytics.Impact.Attenuation != 0.85 {
		t.Errorf("Impact attenuation = %v, want 0.85", cfg.Analytics.Impact.Attenuation)
	}
	if cfg.Analytics.Impact.Cutoff != 0.05 {
		t.Errorf("Impact cutoff = %v, want 0.05", cfg.Analytics.Impact.Cutoff)
	}
	if cfg.Analytics.CriticalPaths.Threshold != 0.8 {
		t.Errorf("CriticalPaths threshold = %v, want 0.8", cfg.Analytics.CriticalPaths.Threshold)
	}
	if cfg.Cache.TTLSeconds != 7*24*3600 {
		t.Errorf("Cache TTL = %v, want 604800", cfg.Cache.TTLSeconds)
	}
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("LLM.Provider = %q, want ollama", cfg.LLM.Provider)
	}
}

func TestLoad_FileOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "llm:\n  provider: anthropic\n  default_model: claude\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("LLM.Provider = %q, want anthropic", cfg.LLM.Provider)
	}
	if cfg.Analytics.PageRank.Damping != 0.85 {
		t.Errorf("unset fields should retain defaults, got damping=%v", cfg.Analytics.PageRank.Damping)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("llm:\n  provider: anthropic\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GITAI_LLM_PROVIDER", "mock")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LLM.Provider != "mock" {
		t.Errorf("LLM.Provider = %q, want mock", cfg.LLM.Provider)
	}
}

func TestNormalize_DefaultsConcurrencyPermits(t *testing.T) {
	cfg := Default()
	cfg.MCP.ConcurrencyPermits = 0
	cfg.normalize()
	if cfg.MCP.ConcurrencyPermits <= 0 {
		t.Errorf("ConcurrencyPermits = %d, want > 0 after normalize", cfg.MCP.ConcurrencyPermits)
	}
}
