// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package config loads and defaults GitAI's runtime configuration.
//
// Configuration is YAML, following the same serialization choice the rest
// of this codebase uses for declarative data. Precedence, low to high:
// embedded defaults, a user config file given by --config (no file is read
// when it is empty), then environment variable overrides for the handful of
// fields that are commonly overridden per-invocation (GITAI_LLM_PROVIDER,
// GITAI_LLM_API_KEY, GITAI_CACHE_ROOT).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration object for the GitAI engine and CLI.
type Config struct {
	Parser    ParserConfig    `yaml:"parser"`
	Queries   QueriesConfig   `yaml:"queries"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Review    ReviewConfig    `yaml:"review"`
	Cache     CacheConfig     `yaml:"cache"`
	MCP       MCPConfig       `yaml:"mcp"`
	LLM       LLMConfig       `yaml:"llm"`
}

// ParserConfig controls C1's parser pool.
type ParserConfig struct {
	MaxSourceSizeBytes int      `yaml:"max_source_size_bytes"`
	Languages          []string `yaml:"languages"`
}

// QueriesConfig controls C2's capture-query resolution.
type QueriesConfig struct {
	ConfigPath string `yaml:"config_path"`
}

// AnalyticsConfig controls C4's algorithm parameters.
type AnalyticsConfig struct {
	PageRank      PageRankConfig      `yaml:"pagerank"`
	Impact        ImpactConfig        `yaml:"impact"`
	CriticalPaths CriticalPathsConfig `yaml:"critical_paths"`
}

// PageRankConfig holds PageRank's damping factor, iteration cap, and tolerance.
type PageRankConfig struct {
	Damping       float64 `yaml:"damping"`
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
}

// ImpactConfig holds weighted-impact propagation's parameters.
type ImpactConfig struct {
	InitialMagnitude float64 `yaml:"initial_magnitude"`
	Attenuation      float64 `yaml:"attenuation"`
	Cutoff           float64 `yaml:"cutoff"`
}

// CriticalPathsConfig holds critical-path enumeration's bounds.
type CriticalPathsConfig struct {
	MaxTargets int     `yaml:"max_targets"`
	MaxResults int     `yaml:"max_results"`
	Threshold  float64 `yaml:"threshold"`
}

// ReviewConfig holds timeout settings for C6's external calls. The review
// pipeline does not read them: the AI provider, issue tracker and scanner
// each apply their own built-in timeout.
type ReviewConfig struct {
	AITimeoutSeconds     int `yaml:"ai_timeout_seconds"`
	DevOpsTimeoutSeconds int `yaml:"devops_timeout_seconds"`
	ScanTimeoutSeconds   int `yaml:"scan_timeout_seconds"`
}

// CacheConfig holds C7's disk cache layout and LRU sizing.
type CacheConfig struct {
	Root        string `yaml:"root"`
	TTLSeconds  int64  `yaml:"ttl_seconds"`
	LRUCapacity int    `yaml:"lru_capacity"`
}

// MCPConfig holds C8's dispatcher concurrency and shutdown behavior.
type MCPConfig struct {
	ConcurrencyPermits   int `yaml:"concurrency_permits"`
	QueueCapMultiplier   int `yaml:"queue_cap_multiplier"`
	ShutdownGraceSeconds int `yaml:"shutdown_grace_seconds"`
}

// LLMConfig selects and configures the AI provider (pkg/llm).
type LLMConfig struct {
	Provider     string `yaml:"provider"`
	BaseURL      string `yaml:"base_url"`
	APIKey       string `yaml:"api_key"`
	DefaultModel string `yaml:"default_model"`
}

// Default returns the built-in configuration, matching the defaults named
// throughout SPEC_FULL.md.
func Default() Config {
	return Config{
		Parser: ParserConfig{
			MaxSourceSizeBytes: 2 << 20,
			Languages:          []string{"go", "typescript", "javascript", "python", "rust", "java", "c", "cpp"},
		},
		Analytics: AnalyticsConfig{
			PageRank: PageRankConfig{Damping: 0.85, MaxIterations: 20, Tolerance: 1e-4},
			Impact:   ImpactConfig{InitialMagnitude: 1.0, Attenuation: 0.85, Cutoff: 0.05},
			CriticalPaths: CriticalPathsConfig{
				MaxTargets: 5, MaxResults: 5, Threshold: 0.8,
			},
		},
		Review: ReviewConfig{
			AITimeoutSeconds:     60,
			DevOpsTimeoutSeconds: 30,
			ScanTimeoutSeconds:   300,
		},
		Cache: CacheConfig{
			Root:        "~/.cache/gitai",
			TTLSeconds:  7 * 24 * 3600,
			LRUCapacity: 1000,
		},
		MCP: MCPConfig{
			ConcurrencyPermits:   0,
			QueueCapMultiplier:   2,
			ShutdownGraceSeconds: 5,
		},
		LLM: LLMConfig{Provider: "ollama"},
	}
}

// Load reads a YAML config file at path, merging it over Default(). An
// empty path returns Default() unmodified. Environment variables take the
// highest precedence and are applied after the file merge.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	cfg.normalize()
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GITAI_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("GITAI_CACHE_ROOT"); v != "" {
		cfg.Cache.Root = v
	}
	if v := os.Getenv("GITAI_LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
}

// normalize expands "~" in filesystem paths and fills in a concurrency
// permit count of zero with 4*NumCPU, per spec.md §5.
func (c *Config) normalize() {
	if home, err := os.UserHomeDir(); err == nil {
		c.Cache.Root = expandHome(c.Cache.Root, home)
	}
	if c.MCP.ConcurrencyPermits <= 0 {
		c.MCP.ConcurrencyPermits = 4 * runtime.NumCPU()
	}
}

func expandHome(p, home string) string {
	if p == "~" {
		return home
	}
	if len(p) >= 2 && p[:2] == "~/" {
		return filepath.Join(home, p[2:])
	}
	return p
}
