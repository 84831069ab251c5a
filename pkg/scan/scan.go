// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package scan invokes an OpenGrep-compatible static analysis tool as an
// external collaborator for GitAI's review pipeline (C6 step 6),
// converting its JSON findings into GitAI's Finding shape.
package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"
)

// Severity mirrors the scanner's own severity vocabulary.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is one issue surfaced by the scanner, grounded field-for-field
// on gitai-security/scanner.rs's Finding struct.
type Finding struct {
	Title       string   `json:"title"`
	FilePath    string   `json:"file_path"`
	Line        int      `json:"line"`
	Column      int      `json:"column"`
	Severity    Severity `json:"severity"`
	RuleID      string   `json:"rule_id,omitempty"`
	CodeSnippet string   `json:"code_snippet,omitempty"`
	Message     string   `json:"message"`
	Remediation string   `json:"remediation,omitempty"`
}

// RulesInfo describes which rule set a scan ran with.
type RulesInfo struct {
	Dir        string   `json:"dir"`
	Sources    []string `json:"sources,omitempty"`
	TotalRules int      `json:"total_rules"`
	UpdatedAt  string   `json:"updated_at,omitempty"`
}

// Result is one scan invocation's outcome.
type Result struct {
	Tool          string    `json:"tool"`
	Version       string    `json:"version,omitempty"`
	ExecutionTime float64   `json:"execution_time"`
	Findings      []Finding `json:"findings"`
	Error         string    `json:"error,omitempty"`
	RulesInfo     *RulesInfo `json:"rules_info,omitempty"`
}

// Options configures one scan invocation.
type Options struct {
	Language string
	Timeout  time.Duration
	Jobs     int
	RulesDir string
}

// Scanner is the interface C6 depends on, so a mock can stand in during
// tests.
type Scanner interface {
	Scan(ctx context.Context, path string, opts Options) (Result, error)
}

// OpenGrepScanner shells out to an `opengrep`-compatible binary, mirroring
// run_opengrep_scan's argument shape (--json --quiet --timeout=N
// [--jobs=N] --use-git-ignore).
type OpenGrepScanner struct {
	// BinaryPath defaults to "opengrep" on PATH when empty.
	BinaryPath string
}

// Scan runs the configured binary against path and parses its JSON
// output into a Result.
func (s OpenGrepScanner) Scan(ctx context.Context, path string, opts Options) (Result, error) {
	start := time.Now()

	bin := s.BinaryPath
	if bin == "" {
		bin = "opengrep"
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}

	args := []string{"--json", "--quiet", fmt.Sprintf("--timeout=%d", int(timeout.Seconds()))}
	if opts.Jobs > 0 {
		args = append(args, fmt.Sprintf("--jobs=%d", opts.Jobs))
	}
	args = append(args, "--use-git-ignore")
	if opts.RulesDir != "" {
		args = append(args, "--config", opts.RulesDir)
	}
	args = append(args, filepath.Clean(path))

	cmd := exec.CommandContext(ctx, bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := Result{Tool: bin, ExecutionTime: time.Since(start).Seconds()}

	if runErr != nil {
		result.Error = stderr.String()
		if result.Error == "" {
			result.Error = runErr.Error()
		}
		return result, fmt.Errorf("%s scan: %s", bin, result.Error)
	}

	var parsed struct {
		Results []Finding `json:"results"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &parsed); err != nil {
		return result, fmt.Errorf("parse %s output: %w", bin, err)
	}
	result.Findings = parsed.Results
	return result, nil
}
