// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package diffanalysis implements GitAI's Diff Analyzer (C5): unified
// diff parsing, before/after structural comparison, and breaking-change
// classification driven off git content retrieval.
package diffanalysis

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// GitReader shells out to `git` to retrieve file content and diffs at
// specific refs, mirroring the teacher's DeltaDetector idiom
// (exec.Command with cmd.Dir set to the repo root, *exec.ExitError
// unwrapped for stderr).
type GitReader struct {
	repoPath string
	logger   *slog.Logger
}

// NewGitReader returns a GitReader rooted at repoPath.
func NewGitReader(repoPath string, logger *slog.Logger) *GitReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &GitReader{repoPath: repoPath, logger: logger}
}

// ContentAt returns a file's content at the given commit ref via
// `git show <ref>:<path>`. A missing file at that ref (e.g. the file was
// added in a later commit) returns ("", nil) rather than an error, since
// that's a valid "before" state for a newly added file.
func (g *GitReader) ContentAt(ctx context.Context, ref, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "show", fmt.Sprintf("%s:%s", ref, path))
	cmd.Dir = g.repoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if isMissingPathError(stderr.String()) {
			return "", nil
		}
		return "", fmt.Errorf("git show %s:%s: %s", ref, path, stderr.String())
	}
	return stdout.String(), nil
}

func isMissingPathError(stderr string) bool {
	return strings.Contains(stderr, "does not exist") || strings.Contains(stderr, "exists on disk, but not in")
}

// ChangedFiles lists files that differ between two refs via
// `git diff --name-only`.
func (g *GitReader) ChangedFiles(ctx context.Context, baseRef, headRef string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--name-only", baseRef, headRef)
	cmd.Dir = g.repoPath

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("git diff --name-only: %s", string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("git diff --name-only: %w", err)
	}

	var files []string
	for _, line := range strings.Split(strings.TrimRight(string(output), "\n"), "\n") {
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// UnifiedDiff returns the unified diff text between two refs for a single
// path, via `git diff <base> <head> -- <path>`.
func (g *GitReader) UnifiedDiff(ctx context.Context, baseRef, headRef, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", baseRef, headRef, "--", path)
	cmd.Dir = g.repoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git diff -- %s: %s", path, stderr.String())
	}
	return stdout.String(), nil
}

// RawDiff returns the full unified diff text produced by running git with
// the given arguments (e.g. "diff", "--cached" or "diff" or "show", "HEAD").
func (g *GitReader) RawDiff(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.repoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), stderr.String())
	}
	return stdout.String(), nil
}

// ProbeDiff fetches a diff to review when the caller supplied none,
// trying staged changes, then the working tree, then the last commit, in
// that order, per spec.md §4.6 step 1.
func (g *GitReader) ProbeDiff(ctx context.Context) (string, error) {
	staged, err := g.RawDiff(ctx, "diff", "--cached")
	if err == nil && strings.TrimSpace(staged) != "" {
		return staged, nil
	}

	working, err := g.RawDiff(ctx, "diff")
	if err == nil && strings.TrimSpace(working) != "" {
		return working, nil
	}

	lastCommit, err := g.RawDiff(ctx, "diff", "HEAD~1", "HEAD")
	if err == nil && strings.TrimSpace(lastCommit) != "" {
		return lastCommit, nil
	}

	return "", nil
}
