// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/gitai-dev/gitai/internal/errs"
)

const gitaiHookMarker = "# gitai pre-commit review hook"

const preCommitHookContent = gitaiHookMarker + `
# Installed by: gitai install-hook
# Remove with: gitai install-hook --remove

gitai review --fail-on-error
`

// runInstallHook implements 'gitai install-hook': installs (or removes) a
// git pre-commit hook that blocks a commit when the review pipeline
// reports findings. Adapted from cie's post-commit auto-index hook, but
// pre-commit rather than post-commit since a review gate belongs before
// the commit lands, not after.
func runInstallHook(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("install-hook", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing hook")
	remove := fs.Bool("remove", false, "Remove the hook instead of installing")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: gitai install-hook [options]

Installs a git pre-commit hook that runs 'gitai review --fail-on-error',
blocking the commit if the review pipeline finds anything.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	gitDir, err := findGitDir()
	if err != nil {
		errs.FatalError(errs.NewNotFoundError("not a git repository", err.Error(), "run this from inside a git repository"), globals.JSON)
	}
	hookPath := filepath.Join(gitDir, "hooks", "pre-commit")

	if *remove {
		if err := removeGitaiHook(hookPath); err != nil {
			errs.FatalError(errs.NewIOError("failed to remove hook", err.Error(), "", err), globals.JSON)
		}
		fmt.Println("Git hook removed.")
		return
	}

	if err := installGitaiHook(hookPath, *force); err != nil {
		errs.FatalError(errs.NewIOError("failed to install hook", err.Error(), "pass --force to overwrite an existing hook", err), globals.JSON)
	}
	fmt.Printf("Git hook installed: %s\n", hookPath)
}

// findGitDir walks up from the working directory to find .git, following
// a worktree's gitdir pointer file when .git is a file rather than a
// directory.
func findGitDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		gitPath := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitPath); err == nil {
			if info.IsDir() {
				return gitPath, nil
			}
			content, err := os.ReadFile(gitPath)
			if err != nil {
				return "", fmt.Errorf("cannot read .git file: %w", err)
			}
			if gitdir, ok := strings.CutPrefix(strings.TrimSpace(string(content)), "gitdir: "); ok {
				if filepath.IsAbs(gitdir) {
					return gitdir, nil
				}
				return filepath.Join(dir, gitdir), nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("not a git repository (or any parent directory)")
}

func installGitaiHook(hookPath string, force bool) error {
	if err := os.MkdirAll(filepath.Dir(hookPath), 0o755); err != nil {
		return fmt.Errorf("cannot create hooks directory: %w", err)
	}

	if content, err := os.ReadFile(hookPath); err == nil {
		if strings.Contains(string(content), gitaiHookMarker) {
			fmt.Println("gitai hook already installed. Use --force to reinstall.")
			return nil
		}
		if !force {
			return fmt.Errorf("hook already exists at %s; use --force to overwrite", hookPath)
		}
	}

	return os.WriteFile(hookPath, []byte("#!/bin/sh\n"+preCommitHookContent), 0o755)
}

func removeGitaiHook(hookPath string) error {
	content, err := os.ReadFile(hookPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no hook found at %s", hookPath)
		}
		return fmt.Errorf("cannot read hook: %w", err)
	}
	if !strings.Contains(string(content), gitaiHookMarker) {
		return fmt.Errorf("hook at %s was not installed by gitai; remove it manually if needed", hookPath)
	}
	return os.Remove(hookPath)
}
