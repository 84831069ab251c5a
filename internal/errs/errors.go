// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package errs provides structured error handling for the GitAI CLI and
// the engine packages it drives.
//
// It defines UserError, a type that carries structured error information
// including what went wrong, why it happened, and how to fix it, plus a
// set of exit codes shared by the CLI's command handlers and the MCP
// dispatcher's internal-error boundary.
//
// # Usage Example
//
//	err := errs.NewConfigError(
//	    "cannot load query registry",
//	    "queries.toml is missing the 'go' table",
//	    "run 'gitai init --with-query-overrides' to write a scaffold queries.toml",
//	    underlyingErr,
//	)
//	if err != nil {
//	    errs.FatalError(err, false)
//	}
//
// # Formatted Output
//
//	fmt.Fprint(os.Stderr, err.Format(false))
//	// Error: cannot load query registry
//	// Cause: queries.toml is missing the 'go' table
//	// Fix:   run 'gitai init --with-query-overrides' to write a scaffold queries.toml
//
// # Exit Codes
//
// The package follows spec.md's CLI exit codes (0/1/2/3) for the
// cases the specification names explicitly, and extends them with finer
// categories for errors raised deep inside the engine and caught at the
// MCP dispatcher boundary:
//   - ExitSuccess (0): successful execution
//   - ExitFindings (1): review produced findings under --fail-on-error
//   - ExitConfig (2): configuration error
//   - ExitIO (3): I/O error (cache, query file, diff file)
//   - ExitNetwork (4): AI provider, issue tracker, or scanner network failure
//   - ExitInput (5): invalid user input (bad flags, bad diff)
//   - ExitPermission (6): file permission denied
//   - ExitNotFound (7): a named resource does not exist
//   - ExitInternal (10): invariant violation, should never happen
package errs

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Exit codes for different error categories.
const (
	ExitSuccess    = 0
	ExitFindings   = 1
	ExitConfig     = 2
	ExitIO         = 3
	ExitNetwork    = 4
	ExitInput      = 5
	ExitPermission = 6
	ExitNotFound   = 7
	ExitInternal   = 10
)

// UserError represents an error with structured context for end users.
//
// It provides three levels of information: Message (what went wrong),
// Cause (why it happened), and Fix (how to resolve it), plus an exit code
// for consistent CLI exit behavior and an optional wrapped error for
// errors.Is/errors.As compatibility.
type UserError struct {
	Message  string
	Cause    string
	Fix      string
	ExitCode int
	Err      error
}

// Error implements the error interface.
func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements error unwrapping for errors.Is/errors.As.
func (e *UserError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a configuration error with exit code ExitConfig.
func NewConfigError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitConfig, Err: err}
}

// NewIOError creates an I/O error with exit code ExitIO.
//
// Use this for cache, query-config, or diff-file read/write failures.
func NewIOError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitIO, Err: err}
}

// NewNetworkError creates a network error with exit code ExitNetwork.
//
// Use this for AI provider, issue-tracker, or scanner-subprocess failures.
func NewNetworkError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitNetwork, Err: err}
}

// NewInputError creates an input validation error with exit code ExitInput.
//
// Input errors typically do not wrap an underlying error.
func NewInputError(msg, cause, fix string) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitInput}
}

// NewPermissionError creates a permission-denied error with exit code ExitPermission.
func NewPermissionError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitPermission, Err: err}
}

// NewNotFoundError creates a resource-not-found error with exit code ExitNotFound.
//
// Not-found errors typically do not wrap an underlying error.
func NewNotFoundError(msg, cause, fix string) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitNotFound}
}

// NewInternalError creates an internal error with exit code ExitInternal.
//
// Use this for invariant violations caught at the MCP dispatcher boundary
// or main()'s top-level recover.
func NewInternalError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitInternal, Err: err}
}

// NewFindingsError creates a "review produced findings" pseudo-error with
// exit code ExitFindings, used only when --fail-on-error is set.
func NewFindingsError(msg string) *UserError {
	return &UserError{Message: msg, ExitCode: ExitFindings}
}

// Color definitions for error formatting.
var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format returns a formatted error message for terminal display.
//
// Color output respects the NO_COLOR environment variable and can be
// explicitly disabled with the noColor parameter. Empty Cause or Fix
// fields are omitted.
//
// Note: this method temporarily modifies the global color.NoColor state
// and restores it after formatting, so concurrent Format calls from
// different goroutines should not be assumed to interleave safely with
// other color.NoColor mutations elsewhere in the process.
func (e *UserError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprint("Error: "))
	out.WriteString(e.Message)
	out.WriteString("\n")

	if e.Cause != "" {
		out.WriteString(colorCause.Sprint("Cause: "))
		out.WriteString(e.Cause)
		out.WriteString("\n")
	}

	if e.Fix != "" {
		out.WriteString(colorFix.Sprint("Fix:   "))
		out.WriteString(e.Fix)
		out.WriteString("\n")
	}

	return out.String()
}

// ErrorJSON represents error information in JSON format, for --json mode.
type ErrorJSON struct {
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// ToJSON converts the UserError to a JSON-serializable structure.
func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{Error: e.Message, Cause: e.Cause, Fix: e.Fix, ExitCode: e.ExitCode}
}

// FatalError prints the error and exits with the appropriate code.
//
// For a *UserError it uses Format() or ToJSON() depending on jsonOutput.
// For any other error type it prints a plain message and exits ExitInternal.
// A nil err is ignored; for any other error this function never returns.
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}

	if ue, ok := err.(*UserError); ok {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			_ = enc.Encode(ue.ToJSON())
		} else {
			fmt.Fprint(os.Stderr, ue.Format(false))
		}
		os.Exit(ue.ExitCode)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitInternal)
}
