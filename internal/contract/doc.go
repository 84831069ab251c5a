// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package contract provides input-size validation shared by the CLI and
// the MCP dispatcher.
//
// GitAI enforces a soft limit on the inputs it will attempt to parse or
// diff, to avoid pulling pathologically large buffers through tree-sitter
// or the diff analyzer:
//
//	limit := contract.SoftLimitBytes()
//
//	result := contract.ValidateSourceSize(sourceBytes)
//	if !result.OK {
//	    log.Printf("rejected: %s", result.Message)
//	}
//
// The soft limit can be adjusted via the GITAI_SOFT_LIMIT_BYTES environment
// variable; an unset or invalid value falls back to DefaultSoftLimitBytes
// (64 MiB).
package contract
