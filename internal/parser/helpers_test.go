// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package parser

import (
	"context"
	"testing"

	"github.com/gitai-dev/gitai/internal/queryreg"
)

func mustRegistry(t *testing.T) *queryreg.Registry {
	t.Helper()
	r, err := queryreg.New("")
	if err != nil {
		t.Fatalf("queryreg.New: %v", err)
	}
	return r
}

func testContext() context.Context {
	return context.Background()
}
