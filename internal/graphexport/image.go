// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package graphexport

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// ImageFormat names a raster/vector format ToImage can produce.
type ImageFormat string

const (
	ImagePNG ImageFormat = "png"
	ImageSVG ImageFormat = "svg"
	ImagePDF ImageFormat = "pdf"
)

// ToImage shells out to a Graphviz-compatible layout engine (default
// "dot") to rasterize DOT source into outputFormat, mirroring the
// `convert_graph_to_image` MCP tool's external-engine contract
// (spec.md §6). The engine binary must already be on PATH; GitAI does
// not vendor or install Graphviz itself.
func ToImage(ctx context.Context, dotSource string, outputFormat ImageFormat, outputPath, engine string) error {
	if engine == "" {
		engine = "dot"
	}
	if _, err := exec.LookPath(engine); err != nil {
		return fmt.Errorf("graphexport: layout engine %q not found on PATH: %w", engine, err)
	}

	cmd := exec.CommandContext(ctx, engine, "-T"+string(outputFormat), "-o", outputPath)
	cmd.Stdin = bytes.NewBufferString(dotSource)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("graphexport: %s failed: %w: %s", engine, err, stderr.String())
	}
	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("graphexport: %s did not produce %s: %w", engine, outputPath, err)
	}
	return nil
}
