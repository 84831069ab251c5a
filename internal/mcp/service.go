// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package mcp implements GitAI's Model-Context-Protocol dispatcher (C8):
// tool registration across services, JSON-RPC 2.0 dispatch for
// tools/list and tools/call, a bounded concurrency semaphore, and
// stdio/TCP/HTTP transports.
package mcp

import (
	"context"
	"encoding/json"
)

// ToolDescriptor advertises one callable tool: its name, a human
// description, and a JSON Schema describing its arguments object.
// Dispatcher and transports hold borrowed references to descriptors for
// the lifetime of the server (spec.md §4's MCP Tool Descriptor entry).
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// Service is the registration trait spec.md §4.8 describes:
// "{ name(), description(), tools() -> list<ToolDescriptor>,
// handle_tool_call(name, json_args) -> async Result<json> }". Each of
// GitAI's engine packages (C1 parser, C3/C4 dependency graph and
// analytics, C6 review orchestration, scanner) is exposed to MCP callers by wrapping
// it in a Service implementation rather than by modifying the package
// itself.
type Service interface {
	Name() string
	Description() string
	Tools() []ToolDescriptor
	HandleToolCall(ctx context.Context, tool string, args json.RawMessage) (json.RawMessage, error)
}

// Content is one element of a tools/call success response's content
// array (spec.md §6: `{ content: [ { json?: any, text?: string } ] }`).
type Content struct {
	JSON json.RawMessage `json:"json,omitempty"`
	Text string          `json:"text,omitempty"`
}

// CallResult wraps a tool's output as the content array the JSON-RPC
// response envelope expects.
type CallResult struct {
	Content []Content `json:"content"`
}

// JSONResult is a convenience constructor for services that return a
// single structured JSON payload.
func JSONResult(v any) (json.RawMessage, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	wrapped := CallResult{Content: []Content{{JSON: payload}}}
	return json.Marshal(wrapped)
}

// TextResult is a convenience constructor for services that return a
// single plain-text payload.
func TextResult(text string) (json.RawMessage, error) {
	wrapped := CallResult{Content: []Content{{Text: text}}}
	return json.Marshal(wrapped)
}
