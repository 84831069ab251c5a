// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSON-RPC 2.0 error codes per spec.md §4.8's error mapping.
const (
	codeParseError     = -32700
	codeInvalidParams  = -32602
	codeExecutionError = -32000
)

// Request is a JSON-RPC 2.0 request object.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response object.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type registeredTool struct {
	service    Service
	descriptor ToolDescriptor
	schema     *jsonschema.Schema
}

// Dispatcher indexes tools by name across registered services and routes
// tools/call requests to the owning service under a global concurrency
// semaphore. Spec.md §9: "Services exposed through MCP are unified
// behind a {name, description, tools, handle_tool_call} capability set;
// the dispatcher holds a heterogenous list keyed by service name."
type Dispatcher struct {
	logger *slog.Logger

	mu       sync.RWMutex
	services map[string]Service
	tools    map[string]registeredTool

	sem      chan struct{}
	queueCap int
	queued   int64
	inFlight int64
	draining int32

	metrics *counters
}

// DefaultPermits mirrors spec.md §4.8's "default permits = 4×CPU".
func DefaultPermits() int {
	n := runtime.NumCPU() * 4
	if n < 1 {
		n = 1
	}
	return n
}

// NewDispatcher builds a dispatcher with the given concurrency permits.
// The backpressure queue cap defaults to 2×permits per spec.md §5.
func NewDispatcher(permits int, logger *slog.Logger) *Dispatcher {
	if permits < 1 {
		permits = DefaultPermits()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		logger:   logger,
		services: make(map[string]Service),
		tools:    make(map[string]registeredTool),
		sem:      make(chan struct{}, permits),
		queueCap: permits * 2,
		metrics:  newCounters(),
	}
}

// Register indexes a service's tools by name. Name collisions across
// services are rejected, per spec.md §4.8's Registration paragraph.
func (d *Dispatcher) Register(svc Service) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.services[svc.Name()]; exists {
		return fmt.Errorf("mcp: service %q already registered", svc.Name())
	}

	staged := make(map[string]registeredTool, len(svc.Tools()))
	for _, td := range svc.Tools() {
		if _, exists := d.tools[td.Name]; exists {
			return fmt.Errorf("mcp: tool %q collides with an already-registered tool", td.Name)
		}
		var schema *jsonschema.Schema
		if len(td.InputSchema) > 0 {
			compiled, err := compileSchema(td.Name, td.InputSchema)
			if err != nil {
				return fmt.Errorf("mcp: compile schema for tool %q: %w", td.Name, err)
			}
			schema = compiled
		}
		staged[td.Name] = registeredTool{service: svc, descriptor: td, schema: schema}
	}

	d.services[svc.Name()] = svc
	for name, rt := range staged {
		d.tools[name] = rt
	}
	return nil
}

func compileSchema(name string, raw json.RawMessage) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	resource := "mem://" + name + ".json"
	if err := c.AddResource(resource, bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return c.Compile(resource)
}

// Tools returns every registered tool's descriptor, for tools/list and
// GET /tools.
func (d *Dispatcher) Tools() []ToolDescriptor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]ToolDescriptor, 0, len(d.tools))
	for _, rt := range d.tools {
		out = append(out, rt.descriptor)
	}
	return out
}

// TryEnter attempts to admit one more in-flight call, enforcing the
// backpressure queue cap from spec.md §5: transports should reject with
// their own "too busy" signal (e.g. HTTP 503) when this returns false.
func (d *Dispatcher) TryEnter() bool {
	if atomic.AddInt64(&d.queued, 1) > int64(d.queueCap) {
		atomic.AddInt64(&d.queued, -1)
		return false
	}
	return true
}

// Leave releases a slot reserved by a successful TryEnter.
func (d *Dispatcher) Leave() {
	atomic.AddInt64(&d.queued, -1)
}

// Handle dispatches a single JSON-RPC request and returns its response.
// Notifications (no id) still execute but callers may discard the
// response per JSON-RPC convention; GitAI's transports always frame one
// response per request for simplicity.
func (d *Dispatcher) Handle(ctx context.Context, req Request) Response {
	switch req.Method {
	case "tools/list":
		return d.handleToolsList(req)
	case "tools/call":
		return d.handleToolsCall(ctx, req)
	default:
		return errorResponse(req.ID, codeInvalidParams, fmt.Sprintf("unknown method %q", req.Method))
	}
}

// HandleRaw parses one JSON-RPC request from raw bytes and dispatches
// it, mapping malformed JSON to a parse-error response (code -32700)
// rather than propagating a Go error to the transport.
func (d *Dispatcher) HandleRaw(ctx context.Context, raw []byte) Response {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return errorResponse(nil, codeParseError, "invalid JSON-RPC request: "+err.Error())
	}
	return d.Handle(ctx, req)
}

func (d *Dispatcher) handleToolsList(req Request) Response {
	result, err := json.Marshal(struct {
		Tools []ToolDescriptor `json:"tools"`
	}{Tools: d.Tools()})
	if err != nil {
		return errorResponse(req.ID, codeExecutionError, err.Error())
	}
	return Response{JSONRPC: "2.0", ID: req.ID, Result: result}
}

type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (d *Dispatcher) handleToolsCall(ctx context.Context, req Request) Response {
	if atomic.LoadInt32(&d.draining) != 0 {
		return errorResponse(req.ID, codeExecutionError, "server is shutting down")
	}

	var params toolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "bad tools/call params: "+err.Error())
	}

	d.mu.RLock()
	rt, ok := d.tools[params.Name]
	d.mu.RUnlock()
	if !ok {
		d.metrics.recordFailure()
		return errorResponse(req.ID, codeInvalidParams, fmt.Sprintf("unknown tool %q", params.Name))
	}

	if rt.schema != nil {
		var doc any
		if err := json.Unmarshal(params.Arguments, &doc); err != nil {
			d.metrics.recordFailure()
			return errorResponse(req.ID, codeInvalidParams, "arguments are not valid JSON: "+err.Error())
		}
		if err := rt.schema.Validate(doc); err != nil {
			d.metrics.recordFailure()
			return errorResponse(req.ID, codeInvalidParams, "arguments failed schema validation: "+err.Error())
		}
	}

	select {
	case d.sem <- struct{}{}:
	case <-ctx.Done():
		d.metrics.recordFailure()
		return errorResponse(req.ID, codeExecutionError, "cancelled waiting for a concurrency slot")
	}
	defer func() { <-d.sem }()

	atomic.AddInt64(&d.inFlight, 1)
	defer atomic.AddInt64(&d.inFlight, -1)

	start := time.Now()
	d.metrics.recordCall()
	result, err := rt.service.HandleToolCall(ctx, params.Name, params.Arguments)
	duration := time.Since(start)

	if err != nil {
		d.metrics.recordFailure()
		d.logger.Warn("mcp.tool_call_failed", "tool", params.Name, "duration", duration, "err", err)
		return errorResponse(req.ID, codeExecutionError, err.Error())
	}
	d.metrics.recordSuccess()
	d.logger.Debug("mcp.tool_call_ok", "tool", params.Name, "duration", duration)
	return Response{JSONRPC: "2.0", ID: req.ID, Result: result}
}

// Shutdown stops admitting new tool calls and waits for in-flight calls
// to finish, up to grace. Per spec.md §9: "on shutdown, it awaits all
// in-flight tool calls up to a grace period (default 5s) before
// cancelling." Calls still in flight when grace elapses are left to
// run; Shutdown simply stops waiting and returns.
func (d *Dispatcher) Shutdown(ctx context.Context, grace time.Duration) {
	atomic.StoreInt32(&d.draining, 1)

	deadline := time.Now().Add(grace)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		if atomic.LoadInt64(&d.inFlight) == 0 {
			return
		}
		if time.Now().After(deadline) {
			d.logger.Warn("mcp.shutdown_grace_elapsed", "in_flight", atomic.LoadInt64(&d.inFlight))
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func errorResponse(id json.RawMessage, code int, message string) Response {
	return Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}}
}
