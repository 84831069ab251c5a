// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

type echoService struct {
	name string
}

func (s *echoService) Name() string        { return s.name }
func (s *echoService) Description() string { return "echoes its arguments back" }

func (s *echoService) Tools() []ToolDescriptor {
	return []ToolDescriptor{{
		Name:        "echo",
		Description: "echo",
		InputSchema: schema(map[string]string{"message": "string"}, "message"),
	}}
}

func (s *echoService) HandleToolCall(ctx context.Context, tool string, args json.RawMessage) (json.RawMessage, error) {
	return TextResult(string(args))
}

type failingService struct{}

func (failingService) Name() string             { return "failing" }
func (failingService) Description() string      { return "always fails" }
func (failingService) Tools() []ToolDescriptor {
	return []ToolDescriptor{{Name: "explode", Description: "always errors"}}
}
func (failingService) HandleToolCall(ctx context.Context, tool string, args json.RawMessage) (json.RawMessage, error) {
	return nil, errExploded
}

var errExploded = jsonErr("boom")

type jsonErr string

func (e jsonErr) Error() string { return string(e) }

func TestDispatcher_RegisterRejectsToolNameCollision(t *testing.T) {
	d := NewDispatcher(4, nil)
	if err := d.Register(&echoService{name: "a"}); err != nil {
		t.Fatalf("Register a: %v", err)
	}
	if err := d.Register(&echoService{name: "b"}); err == nil {
		t.Errorf("expected collision error registering a second service exposing the same tool name")
	}
}

func TestDispatcher_ToolsListAndCall(t *testing.T) {
	d := NewDispatcher(4, nil)
	if err := d.Register(&echoService{name: "echo-svc"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	listResp := d.HandleRaw(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	if listResp.Error != nil {
		t.Fatalf("tools/list error: %+v", listResp.Error)
	}

	callReq := []byte(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"echo","arguments":{"message":"hi"}}}`)
	callResp := d.HandleRaw(context.Background(), callReq)
	if callResp.Error != nil {
		t.Fatalf("tools/call error: %+v", callResp.Error)
	}
}

func TestDispatcher_UnknownToolReturnsInvalidParams(t *testing.T) {
	d := NewDispatcher(4, nil)
	req := []byte(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"does_not_exist","arguments":{}}}`)
	resp := d.HandleRaw(context.Background(), req)
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Fatalf("expected -32602 for unknown tool, got %+v", resp.Error)
	}
}

func TestDispatcher_MalformedJSONReturnsParseError(t *testing.T) {
	d := NewDispatcher(4, nil)
	resp := d.HandleRaw(context.Background(), []byte(`{not json`))
	if resp.Error == nil || resp.Error.Code != codeParseError {
		t.Fatalf("expected -32700 for malformed JSON, got %+v", resp.Error)
	}
}

func TestDispatcher_SchemaViolationReturnsInvalidParams(t *testing.T) {
	d := NewDispatcher(4, nil)
	if err := d.Register(&echoService{name: "echo-svc"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	req := []byte(`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"echo","arguments":{}}}`)
	resp := d.HandleRaw(context.Background(), req)
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Fatalf("expected -32602 for missing required 'message', got %+v", resp.Error)
	}
}

func TestDispatcher_ServiceErrorMapsToExecutionError(t *testing.T) {
	d := NewDispatcher(4, nil)
	if err := d.Register(failingService{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	req := []byte(`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"explode","arguments":{}}}`)
	resp := d.HandleRaw(context.Background(), req)
	if resp.Error == nil || resp.Error.Code != codeExecutionError {
		t.Fatalf("expected -32000 for a service error, got %+v", resp.Error)
	}
}

func TestDispatcher_Backpressure(t *testing.T) {
	d := NewDispatcher(1, nil)
	if !d.TryEnter() {
		t.Fatalf("first TryEnter should succeed")
	}
	if !d.TryEnter() {
		t.Fatalf("second TryEnter should succeed (queue cap is 2x permits)")
	}
	if d.TryEnter() {
		t.Errorf("third TryEnter should fail once the queue cap (2) is exceeded")
	}
	d.Leave()
	if !d.TryEnter() {
		t.Errorf("TryEnter should succeed again after a Leave frees a slot")
	}
}

type slowService struct{ release chan struct{} }

func (s *slowService) Name() string        { return "slow" }
func (s *slowService) Description() string { return "blocks until release is closed" }
func (s *slowService) Tools() []ToolDescriptor {
	return []ToolDescriptor{{Name: "block", Description: "blocks"}}
}
func (s *slowService) HandleToolCall(ctx context.Context, tool string, args json.RawMessage) (json.RawMessage, error) {
	<-s.release
	return TextResult("done")
}

func TestDispatcher_ShutdownWaitsForInFlightCalls(t *testing.T) {
	d := NewDispatcher(4, nil)
	svc := &slowService{release: make(chan struct{})}
	if err := d.Register(svc); err != nil {
		t.Fatalf("Register: %v", err)
	}

	done := make(chan struct{})
	go func() {
		req := []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"block","arguments":{}}}`)
		d.HandleRaw(context.Background(), req)
		close(done)
	}()

	// Give the call a moment to enter the semaphore before shutting down.
	time.Sleep(20 * time.Millisecond)
	go func() {
		time.Sleep(30 * time.Millisecond)
		close(svc.release)
	}()

	start := time.Now()
	d.Shutdown(context.Background(), time.Second)
	if time.Since(start) > 900*time.Millisecond {
		t.Errorf("Shutdown took too long waiting for the in-flight call to finish")
	}
	<-done

	req := []byte(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"block","arguments":{}}}`)
	resp := d.HandleRaw(context.Background(), req)
	if resp.Error == nil || resp.Error.Code != codeExecutionError {
		t.Errorf("expected new calls to be rejected once draining, got %+v", resp.Error)
	}
}

func TestDispatcher_ShutdownReturnsAfterGraceElapses(t *testing.T) {
	d := NewDispatcher(4, nil)
	svc := &slowService{release: make(chan struct{})}
	defer close(svc.release)
	if err := d.Register(svc); err != nil {
		t.Fatalf("Register: %v", err)
	}

	go func() {
		req := []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"block","arguments":{}}}`)
		d.HandleRaw(context.Background(), req)
	}()
	time.Sleep(20 * time.Millisecond)

	start := time.Now()
	d.Shutdown(context.Background(), 50*time.Millisecond)
	elapsed := time.Since(start)
	if elapsed < 40*time.Millisecond {
		t.Errorf("Shutdown returned before the grace period elapsed: %v", elapsed)
	}
}
