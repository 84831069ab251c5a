// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestServeStdio_RespondsToEachLine(t *testing.T) {
	d := NewDispatcher(4, nil)
	if err := d.Register(&echoService{name: "echo-svc"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	input := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n")
	var out bytes.Buffer

	if err := d.ServeStdio(context.Background(), input, &out); err != nil {
		t.Fatalf("ServeStdio: %v", err)
	}

	var resp Response
	if err := json.Unmarshal(bytes.TrimSpace(out.Bytes()), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, out.String())
	}
	if resp.Error != nil {
		t.Errorf("unexpected error in response: %+v", resp.Error)
	}
}

func TestHTTPHandler_HealthAndTools(t *testing.T) {
	d := NewDispatcher(4, nil)
	if err := d.Register(&echoService{name: "echo-svc"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	srv := httptest.NewServer(d.HTTPHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status = %d, want 200", resp.StatusCode)
	}

	resp2, err := http.Get(srv.URL + "/tools")
	if err != nil {
		t.Fatalf("GET /tools: %v", err)
	}
	defer resp2.Body.Close()
	var body struct {
		Tools []ToolDescriptor `json:"tools"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&body); err != nil {
		t.Fatalf("decode /tools: %v", err)
	}
	if len(body.Tools) != 1 || body.Tools[0].Name != "echo" {
		t.Errorf("expected one 'echo' tool, got %+v", body.Tools)
	}
}

func TestHTTPHandler_RPCRoundTrip(t *testing.T) {
	d := NewDispatcher(4, nil)
	if err := d.Register(&echoService{name: "echo-svc"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	srv := httptest.NewServer(d.HTTPHandler())
	defer srv.Close()

	body := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo","arguments":{"message":"hi"}}}`)
	resp, err := http.Post(srv.URL+"/rpc", "application/json", body)
	if err != nil {
		t.Fatalf("POST /rpc: %v", err)
	}
	defer resp.Body.Close()

	var rpcResp Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		t.Fatalf("decode /rpc response: %v", err)
	}
	if rpcResp.Error != nil {
		t.Errorf("unexpected error: %+v", rpcResp.Error)
	}
}

func TestHTTPHandler_RejectsGetOnRPC(t *testing.T) {
	d := NewDispatcher(4, nil)
	srv := httptest.NewServer(d.HTTPHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/rpc")
	if err != nil {
		t.Fatalf("GET /rpc: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /rpc status = %d, want 405", resp.StatusCode)
	}
}
