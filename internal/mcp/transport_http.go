// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package mcp

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPHandler returns an http.Handler serving spec.md §4.8/§6's HTTP
// transport: POST /rpc for tool calls, GET /health and GET /tools for
// discovery. Requests beyond the backpressure queue cap are rejected
// with 503, per spec.md §5's Backpressure paragraph.
func (d *Dispatcher) HTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/rpc", d.handleRPC)
	mux.HandleFunc("/health", d.handleHealth)
	mux.HandleFunc("/tools", d.handleToolsDiscovery)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (d *Dispatcher) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !d.TryEnter() {
		http.Error(w, "too many concurrent tool calls", http.StatusServiceUnavailable)
		return
	}
	defer d.Leave()

	body, err := io.ReadAll(io.LimitReader(r.Body, 16<<20))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	resp := d.HandleRaw(r.Context(), body)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (d *Dispatcher) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		OK    bool `json:"ok"`
		Tools int  `json:"tools"`
	}{OK: true, Tools: len(d.Tools())})
}

func (d *Dispatcher) handleToolsDiscovery(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Tools []ToolDescriptor `json:"tools"`
	}{Tools: d.Tools()})
}
