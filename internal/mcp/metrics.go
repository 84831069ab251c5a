// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package mcp

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// counters holds the aggregate Prometheus counters spec.md §4.8 names:
// tool_calls, successful_calls, failed_calls.
type counters struct {
	once sync.Once

	toolCalls       prometheus.Counter
	successfulCalls prometheus.Counter
	failedCalls     prometheus.Counter
}

// mcpMetrics is a package-level singleton, mirroring the teacher's
// ingMetrics idiom: Prometheus counters must be registered exactly once
// per process regardless of how many Dispatchers get constructed.
var mcpMetrics counters

func newCounters() *counters {
	mcpMetrics.init()
	return &mcpMetrics
}

func (c *counters) init() {
	c.once.Do(func() {
		c.toolCalls = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gitai_mcp_tool_calls_total", Help: "Total MCP tool calls dispatched",
		})
		c.successfulCalls = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gitai_mcp_successful_calls_total", Help: "MCP tool calls that returned without error",
		})
		c.failedCalls = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gitai_mcp_failed_calls_total", Help: "MCP tool calls that returned an error",
		})
		prometheus.MustRegister(c.toolCalls, c.successfulCalls, c.failedCalls)
	})
}

func (c *counters) recordCall()    { c.toolCalls.Inc() }
func (c *counters) recordSuccess() { c.successfulCalls.Inc() }
func (c *counters) recordFailure() { c.failedCalls.Inc() }
