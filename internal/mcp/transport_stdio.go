// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"
)

// ServeStdio reads newline-framed JSON-RPC 2.0 requests from r and
// writes responses to w, one line per message, until r is exhausted, and
// returns once every dispatched response has been written. ctx is passed
// to each call; it does not interrupt a blocked read of r. Per spec.md §4.8's Transports paragraph, stdio
// multiplexes concurrent calls: each line is dispatched in its own
// goroutine so a slow tool call does not stall the next request's
// read.
func (d *Dispatcher) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4<<20)

	mu := newWriteMutex()
	var wg sync.WaitGroup

	for scanner.Scan() {
		line := append([]byte(nil), scanner.Bytes()...)
		if len(line) == 0 {
			continue
		}
		wg.Add(1)
		go func(line []byte) {
			defer wg.Done()
			resp := d.HandleRaw(ctx, line)
			mu.writeJSON(w, resp)
		}(line)
	}
	wg.Wait()
	return scanner.Err()
}

// writeMutex serializes writes to a shared io.Writer across the
// goroutines ServeStdio spawns per request line.
type writeMutex struct{ ch chan struct{} }

func newWriteMutex() *writeMutex {
	return &writeMutex{ch: make(chan struct{}, 1)}
}

func (m *writeMutex) lock() { m.ch <- struct{}{} }

func (m *writeMutex) unlock() { <-m.ch }

func (m *writeMutex) writeJSON(w io.Writer, v any) {
	m.lock()
	defer m.unlock()
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}
