// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package mcp

import (
	"context"
	"net"
)

// ServeTCP accepts connections on addr and serves newline-framed
// JSON-RPC 2.0 over each one, per spec.md §4.8's "TCP (same framing
// over a socket)". It blocks until ctx is cancelled or the listener
// fails.
func (d *Dispatcher) ServeTCP(ctx context.Context, addr string) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go d.serveTCPConn(ctx, conn)
	}
}

func (d *Dispatcher) serveTCPConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	if err := d.ServeStdio(ctx, conn, conn); err != nil {
		d.logger.Debug("mcp.tcp_connection_closed", "remote", conn.RemoteAddr(), "err", err)
	}
}
