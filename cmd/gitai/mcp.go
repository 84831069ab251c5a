// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gitai-dev/gitai/internal/config"
	"github.com/gitai-dev/gitai/internal/diffanalysis"
	"github.com/gitai-dev/gitai/internal/errs"
	"github.com/gitai-dev/gitai/internal/mcp"
	"github.com/gitai-dev/gitai/internal/parser"
	"github.com/gitai-dev/gitai/internal/queryreg"
	"github.com/gitai-dev/gitai/internal/review"
	"github.com/gitai-dev/gitai/internal/reviewcache"
	"github.com/gitai-dev/gitai/pkg/issues"
	"github.com/gitai-dev/gitai/pkg/llm"
	"github.com/gitai-dev/gitai/pkg/scan"
)

const defaultShutdownGrace = 5 * time.Second

func runMCP(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	transport := fs.String("transport", "stdio", "Transport: stdio|tcp|http")
	addr := fs.String("addr", ":8787", "Listen address for tcp/http transports")
	metricsAddr := fs.String("metrics-addr", "", "If set (and transport != http), also serve /metrics on this address")
	permits := fs.Int("permits", 0, "Concurrency permits (0: use config/default of 4x CPU count)")
	graceSecs := fs.Int("grace-period", 0, "Seconds to wait for in-flight calls to finish on shutdown (0: use config/default of 5s)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: gitai mcp [options]

Starts an MCP server exposing GitAI's analysis, scan, review, and graph
capabilities over stdio, TCP, or HTTP.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load(globals.Config)
	if err != nil {
		errs.FatalError(errs.NewConfigError("failed to load config", err.Error(), "check --config path", err), globals.JSON)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	effectivePermits := *permits
	if effectivePermits <= 0 {
		effectivePermits = cfg.MCP.ConcurrencyPermits
	}
	grace := defaultShutdownGrace
	switch {
	case *graceSecs > 0:
		grace = time.Duration(*graceSecs) * time.Second
	case cfg.MCP.ShutdownGraceSeconds > 0:
		grace = time.Duration(cfg.MCP.ShutdownGraceSeconds) * time.Second
	}

	dispatcher := mcp.NewDispatcher(effectivePermits, logger)
	if err := registerMCPServices(dispatcher, cfg, logger); err != nil {
		errs.FatalError(errs.NewInternalError("failed to register MCP services", err.Error(), "", err), globals.JSON)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("mcp.shutdown_signal", "signal", sig.String())
		cancel()
	}()

	if *metricsAddr != "" && *transport != "http" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Addr: *metricsAddr, Handler: mux}
			logger.Info("mcp.metrics_http_start", "addr", *metricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("mcp.metrics_http_error", "err", err)
			}
		}()
	}

	var serveErr error
	switch *transport {
	case "stdio":
		logger.Info("mcp.serve", "transport", "stdio")
		serveErr = dispatcher.ServeStdio(ctx, os.Stdin, os.Stdout)
	case "tcp":
		logger.Info("mcp.serve", "transport", "tcp", "addr", *addr)
		serveErr = dispatcher.ServeTCP(ctx, *addr)
	case "http":
		logger.Info("mcp.serve", "transport", "http", "addr", *addr)
		srv := &http.Server{Addr: *addr, Handler: dispatcher.HTTPHandler()}
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), grace)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		serveErr = srv.ListenAndServe()
		if serveErr == http.ErrServerClosed {
			serveErr = nil
		}
	default:
		errs.FatalError(errs.NewInputError("unknown transport", fmt.Sprintf("%q", *transport), "use stdio|tcp|http"), globals.JSON)
	}

	dispatcher.Shutdown(context.Background(), grace)

	if serveErr != nil {
		errs.FatalError(errs.NewNetworkError("MCP server exited with an error", serveErr.Error(), "", serveErr), globals.JSON)
	}
}

// registerMCPServices wires the same underlying components buildOrchestrator
// uses into the four MCP services (analysis, scan, review, graph), per
// spec.md §6's tool surface.
func registerMCPServices(dispatcher *mcp.Dispatcher, cfg config.Config, logger *slog.Logger) error {
	registry, err := queryreg.New(cfg.Queries.ConfigPath)
	if err != nil {
		return fmt.Errorf("load query registry: %w", err)
	}
	parserMgr := parser.NewManager(registry, logger)

	scanner := scan.OpenGrepScanner{BinaryPath: resolveScannerBinary()}

	git := diffanalysis.NewGitReader(".", logger)
	cache := reviewcache.New(cfg.Cache.Root, cfg.Cache.LRUCapacity, cfg.Cache.TTLSeconds)

	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		p, err := llm.NewProvider(llm.ProviderConfig{
			Type: cfg.LLM.Provider, BaseURL: cfg.LLM.BaseURL,
			APIKey: cfg.LLM.APIKey, DefaultModel: cfg.LLM.DefaultModel,
		})
		if err != nil {
			logger.Warn("gitai.llm_provider_unavailable", "err", err)
		} else {
			provider = p
		}
	}

	var tracker issues.Tracker
	if v := os.Getenv("GITAI_ISSUES_BASE_URL"); v != "" {
		tracker = issues.NewHTTPTracker(v, os.Getenv("GITAI_ISSUES_TOKEN"))
	}

	orchestrator := &review.Orchestrator{
		Git: git, Parser: parserMgr, Cache: cache,
		Scanner: scanner, Issues: tracker, AI: provider, Logger: logger,
		RepoRoot: ".", DefaultModel: cfg.LLM.DefaultModel,
	}

	services := []mcp.Service{
		&mcp.AnalysisService{Parser: parserMgr},
		&mcp.ScanService{Scanner: scanner},
		&mcp.ReviewService{Orchestrator: orchestrator},
		&mcp.GraphService{Parser: parserMgr},
	}
	for _, svc := range services {
		if err := dispatcher.Register(svc); err != nil {
			return err
		}
	}
	return nil
}
