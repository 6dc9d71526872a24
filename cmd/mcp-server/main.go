// cmd/mcp-server/main.go: standalone HTTP MCP server for hybridroot
//
// Exposes the solver tools as an HTTP endpoint for AI agent frameworks.
//
// Usage:
//
//	go run ./cmd/mcp-server -port 8080
//
// Tool call endpoint: POST /tool
// Chart endpoint:     GET  /plot?f=...&g=...&x0=...&tol=...
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("hybridroot MCP server listening", "addr", addr)
	logger.Info("routes", "tool", "POST /tool", "plot", "GET /plot", "schema", "GET /schema", "health", "GET /health")

	srv := &http.Server{
		Addr:              addr,
		Handler:           newMux(logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
