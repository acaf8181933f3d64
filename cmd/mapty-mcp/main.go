package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/mapty/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	url := flag.String("url", "", "base URL of a running Mapty server (required)")
	flag.Parse()

	// stdout carries the MCP protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *url == "" {
		fmt.Fprintf(os.Stderr, "Usage: mapty-mcp -url http://mapty.tailnet:80\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	s := mcp.New(mcp.NewHTTPClient(*url), Version, log)
	log.Info("mcp stdio starting", "url", *url)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp stdio failed", "error", err)
		os.Exit(1)
	}
}
