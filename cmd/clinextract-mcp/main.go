// Command clinextract-mcp serves the PDF extraction operations as MCP
// tools over standard I/O.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/evidencelab/clinextract/internal/config"
	"github.com/evidencelab/clinextract/internal/extract"
	"github.com/evidencelab/clinextract/internal/mcp"
)

var (
	version   = "dev"     // set by build flags
	buildTime = "unknown" // set by build flags
)

// setupLogging redirects log output away from stdout so it cannot
// interfere with the MCP protocol stream.
func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stderr)
	if cfg.IsStdioMode() && !cfg.IsDebug() {
		log.SetOutput(os.NewFile(0, os.DevNull))
	}
}

func run() error {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	cfg.Version = version

	setupLogging(cfg)

	extractor := extract.NewExtractor(cfg.MaxFileSize)

	server, err := mcp.NewServer(cfg, extractor)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.Printf("Received signal: %s, shutting down", sig)
		cancel()
		return <-serverErrCh
	case err := <-serverErrCh:
		return err
	}
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			fmt.Printf("clinextract-mcp %s (built %s)\n", version, buildTime)
			return
		}
	}

	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
