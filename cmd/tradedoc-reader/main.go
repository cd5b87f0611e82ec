package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/a3tai/tradedoc-reader/internal/config"
	"github.com/a3tai/tradedoc-reader/internal/logger"
	"github.com/a3tai/tradedoc-reader/internal/mcp"
	"github.com/a3tai/tradedoc-reader/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	if err := run(os.Args[0], os.Args[1:]); err != nil {
		if errors.Is(err, config.ErrVersionRequested) {
			printVersion(os.Stdout)
			return
		}
		log.Error().Err(err).Msg("tradedoc-reader failed")
		os.Exit(1)
	}
}

func run(program string, args []string) error {
	cfg, err := config.Load(program, args)
	if err != nil {
		return err
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	closer, err := logger.Setup(cfg.LogConfig())
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closer.Close()

	log.Debug().Str("config", cfg.String()).Msg("starting")

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.Directory)
	if err != nil {
		return fmt.Errorf("failed to create document service: %w", err)
	}

	server, err := mcp.NewServer(cfg, pdfService)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// stdio mode ends when the parent closes stdin; server mode on a signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	return server.Run(ctx)
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "Trade Document Reader\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
