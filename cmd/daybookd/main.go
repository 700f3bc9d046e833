// Daybookd is the daily-journal daemon.
//
// It serves the journal and task directory over HTTP and, in stdio
// mode, exposes the same operations as MCP tools for agent sessions.
//
// Usage:
//
//	# Start the HTTP server
//	daybookd
//
//	# Serve MCP tools over stdio (for agent clients)
//	daybookd mcp
//
//	# Configure via environment
//	DAYBOOK_SERVER_PORT=8080 daybookd
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/emberworks/daybook/internal/config"
	"github.com/emberworks/daybook/internal/http"
	"github.com/emberworks/daybook/internal/journal"
	"github.com/emberworks/daybook/internal/journalstore"
	"github.com/emberworks/daybook/internal/logging"
	"github.com/emberworks/daybook/internal/mcp"
	"github.com/emberworks/daybook/internal/tasks"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default ~/.config/daybook/config.yaml)")
	flag.Parse()
	args := flag.Args()

	mode := "serve"
	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		case "mcp":
			mode = "mcp"
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  daybookd           Start the HTTP server\n")
			fmt.Fprintf(os.Stderr, "  daybookd mcp       Serve MCP tools over stdio\n")
			fmt.Fprintf(os.Stderr, "  daybookd version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath, mode); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Shutdown complete")
}

func printVersion() {
	fmt.Printf("daybookd\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run initializes all services and blocks until ctx is cancelled.
func run(ctx context.Context, configPath, mode string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	store, err := journalstore.New(cfg.Journal.DataDir, logger.Named("journalstore"))
	if err != nil {
		return fmt.Errorf("failed to open journal store: %w", err)
	}
	defer store.Close()

	journalSvc, err := journal.NewService(nil, store, logger.Named("journal"))
	if err != nil {
		return fmt.Errorf("failed to create journal service: %w", err)
	}
	defer journalSvc.Close()

	taskSvc, err := tasks.NewService(&tasks.Config{Dir: cfg.Tasks.DataDir}, logger.Named("tasks"))
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}
	defer taskSvc.Close()

	if mode == "mcp" {
		mcpServer, err := mcp.NewServer(&mcp.Config{Logger: logger.Named("mcp")}, journalSvc, taskSvc)
		if err != nil {
			return fmt.Errorf("failed to create mcp server: %w", err)
		}
		return mcpServer.Run(ctx)
	}

	server, err := http.NewServer(journalSvc, taskSvc, logger.Named("http"), &http.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
	}
	return nil
}
