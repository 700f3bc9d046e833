// Package mcp exposes the journal and task directory as MCP tools so
// agent chat sessions can read and mutate the day directly.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/emberworks/daybook/internal/journal"
	"github.com/emberworks/daybook/internal/tasks"
)

// Server bridges MCP tool calls to the internal services.
type Server struct {
	mcp     *mcp.Server
	journal journal.Service
	tasks   tasks.Service
	logger  *zap.Logger
}

// Config configures the MCP server.
type Config struct {
	// Name is the server implementation name (default: "daybook").
	Name string

	// Version is the server version (default: "1.0.0").
	Version string

	// Logger for structured logging.
	Logger *zap.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "daybook",
		Version: "1.0.0",
		Logger:  zap.NewNop(),
	}
}

// NewServer creates an MCP server over the given services.
func NewServer(cfg *Config, journalSvc journal.Service, taskSvc tasks.Service) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Name == "" {
		cfg.Name = "daybook"
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}
	if journalSvc == nil {
		return nil, fmt.Errorf("journal service is required")
	}
	if taskSvc == nil {
		return nil, fmt.Errorf("task service is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		},
		nil,
	)

	s := &Server{
		mcp:     mcpServer,
		journal: journalSvc,
		tasks:   taskSvc,
		logger:  cfg.Logger,
	}
	s.registerJournalTools()
	s.registerTaskTools()

	return s, nil
}

// Run starts the MCP server on the stdio transport and blocks until the
// context is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting mcp server on stdio")
	transport := &mcp.StdioTransport{}
	if err := s.mcp.Run(ctx, transport); err != nil {
		return fmt.Errorf("mcp server failed: %w", err)
	}
	return nil
}
