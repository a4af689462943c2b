// Package mcp provides an MCP (Model Context Protocol) server over a
// saescope feature database.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/saescope/internal/logging"
	"github.com/nvandessel/saescope/internal/pathutil"
	"github.com/nvandessel/saescope/internal/ratelimit"
	"github.com/nvandessel/saescope/internal/store"
)

// Server wraps the MCP SDK server and serves feature statistics.
type Server struct {
	server       *sdk.Server
	store        store.FeatureStore
	dbPath       string
	logger       *slog.Logger
	toolLimiters ratelimit.Tools
}

// Config names the server and the feature database it reads.
type Config struct {
	Name    string // Server name (e.g., "saescope")
	Version string // reported to clients during initialization
	DBPath  string // SQLite feature database written by an analysis

	// Logger receives tool audit records. Defaults to a discarding logger.
	Logger *slog.Logger
}

// NewServer opens the feature database and creates an MCP server with
// saescope tools.
func NewServer(cfg *Config) (*Server, error) {
	featureStore, err := store.OpenSQLiteFeatureStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open feature store: %w", pathutil.RedactError(err, cfg.DBPath))
	}
	return newServer(cfg, featureStore), nil
}

func newServer(cfg *Config, featureStore store.FeatureStore) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		server:       mcpServer,
		store:        featureStore,
		dbPath:       cfg.DBPath,
		logger:       logger,
		toolLimiters: ratelimit.DefaultTools(),
	}
	s.registerTools()
	s.registerResources()

	return s
}

// Run serves requests on stdin/stdout until the client disconnects, ctx is
// done or the process receives an interrupt. The store is closed on return.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})
	s.store.Close()
	return err
}

// Close releases the feature database.
func (s *Server) Close() error {
	return s.store.Close()
}
