package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mobai/mobai-http/engine/blobstore"
	"github.com/mobai/mobai-http/engine/executor"
	"github.com/mobai/mobai-http/engine/tool/builtin"
	"github.com/mobai/mobai-http/engine/tool/builtin/httprequest"
	"github.com/mobai/mobai-http/engine/transform"
	"github.com/mobai/mobai-http/pkg/config"
	"github.com/mobai/mobai-http/pkg/logger"
	"github.com/mobai/mobai-http/pkg/version"
)

// Server exposes the builtin tools over the Model Context Protocol.
type Server struct {
	mcp *server.MCPServer
	log logger.Logger
}

// NewServer builds the tool pipeline from cfg and registers it. telemetry
// may be nil.
func NewServer(ctx context.Context, cfg *config.Config, telemetry *builtin.Telemetry) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	log := logger.FromContext(ctx)
	storeOpts := []blobstore.Option{}
	if telemetry != nil {
		storeOpts = append(storeOpts, blobstore.WithObserver(telemetry))
	}
	store := blobstore.New(cfg.Screenshots.Dir, storeOpts...)
	exec := executor.New(executor.Config{
		DefaultTimeout: cfg.HTTP.DefaultTimeout,
		ContentType:    cfg.HTTP.ContentType,
		UserAgent:      cfg.HTTP.UserAgent,
	}, log)
	handler := httprequest.NewHandler(exec, transform.New(store), telemetry)

	s := server.NewMCPServer(
		cfg.Server.Name,
		version.Get().Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	if err := builtin.Register(s, httprequest.Definition(handler)); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	log.Debug(
		"MCP server ready",
		"name", cfg.Server.Name,
		"screenshots_dir", cfg.Screenshots.Dir,
		"default_timeout", exec.DefaultTimeout(),
	)
	return &Server{mcp: s, log: log}, nil
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves newline-delimited JSON-RPC on in and out until in is
// exhausted or ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(logger.NewStandardLogger(s.log))
	stdio.SetContextFunc(func(ctx context.Context) context.Context {
		return logger.ContextWithLogger(ctx, s.log)
	})
	s.log.Info("Serving MCP over stdio", "version", version.Get().Version)
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport failed: %w", err)
	}
	s.log.Info("MCP stdio transport closed")
	return nil
}
