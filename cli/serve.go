package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mobai/mobai-http/engine/infra/monitoring"
	"github.com/mobai/mobai-http/engine/mcp"
	"github.com/mobai/mobai-http/engine/tool/builtin"
	"github.com/mobai/mobai-http/pkg/config"
	"github.com/mobai/mobai-http/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const monitoringShutdownTimeout = 5 * time.Second

// ServeCmd returns the explicit form of the default action.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the http_request tool over stdio",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Serve(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
}

// Serve runs the MCP server on in and out, plus the metrics listener when
// one is configured. It returns when in is exhausted or ctx is done.
func Serve(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	if cfg == nil {
		return errors.New("configuration is required")
	}
	log := logger.FromContext(ctx)
	monitor, err := monitoring.NewMonitoringService(ctx, &monitoring.Config{
		Enabled: cfg.Metrics.Addr != "",
		Path:    cfg.Metrics.Path,
		Addr:    cfg.Metrics.Addr,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize monitoring: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), monitoringShutdownTimeout)
		defer cancel()
		if err := monitor.Shutdown(shutdownCtx); err != nil {
			log.Warn("Failed to shut down monitoring", "error", err)
		}
	}()
	telemetry, err := builtin.NewTelemetry(monitor.Meter())
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	srv, err := mcp.NewServer(ctx, cfg, telemetry)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// the metrics listener lives only as long as the MCP session
		defer cancel()
		return srv.ServeStdio(gctx, in, out)
	})
	if monitor.IsInitialized() {
		g.Go(func() error {
			return monitor.Serve(gctx)
		})
	}
	return g.Wait()
}
