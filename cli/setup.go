package cli

import (
	"context"
	"fmt"

	"github.com/mobai/mobai-http/cli/helpers"
	"github.com/mobai/mobai-http/pkg/config"
	"github.com/mobai/mobai-http/pkg/logger"
	"github.com/spf13/cobra"
)

// SetupGlobalConfig loads configuration for cmd and installs the manager and
// logger in its context.
func SetupGlobalConfig(cmd *cobra.Command) error {
	if err := helpers.LoadEnvironmentFile(cmd); err != nil {
		return fmt.Errorf("failed to load environment file: %w", err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cliFlags, err := helpers.ExtractCLIFlags(cmd)
	if err != nil {
		return fmt.Errorf("failed to extract CLI flags: %w", err)
	}
	configFile, err := cmd.Flags().GetString(helpers.ConfigFlag)
	if err != nil {
		return fmt.Errorf("failed to get config file: %w", err)
	}
	// defaults < config file < environment < flags
	var sources []config.Source
	if configFile != "" {
		sources = append(sources, config.NewYAMLProvider(configFile))
	}
	sources = append(sources, config.NewEnvProvider())
	if len(cliFlags) > 0 {
		sources = append(sources, config.NewCLIProvider(cliFlags))
	}
	manager := config.NewManager(config.NewService())
	cfg, err := manager.Load(ctx, sources...)
	if err != nil {
		return err
	}
	log := logger.SetupLogger(
		logger.ParseLevel(cfg.Runtime.LogLevel),
		cfg.Runtime.LogJSON,
		cfg.Runtime.LogSource,
	)
	ctx = config.ContextWithManager(ctx, manager)
	ctx = logger.ContextWithLogger(ctx, log)
	cmd.SetContext(ctx)
	log.Debug("Configuration loaded", "config_file", configFile, "cli_overrides", len(cliFlags))
	return nil
}

func closeConfig(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		return nil
	}
	if m, ok := ctx.Value(config.ManagerCtxKey).(*config.Manager); ok && m != nil {
		return m.Close(ctx)
	}
	return nil
}
