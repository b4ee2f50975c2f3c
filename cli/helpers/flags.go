package helpers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mobai/mobai-http/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	ConfigFlag  = "config"
	EnvFileFlag = "env-file"

	defaultEnvFile = ".env"
)

// AddGlobalFlags registers the persistent flags shared by every command.
// Flags that map to a configuration key only override it when set.
func AddGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String(ConfigFlag, "", "Path to a YAML configuration file")
	flags.String(EnvFileFlag, defaultEnvFile, "Path to a dotenv file loaded before configuration")
	flags.String("server-name", config.DefaultServerName, "Name reported to MCP clients")
	flags.Duration("timeout", config.DefaultRequestTimeout, "Default timeout for outgoing requests")
	flags.String("user-agent", "", "User-Agent header for outgoing requests")
	flags.String("screenshots-dir", config.DefaultScreenshotsDir, "Directory where screenshots are saved")
	flags.String("log-level", "info", "Log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.Bool("log-source", false, "Include source locations in logs")
	flags.String("metrics-addr", "", "Listen address for the Prometheus endpoint (disabled when empty)")
}

// LoadEnvironmentFile loads the dotenv file named by --env-file into the
// process environment. A missing file is not an error. Variables already set
// in the environment are kept.
func LoadEnvironmentFile(cmd *cobra.Command) error {
	envFile, err := cmd.Flags().GetString(EnvFileFlag)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", EnvFileFlag, err)
	}
	if envFile == "" {
		return nil
	}
	absPath, err := filepath.Abs(filepath.Clean(envFile))
	if err != nil {
		return fmt.Errorf("failed to resolve env file path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("env file path '%s' is not a regular file", envFile)
	}
	if err := godotenv.Load(absPath); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", absPath, err)
	}
	return nil
}

// ExtractCLIFlags collects the configuration flags the user set explicitly,
// keyed by flag name.
func ExtractCLIFlags(cmd *cobra.Command) (map[string]any, error) {
	out := make(map[string]any)
	var firstErr error
	cmd.Flags().Visit(func(flag *pflag.Flag) {
		if firstErr != nil {
			return
		}
		if _, ok := config.CLIFlagPaths[flag.Name]; !ok {
			return
		}
		value, err := flagValue(cmd.Flags(), flag)
		if err != nil {
			firstErr = fmt.Errorf("failed to read flag %s: %w", flag.Name, err)
			return
		}
		out[flag.Name] = value
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func flagValue(flags *pflag.FlagSet, flag *pflag.Flag) (any, error) {
	switch flag.Value.Type() {
	case "bool":
		return flags.GetBool(flag.Name)
	case "duration":
		return flags.GetDuration(flag.Name)
	default:
		return flag.Value.String(), nil
	}
}
