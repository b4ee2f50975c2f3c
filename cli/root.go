package cli

import (
	"github.com/mobai/mobai-http/cli/helpers"
	"github.com/spf13/cobra"
)

// RootCmd returns the mobai-http command tree. Running it without a
// subcommand serves the http_request tool over stdio.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mobai-http",
		Short: "MCP server exposing an http_request tool for the MobAI API",
		Long: `mobai-http serves a single http_request tool over the Model Context Protocol.
Requests are proxied to the MobAI HTTP API and base64 screenshots in the
responses are saved to disk and replaced with file paths.`,
		SilenceUsage: true,
		RunE:         runServe,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return SetupGlobalConfig(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return closeConfig(cmd)
		},
	}
	helpers.AddGlobalFlags(root)
	root.AddCommand(ServeCmd(), VersionCmd())
	return root
}
