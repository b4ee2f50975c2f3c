package cli

import (
	"encoding/json"
	"fmt"

	"github.com/mobai/mobai-http/pkg/version"
	"github.com/spf13/cobra"
)

// VersionCmd prints build information.
func VersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}
			info := version.Get()
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				return json.NewEncoder(out).Encode(info)
			case "text":
				fmt.Fprintf(out, "mobai-http version %s\n", info.Version)
				fmt.Fprintf(out, "commit: %s\n", info.CommitHash)
				fmt.Fprintf(out, "built: %s\n", info.BuildDate)
				return nil
			default:
				return fmt.Errorf("unsupported format %q, use text or json", format)
			}
		},
	}
	cmd.Flags().String("format", "text", "Output format (text or json)")
	return cmd
}
