package client

import (
	"github.com/spf13/cobra"

	"github.com/everlightos/federation/internal/cli"
)

// NewRootCmd assembles the federation client command tree.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "federation",
		Short: "EverLightOS Federation CLI",
		Long: `Federation CLI talks to the EverLightOS Federation API.

Environment variables:
  FEDERATION_API_URL   API base URL (default: http://localhost:8080)
  GITHUB_TOKEN         Optional token for the feed command`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(AskCmd())
	rootCmd.AddCommand(SearchCmd())
	rootCmd.AddCommand(IngestCmd())
	rootCmd.AddCommand(CouncilCmd())
	rootCmd.AddCommand(BucketCmd())
	rootCmd.AddCommand(FeedCmd())

	return rootCmd
}
