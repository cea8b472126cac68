package client

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/everlightos/federation/internal/api/handlers"
)

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the knowledge base",
		Long:  "Runs a semantic search and prints the synthesized answer with its sources.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := NewAPIClientWithCmd(cmd)
			raw, err := api.Post(cmd.Context(), "/api/search", handlers.SearchRequest{
				Query: args[0],
				Limit: limit,
			})
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if outputJSON(cmd) {
				return printRaw(out, raw)
			}

			resp, err := decode[handlers.SearchResponse](raw)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, resp.AIResponse)
			if len(resp.Sources) == 0 {
				fmt.Fprintln(out, "\nNo sources found.")
				return nil
			}

			fmt.Fprintf(out, "\nSources (%d):\n", resp.TotalResults)
			for i, s := range resp.Sources {
				fmt.Fprintf(out, "%d. %s (%.2f)\n", i+1, color.CyanString("%s", s.Title), s.Score)
				snippet := strings.Join(strings.Fields(s.Content), " ")
				fmt.Fprintf(out, "   %s\n", truncate(snippet, 100))
				fmt.Fprintf(out, "   ID: %s\n", s.ID)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Maximum number of sources")

	return cmd
}
