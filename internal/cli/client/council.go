package client

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/everlightos/federation/internal/api/handlers"
)

// CouncilCmd creates the council command, which runs a federation query.
func CouncilCmd() *cobra.Command {
	var models []string

	cmd := &cobra.Command{
		Use:   "council <query>",
		Short: "Ask every council model and print the consensus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := NewAPIClientWithCmd(cmd)
			raw, err := api.Post(cmd.Context(), "/api/federation", handlers.FederationRequest{
				Query:  args[0],
				Models: models,
			})
			if err != nil {
				return fmt.Errorf("federation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if outputJSON(cmd) {
				return printRaw(out, raw)
			}

			resp, err := decode[handlers.FederationResponse](raw)
			if err != nil {
				return err
			}

			heading := color.New(color.Bold)
			for _, r := range resp.IndividualResponses {
				heading.Fprintf(out, "[%s]\n", r.Model)
				fmt.Fprintf(out, "%s\n\n", r.Response)
			}
			heading.Fprintln(out, "Consensus:")
			fmt.Fprintln(out, resp.Consensus)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&models, "model", "m", nil, "Council model (repeatable; server defaults when omitted)")

	return cmd
}
