package client

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/everlightos/federation/internal/api/handlers"
)

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	var (
		model     string
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Chat with a model",
		Long:  "Sends a single message to /api/chat and prints the reply.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := NewAPIClientWithCmd(cmd)
			raw, err := api.Post(cmd.Context(), "/api/chat", handlers.ChatRequest{
				Message:   args[0],
				Model:     model,
				SessionID: sessionID,
			})
			if err != nil {
				return fmt.Errorf("chat failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if outputJSON(cmd) {
				return printRaw(out, raw)
			}

			resp, err := decode[handlers.ChatResponse](raw)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, resp.Response)
			fmt.Fprintln(out, color.New(color.Faint).Sprintf("(%s)", resp.Model))
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to use (server default when empty)")
	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID recorded with the conversation")

	return cmd
}
