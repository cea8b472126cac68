package client

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/everlightos/federation/internal/api/handlers"
)

// IngestCmd creates the ingest command.
func IngestCmd() *cobra.Command {
	var (
		title  string
		source string
		tags   []string
	)

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest a document",
		Long:  "Reads a text file (or - for stdin) and stores it through /api/ingest.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var content []byte
			var err error
			if path == "-" {
				content, err = io.ReadAll(cmd.InOrStdin())
			} else {
				content, err = os.ReadFile(path)
			}
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			if strings.TrimSpace(string(content)) == "" {
				return fmt.Errorf("%s is empty", path)
			}

			if title == "" && path != "-" {
				title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			if source == "" && path != "-" {
				source = path
			}

			api := NewAPIClientWithCmd(cmd)
			raw, err := api.Post(cmd.Context(), "/api/ingest", handlers.IngestRequest{
				Title:   title,
				Content: string(content),
				Source:  source,
				Tags:    tags,
			})
			if err != nil {
				return fmt.Errorf("ingest failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if outputJSON(cmd) {
				return printRaw(out, raw)
			}

			resp, err := decode[handlers.IngestResponse](raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n", color.GreenString("✓"), resp.Message)
			fmt.Fprintf(out, "  ID: %s\n", resp.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Document title (defaults to the file name)")
	cmd.Flags().StringVarP(&source, "source", "s", "", "Source label (defaults to the file path)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag to attach (repeatable)")

	return cmd
}
