package client

import (
	"fmt"
	"net/url"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/everlightos/federation/internal/api/handlers"
)

// BucketCmd groups the object-store commands.
func BucketCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bucket",
		Short: "Inspect and ingest the document bucket",
	}
	cmd.AddCommand(bucketListCmd(), bucketIngestCmd())
	return cmd
}

func bucketListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [prefix]",
		Short: "List objects in the bucket",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/list-bucket"
			if len(args) == 1 && args[0] != "" {
				path += "?prefix=" + url.QueryEscape(args[0])
			}

			api := NewAPIClientWithCmd(cmd)
			raw, err := api.Get(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("list failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if outputJSON(cmd) {
				return printRaw(out, raw)
			}

			resp, err := decode[handlers.ListBucketResponse](raw)
			if err != nil {
				return err
			}
			if resp.TotalObjects == 0 {
				fmt.Fprintln(out, "No objects found.")
				return nil
			}
			for _, o := range resp.Objects {
				fmt.Fprintf(out, "%10d  %s  %s\n", o.Size, o.Uploaded, o.Key)
			}
			fmt.Fprintf(out, "\n%d objects\n", resp.TotalObjects)
			return nil
		},
	}
}

func bucketIngestCmd() *cobra.Command {
	var maxFiles int

	cmd := &cobra.Command{
		Use:   "ingest [folder]",
		Short: "Ingest uploaded chunks from a bucket folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := handlers.BulkRequest{MaxFiles: maxFiles}
			if len(args) == 1 {
				req.FolderPath = args[0]
			}

			api := NewAPIClientWithCmd(cmd)
			raw, err := api.Post(cmd.Context(), "/api/ingest-voyagers", req)
			if err != nil {
				return fmt.Errorf("bulk ingest failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if outputJSON(cmd) {
				return printRaw(out, raw)
			}

			resp, err := decode[handlers.BulkResponse](raw)
			if err != nil {
				return err
			}
			if !resp.Success {
				empty, err := decode[handlers.BulkEmptyResponse](raw)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, color.YellowString("%s", empty.Message))
				if empty.Note != "" {
					fmt.Fprintln(out, empty.Note)
				}
				return nil
			}

			fmt.Fprintln(out, resp.Message)
			fmt.Fprintf(out, "Found %d files in %s\n", resp.TotalFilesFound, resp.FolderPath)
			fmt.Fprintf(out, "%s %d processed", color.GreenString("✓"), resp.Results.Processed)
			if resp.Results.Failed > 0 {
				fmt.Fprintf(out, ", %s", color.RedString("%d failed", resp.Results.Failed))
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&maxFiles, "max", "n", 0, "Maximum files to process (server default when 0)")

	return cmd
}
