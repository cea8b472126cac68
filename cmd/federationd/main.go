package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/everlightos/federation/internal/cli"
	"github.com/everlightos/federation/internal/cli/daemon"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "federationd",
		Short: "EverLightOS Federation daemon",
		Long:  "Federation daemon for running the API server, migrating the database and uploading document chunks",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(daemon.ServeCmd())
	rootCmd.AddCommand(daemon.MigrateCmd())
	rootCmd.AddCommand(daemon.UploadCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if handled, err := cli.CheckHelpJSON(rootCmd, os.Args[1:], os.Stdout); handled {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
