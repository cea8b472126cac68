package main

import (
	"fmt"
	"os"

	"github.com/everlightos/federation/internal/cli"
	"github.com/everlightos/federation/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := client.NewRootCmd(version)

	if handled, err := cli.CheckHelpJSON(rootCmd, os.Args[1:], os.Stdout); handled {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
