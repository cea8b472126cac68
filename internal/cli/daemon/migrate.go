package daemon

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/everlightos/federation/internal/app"
	"github.com/everlightos/federation/internal/database"
	"github.com/everlightos/federation/migrations"
)

// MigrateCmd manages the embedded schema migrations.
func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := databaseURL(cmd)
			if err != nil {
				return err
			}
			if err := database.Migrate(url, migrations.FS); err != nil {
				return err
			}
			return printVersion(cmd, url)
		},
	})

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			url, err := databaseURL(cmd)
			if err != nil {
				return err
			}
			if err := database.MigrateDown(url, migrations.FS, steps); err != nil {
				return err
			}
			return printVersion(cmd, url)
		},
	}
	down.Flags().Int("steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := databaseURL(cmd)
			if err != nil {
				return err
			}
			return printVersion(cmd, url)
		},
	})

	return cmd
}

func databaseURL(cmd *cobra.Command) (string, error) {
	cfg, err := app.LoadConfig(cmd.Context())
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.DatabaseURL, nil
}

func printVersion(cmd *cobra.Command, url string) error {
	version, dirty, err := database.Version(url, migrations.FS)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return nil
}
