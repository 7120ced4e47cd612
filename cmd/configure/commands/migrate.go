package commands

import (
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/cfbdemic/allies/internal/database"
)

// NewMigrateCmd creates the migrate command
func NewMigrateCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  "Apply all pending database migrations, or roll back one step with --down",
		RunE: func(cmd *cobra.Command, args []string) error {
			databaseURL := os.Getenv("DATABASE_URL")
			if databaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}

			if !down {
				if err := database.RunMigrations(databaseURL); err != nil {
					return err
				}
				fmt.Println("Migrations applied")
				return nil
			}

			m, err := database.NewMigrator(databaseURL)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Steps(-1); err != nil && err != migrate.ErrNoChange {
				return fmt.Errorf("failed to roll back migration: %w", err)
			}
			fmt.Println("Rolled back one migration")
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "Roll back one migration step")

	return cmd
}
