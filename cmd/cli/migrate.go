package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/lojista/backoffice-service/internal/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Apply the database schema to the configured database. Statements are
idempotent, so running migrate against an existing database is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Migrate(context.Background()); err != nil {
			return err
		}
		logger.Info().Msg("Schema applied")
		database.Close()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
