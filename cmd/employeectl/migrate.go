package main

import (
	"github.com/spf13/cobra"

	"github.com/finclutech/employee-service/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, logger, err := openApp(cmd.Context(), func(cfg *config.Config) {
			cfg.Postgres.RunMigrations = true
		})
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
		defer app.Close()

		cmd.Printf("schema ready (%s)\n", app.Config.Storage.Driver)
		return nil
	},
}
