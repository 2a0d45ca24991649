package main

import (
	"errors"

	"study-buddy/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the generation event log schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.DBEnabled() {
			return errors.New("database is not configured (set DB_HOST)")
		}
		dir, _ := cmd.Flags().GetString("dir")

		db, err := database.NewSQLXOracleDB(cfg.GetDSN())
		if err != nil {
			return err
		}
		defer db.Close()

		_, err = database.RunMigrations(cmd.Context(), db.DB, dir)
		return err
	},
}

func init() {
	migrateCmd.Flags().String("dir", database.DefaultMigrationsDir, "Directory containing *.up.sql files")
}
