package commands

import (
	"github.com/spf13/cobra"

	"goal-tracker-go/internal/app"
	"goal-tracker-go/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, conn, err := app.Connect(log)
		if err != nil {
			return err
		}
		defer closeDB(conn)
		return db.Migrate(cmd.Context(), conn, log)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, conn, err := app.Connect(log)
		if err != nil {
			return err
		}
		defer closeDB(conn)
		return db.MigrateDown(cmd.Context(), conn, log)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, conn, err := app.Connect(log)
		if err != nil {
			return err
		}
		defer closeDB(conn)
		return db.MigrationStatus(cmd.Context(), conn)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}
