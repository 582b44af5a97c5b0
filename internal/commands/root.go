// Package commands holds the goal-tracker CLI.
package commands

import (
	"time"

	"github.com/spf13/cobra"

	"goal-tracker-go/pkg/logger"
)

var log logger.Logger

var rootCmd = &cobra.Command{
	Use:           "goal-tracker",
	Short:         "Goal tracking API server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		log = logger.NewFromEnv()
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		logger.Flush(2 * time.Second)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command; with no subcommand it serves HTTP.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
