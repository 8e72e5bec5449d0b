package main

import (
	"os"

	"approval-reminders/internal/common/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reminder-service",
	Short: "Approval expiry reminder service",
	Long: `Scans approved records for approvals nearing expiration and emails a
reminder per record. Runs are triggered over HTTP, on a daily schedule,
by a Zeebe job or once from the command line.`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: configs/config.yaml under the project root)")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}
