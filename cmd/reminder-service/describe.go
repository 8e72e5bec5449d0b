package main

import (
	"fmt"
	"io"
	"os"
	"time"

	approvalexpiry "approval-reminders/internal/workers/reminders/approval-expiry"
	"approval-reminders/pkg/registry"

	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the activity registry entry for the Zeebe job type",
	Long: `Print the activity registry entry for the reminder job type. With
--registry the entry is merged into an existing registry file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		activity, err := approvalexpiry.Activity(cfg.Camunda.TaskType, approvalexpiry.ConfigFromAppConfig(cfg))
		if err != nil {
			return err
		}

		reg := &registry.ActivityRegistry{Version: cfg.App.Version}
		path, _ := cmd.Flags().GetString("registry")
		if path != "" {
			loaded, err := registry.LoadRegistry(path)
			switch {
			case err == nil:
				reg = loaded
			case !os.IsNotExist(err):
				return fmt.Errorf("load registry: %w", err)
			}
		}
		reg.Upsert(activity)
		reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)

		if path == "" {
			return reg.Write(cmd.OutOrStdout())
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		return writeAndClose(f, reg)
	},
}

// writeAndClose writes reg to w. A Close failure is returned when the write
// itself succeeded.
func writeAndClose(w io.WriteCloser, reg *registry.ActivityRegistry) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close registry: %w", cerr)
		}
	}()
	return reg.Write(w)
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().String("registry", "", "Registry file to update in place")
}
