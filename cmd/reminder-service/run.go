package main

import (
	"encoding/json"
	"fmt"

	"approval-reminders/internal/common/config"
	approvalexpiry "approval-reminders/internal/workers/reminders/approval-expiry"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one reminder run and print the response",
	Long: `Execute one reminder run with the given payload (default: the schedule
payload from config) and print the {message, event} response as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		payload := cfg.Schedule.Payload
		if raw, _ := cmd.Flags().GetString("payload"); raw != "" {
			payload = map[string]interface{}{}
			if err := json.Unmarshal([]byte(raw), &payload); err != nil {
				return fmt.Errorf("parse --payload: %w", err)
			}
		}
		if name, _ := cmd.Flags().GetString("name"); name != "" {
			payload = withName(payload, name)
		}

		return runOnce(cmd, cfg, payload)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("payload", "", "JSON trigger payload")
	runCmd.Flags().String("name", "", "Name to greet, overrides the payload name")
}

func runOnce(cmd *cobra.Command, cfg *config.Config, payload map[string]interface{}) error {
	validator, err := approvalexpiry.NewInputValidator()
	if err != nil {
		return err
	}
	input, err := validator.Parse(payload)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	output, _ := a.service.Run(ctx, approvalexpiry.TriggerCLI, input)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// withName returns a copy of payload with name set.
func withName(payload map[string]interface{}, name string) map[string]interface{} {
	out := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		out[k] = v
	}
	out["name"] = name
	return out
}
