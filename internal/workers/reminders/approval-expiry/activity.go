package approvalexpiry

import (
	"approval-reminders/internal/common/errors"
	"approval-reminders/pkg/registry"
)

const activityVersion = "1.0.0"

// Activity describes the Zeebe job type for the activity registry.
func Activity(taskType string, config *Config) (registry.Activity, error) {
	input, err := registry.SchemaMap(GetInputSchema())
	if err != nil {
		return registry.Activity{}, err
	}
	output, err := registry.SchemaMap(GetOutputSchema())
	if err != nil {
		return registry.Activity{}, err
	}
	if taskType == "" {
		taskType = TaskType
	}

	return registry.Activity{
		ID:           "approval-expiry",
		DisplayName:  "Approval Expiry Reminders",
		Description:  "Emails a reminder for every approved record expiring within the configured window",
		Version:      activityVersion,
		TaskType:     taskType,
		InputSchema:  input,
		OutputSchema: output,
		ErrorCodes: []string{
			string(errors.ErrCodeValidationFailed),
			string(errors.ErrCodeInputParsingFailed),
		},
		Timeout:       config.Timeout.String(),
		MaxJobsActive: config.MaxJobsActive,
		Triggers:      []string{TriggerHTTP, TriggerSchedule, TriggerCLI},
		Tags:          []string{"dynamodb", "ses", "reminders"},
	}, nil
}
