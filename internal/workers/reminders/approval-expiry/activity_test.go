package approvalexpiry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivity(t *testing.T) {
	a, err := Activity("", DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, TaskType, a.TaskType)
	assert.Equal(t, "5m0s", a.Timeout)
	assert.Equal(t, []interface{}{"name"}, a.InputSchema["required"])
	assert.Contains(t, a.OutputSchema["properties"], "message")
	assert.Contains(t, a.ErrorCodes, "VALIDATION_FAILED")
	assert.Equal(t, 1, a.MaxJobsActive)
	assert.Equal(t, []string{"http", "schedule", "cli"}, a.Triggers)

	custom, err := Activity("custom.reminder.scan", DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "custom.reminder.scan", custom.TaskType)
}
