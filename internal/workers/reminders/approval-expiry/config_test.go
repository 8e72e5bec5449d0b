package approvalexpiry

import (
	"testing"
	"time"

	"approval-reminders/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromAppConfig(t *testing.T) {
	app := &config.Config{}
	app.Camunda.Enabled = true
	app.Camunda.MaxJobsActive = 2
	app.Camunda.Timeout = 60000
	app.Reminders.ThresholdDays = 50
	app.Reminders.Placeholder = "{{APPROVAL}}"
	app.Reminders.RunTimeout = 120000
	app.Store.Approvals.Table = "ApprovalsV2"
	app.AWS.SES.ConfigurationSet = "reminders"
	app.AWS.SNS.SummaryTopicARN = testTopicARN
	app.Database.Redis.AccountTTL = 600000
	app.Reminders.Templates = config.TemplateConfig{
		Default: config.EmailTemplate{
			Subject:    "Approval is nearing expiration",
			Sender:     "approvals@example.com",
			Recipients: []string{"compliance@example.com"},
		},
		Facilities: []config.EmailTemplate{{
			Facility:   "Trail, BC",
			Subject:    "Approval is nearing expiration",
			Sender:     "trail-approvals@example.com",
			Recipients: []string{"trail-ops@example.com"},
		}},
	}

	cfg := ConfigFromAppConfig(app)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 2, cfg.MaxJobsActive)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.RunTimeout)
	assert.Equal(t, 50, cfg.ThresholdDays)
	assert.Equal(t, "{{APPROVAL}}", cfg.Placeholder)
	assert.Equal(t, "ApprovalsV2", cfg.Approvals.Table)
	assert.Equal(t, "ApprovalStatus-ApprovalApproved-index", cfg.Approvals.StatusIndex)
	assert.Equal(t, "Accounts", cfg.Accounts.Table)
	assert.Equal(t, "reminders", cfg.ConfigurationSet)
	assert.Equal(t, testTopicARN, cfg.SummaryTopicARN)
	assert.Equal(t, 10*time.Minute, cfg.AccountTTL)

	require.Contains(t, cfg.Templates.Facilities, "Trail, BC")
	assert.Equal(t, "trail-approvals@example.com", cfg.Templates.Facilities["Trail, BC"].Sender)
	assert.Equal(t, "approvals@example.com", cfg.Templates.Default.Sender)
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromAppConfig_ZeroThreshold(t *testing.T) {
	app := &config.Config{}
	app.Reminders.ThresholdDays = 0
	app.Reminders.Templates.Default = config.EmailTemplate{
		Subject:    "Approval has expired",
		Sender:     "approvals@example.com",
		Recipients: []string{"compliance@example.com"},
	}

	cfg := ConfigFromAppConfig(app)

	assert.Equal(t, 0, cfg.ThresholdDays)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero threshold", func(c *Config) { c.ThresholdDays = 0 }, ""},
		{"negative threshold", func(c *Config) { c.ThresholdDays = -1 }, "threshold_days"},
		{"no placeholder", func(c *Config) { c.Placeholder = "" }, "placeholder"},
		{"no run timeout", func(c *Config) { c.RunTimeout = 0 }, "run_timeout"},
		{"no approvals index", func(c *Config) { c.Approvals.StatusIndex = "" }, "approvals"},
		{"no accounts table", func(c *Config) { c.Accounts.Table = "" }, "accounts"},
		{"default without sender", func(c *Config) { c.Templates.Default.Sender = "" }, "sender is required"},
		{"bad recipient", func(c *Config) {
			c.Templates.Facilities["Trail, BC"] = Template{
				Subject: "s", Sender: "trail@example.com", Recipients: []string{"not-an-address"},
			}
		}, "invalid recipient"},
		{"default without recipients", func(c *Config) { c.Templates.Default.Recipients = nil }, "recipient"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInputValidator_Parse(t *testing.T) {
	v, err := NewInputValidator()
	require.NoError(t, err)

	input, err := v.Parse(map[string]interface{}{"name": "Mark Fowler", "extra": 1.0})
	require.NoError(t, err)
	assert.Equal(t, "Mark Fowler", input.Name)
	assert.Equal(t, 1.0, input.Event["extra"])

	_, err = v.Parse(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}
