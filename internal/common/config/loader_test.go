package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
aws:
  region: ca-central-1
reminders:
  threshold_days: 50
  templates:
    default:
      sender: approvals@example.com
      recipients: [compliance@example.com]
    facilities:
      - facility: "Trail, BC"
        sender: trail@example.com
        recipients: [trail-ops@example.com]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "ca-central-1", cfg.AWS.Region)
	assert.Equal(t, 50, cfg.Reminders.ThresholdDays)
	assert.Equal(t, "APPROVAL_PLACEHOLDER", cfg.Reminders.Placeholder)
	assert.Equal(t, "Approvals", cfg.Store.Approvals.Table)
	assert.Equal(t, "ApprovalStatus-ApprovalApproved-index", cfg.Store.Approvals.StatusIndex)
	assert.Equal(t, "UID-index", cfg.Store.Accounts.UIDIndex)
	assert.Equal(t, "15 15 * * *", cfg.Schedule.Cron)
	assert.Equal(t, "Mark Fowler", cfg.Schedule.Payload["name"])
	assert.Equal(t, ":8080", cfg.Server.Address)

	def := cfg.Reminders.Templates.Default
	assert.Equal(t, "Approval is nearing expiration", def.Subject)
	assert.Contains(t, def.HTMLBody, "APPROVAL_PLACEHOLDER")
	assert.Contains(t, def.TextBody, "APPROVAL_PLACEHOLDER")
}

func TestLoadFromFile_FacilityKeepsCaseAndInheritsDefault(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	require.Len(t, cfg.Reminders.Templates.Facilities, 1)
	trail := cfg.Reminders.Templates.Facilities[0]
	assert.Equal(t, "Trail, BC", trail.Facility)
	assert.Equal(t, "trail@example.com", trail.Sender)
	assert.Equal(t, []string{"trail-ops@example.com"}, trail.Recipients)
	assert.Equal(t, cfg.Reminders.Templates.Default.Subject, trail.Subject)
	assert.Equal(t, cfg.Reminders.Templates.Default.TextBody, trail.TextBody)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("REMINDERS_THRESHOLD_DAYS", "7")
	t.Setenv("AWS_REGION", "eu-west-1")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Reminders.ThresholdDays)
	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.AWS.Region = "us-east-1"
		cfg.Store.Approvals = ApprovalsTableConfig{Table: "Approvals", StatusIndex: "idx"}
		cfg.Store.Accounts = AccountsTableConfig{Table: "Accounts", UIDIndex: "UID-index"}
		cfg.Reminders.ThresholdDays = 30
		cfg.Reminders.Placeholder = "APPROVAL_PLACEHOLDER"
		cfg.Reminders.Templates.Default = EmailTemplate{
			Sender:     "approvals@example.com",
			Recipients: []string{"compliance@example.com"},
		}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero threshold", func(c *Config) { c.Reminders.ThresholdDays = 0 }, ""},
		{"negative threshold", func(c *Config) { c.Reminders.ThresholdDays = -5 }, "threshold_days"},
		{"missing sender", func(c *Config) { c.Reminders.Templates.Default.Sender = "" }, "default.sender"},
		{"missing recipients", func(c *Config) { c.Reminders.Templates.Default.Recipients = nil }, "default.recipients"},
		{"missing region", func(c *Config) { c.AWS.Region = "" }, "aws.region"},
		{"duplicate facility", func(c *Config) {
			c.Reminders.Templates.Facilities = []EmailTemplate{{Facility: "Trail, BC"}, {Facility: "Trail, BC"}}
		}, "duplicate facility"},
		{"schedule without cron", func(c *Config) { c.Schedule.Enabled = true }, "schedule.cron"},
		{"camunda without broker", func(c *Config) { c.Camunda.Enabled = true }, "broker_address"},
		{"kafka topic without brokers", func(c *Config) { c.Messaging.Kafka.SummaryTopic = "runs" }, "messaging.kafka.brokers"},
		{"tracing without endpoint", func(c *Config) { c.Tracing.Enabled = true }, "jaeger_endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, "1.5s", GetDuration(1500).String())
}
