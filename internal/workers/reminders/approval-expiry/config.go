package approvalexpiry

import (
	"fmt"
	"time"

	"approval-reminders/internal/common/config"
	"approval-reminders/internal/models"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
	RunTimeout    time.Duration

	ThresholdDays int
	Placeholder   string
	Templates     TemplateSet

	Approvals config.ApprovalsTableConfig
	Accounts  config.AccountsTableConfig

	ConfigurationSet string
	SummaryTopicARN  string
	AccountTTL       time.Duration
	KeyPrefix        string
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 1,
		Timeout:       5 * time.Minute,
		RunTimeout:    5 * time.Minute,
		ThresholdDays: 30,
		Placeholder:   "APPROVAL_PLACEHOLDER",
		Approvals: config.ApprovalsTableConfig{
			Table:           "Approvals",
			StatusIndex:     "ApprovalStatus-ApprovalApproved-index",
			StatusAttribute: "ApprovalStatus",
			ApprovedStatus:  models.StatusApproved,
		},
		Accounts: config.AccountsTableConfig{
			Table:        "Accounts",
			UIDIndex:     "UID-index",
			UIDAttribute: "UID",
		},
		AccountTTL: time.Hour,
		KeyPrefix:  "reminders",
	}
}

func (c *Config) Validate() error {
	if c.ThresholdDays < 0 {
		return fmt.Errorf("threshold_days must not be negative")
	}
	if c.Placeholder == "" {
		return fmt.Errorf("placeholder is required")
	}
	if c.RunTimeout <= 0 {
		return fmt.Errorf("run_timeout must be positive")
	}
	if c.Enabled && c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.Approvals.Table == "" || c.Approvals.StatusIndex == "" || c.Approvals.StatusAttribute == "" {
		return fmt.Errorf("approvals table, index and status attribute are required")
	}
	if c.Accounts.Table == "" || c.Accounts.UIDIndex == "" || c.Accounts.UIDAttribute == "" {
		return fmt.Errorf("accounts table, index and uid attribute are required")
	}
	return ValidateTemplateSet(c.Templates)
}

// ConfigFromAppConfig maps the application configuration onto the worker.
func ConfigFromAppConfig(app *config.Config) *Config {
	cfg := DefaultConfig()
	if app == nil {
		return cfg
	}

	cfg.Enabled = app.Camunda.Enabled
	if app.Camunda.MaxJobsActive > 0 {
		cfg.MaxJobsActive = app.Camunda.MaxJobsActive
	}
	if app.Camunda.Timeout > 0 {
		cfg.Timeout = config.GetDuration(app.Camunda.Timeout)
	}
	if app.Reminders.RunTimeout > 0 {
		cfg.RunTimeout = config.GetDuration(app.Reminders.RunTimeout)
	}
	// Zero is a valid threshold (today or already expired); the loader
	// supplies the default.
	cfg.ThresholdDays = app.Reminders.ThresholdDays
	if app.Reminders.Placeholder != "" {
		cfg.Placeholder = app.Reminders.Placeholder
	}

	cfg.Approvals = mergeApprovals(cfg.Approvals, app.Store.Approvals)
	cfg.Accounts = mergeAccounts(cfg.Accounts, app.Store.Accounts)
	cfg.Templates = templateSetFromConfig(app.Reminders.Templates)

	cfg.ConfigurationSet = app.AWS.SES.ConfigurationSet
	cfg.SummaryTopicARN = app.AWS.SNS.SummaryTopicARN
	if app.Database.Redis.AccountTTL > 0 {
		cfg.AccountTTL = config.GetDuration(app.Database.Redis.AccountTTL)
	}
	if app.Database.Redis.KeyPrefix != "" {
		cfg.KeyPrefix = app.Database.Redis.KeyPrefix
	}
	return cfg
}

func templateSetFromConfig(tc config.TemplateConfig) TemplateSet {
	set := TemplateSet{
		Default:    toTemplate(tc.Default),
		Facilities: make(map[string]Template, len(tc.Facilities)),
	}
	for _, f := range tc.Facilities {
		set.Facilities[f.Facility] = toTemplate(f)
	}
	return set
}

func toTemplate(t config.EmailTemplate) Template {
	return Template{
		Subject:    t.Subject,
		HTMLBody:   t.HTMLBody,
		TextBody:   t.TextBody,
		Recipients: append([]string(nil), t.Recipients...),
		Sender:     t.Sender,
	}
}

func mergeApprovals(def, in config.ApprovalsTableConfig) config.ApprovalsTableConfig {
	if in.Table != "" {
		def.Table = in.Table
	}
	if in.StatusIndex != "" {
		def.StatusIndex = in.StatusIndex
	}
	if in.StatusAttribute != "" {
		def.StatusAttribute = in.StatusAttribute
	}
	if in.ApprovedStatus != "" {
		def.ApprovedStatus = in.ApprovedStatus
	}
	return def
}

func mergeAccounts(def, in config.AccountsTableConfig) config.AccountsTableConfig {
	if in.Table != "" {
		def.Table = in.Table
	}
	if in.UIDIndex != "" {
		def.UIDIndex = in.UIDIndex
	}
	if in.UIDAttribute != "" {
		def.UIDAttribute = in.UIDAttribute
	}
	return def
}
