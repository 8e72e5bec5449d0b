// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges configs/config.<APP_ENVIRONMENT>.yaml
// on top, applies environment overrides and validates the result.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // env overlay is optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	paths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		paths = append(paths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "$") {
			continue
		}
		if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
			v.Set(key, expanded)
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "approval-reminders")
	v.SetDefault("app.environment", "development")

	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("aws.ses.configuration_set", "")
	v.SetDefault("aws.sns.summary_topic_arn", "")

	v.SetDefault("store.approvals.table", "Approvals")
	v.SetDefault("store.approvals.status_index", "ApprovalStatus-ApprovalApproved-index")
	v.SetDefault("store.approvals.status_attribute", "ApprovalStatus")
	v.SetDefault("store.approvals.approved_status", "Approved")
	v.SetDefault("store.accounts.table", "Accounts")
	v.SetDefault("store.accounts.uid_index", "UID-index")
	v.SetDefault("store.accounts.uid_attribute", "UID")

	v.SetDefault("reminders.threshold_days", 30)
	v.SetDefault("reminders.placeholder", "APPROVAL_PLACEHOLDER")
	v.SetDefault("reminders.run_timeout", 300000)

	v.SetDefault("schedule.enabled", true)
	v.SetDefault("schedule.cron", "15 15 * * *")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdown_timeout", 10000)

	v.SetDefault("database.redis.address", "")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("database.redis.account_ttl", 3600000)
	v.SetDefault("database.redis.key_prefix", "reminders")

	v.SetDefault("camunda.enabled", false)
	v.SetDefault("camunda.broker_address", "")
	v.SetDefault("camunda.task_type", "approval.reminder.scan")
	v.SetDefault("camunda.max_jobs_active", 1)
	v.SetDefault("camunda.timeout", 300000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "")
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("messaging.kafka.brokers", []string{})
	v.SetDefault("messaging.kafka.summary_topic", "")
}

// applyDefaults fills values viper defaults cannot express.
func applyDefaults(cfg *Config) {
	if len(cfg.Schedule.Payload) == 0 {
		cfg.Schedule.Payload = map[string]interface{}{"name": "Mark Fowler"}
	}

	def := &cfg.Reminders.Templates.Default
	if def.Subject == "" {
		def.Subject = "Approval is nearing expiration"
	}
	if def.HTMLBody == "" {
		def.HTMLBody = "<html><body>Approval expiring:<br/>" + cfg.Reminders.Placeholder + "</body></html>"
	}
	if def.TextBody == "" {
		def.TextBody = "Approval expiring: " + cfg.Reminders.Placeholder
	}

	// Facility entries inherit anything they leave blank from the default entry.
	for i := range cfg.Reminders.Templates.Facilities {
		f := &cfg.Reminders.Templates.Facilities[i]
		if f.Subject == "" {
			f.Subject = def.Subject
		}
		if f.HTMLBody == "" {
			f.HTMLBody = def.HTMLBody
		}
		if f.TextBody == "" {
			f.TextBody = def.TextBody
		}
		if len(f.Recipients) == 0 {
			f.Recipients = def.Recipients
		}
		if f.Sender == "" {
			f.Sender = def.Sender
		}
	}
}

func validateConfig(cfg *Config) error {
	if cfg.AWS.Region == "" {
		return fmt.Errorf("aws.region is required")
	}
	if cfg.Store.Approvals.Table == "" || cfg.Store.Approvals.StatusIndex == "" {
		return fmt.Errorf("store.approvals.table and store.approvals.status_index are required")
	}
	if cfg.Store.Accounts.Table == "" || cfg.Store.Accounts.UIDIndex == "" {
		return fmt.Errorf("store.accounts.table and store.accounts.uid_index are required")
	}
	if cfg.Reminders.ThresholdDays < 0 {
		return fmt.Errorf("reminders.threshold_days must not be negative")
	}
	if cfg.Reminders.Placeholder == "" {
		return fmt.Errorf("reminders.placeholder is required")
	}
	if cfg.Reminders.Templates.Default.Sender == "" {
		return fmt.Errorf("reminders.templates.default.sender is required")
	}
	if len(cfg.Reminders.Templates.Default.Recipients) == 0 {
		return fmt.Errorf("reminders.templates.default.recipients is required")
	}

	seen := make(map[string]bool)
	for i, f := range cfg.Reminders.Templates.Facilities {
		if f.Facility == "" {
			return fmt.Errorf("reminders.templates.facilities[%d].facility is required", i)
		}
		if seen[f.Facility] {
			return fmt.Errorf("reminders.templates.facilities: duplicate facility %q", f.Facility)
		}
		seen[f.Facility] = true
	}

	if cfg.Schedule.Enabled && cfg.Schedule.Cron == "" {
		return fmt.Errorf("schedule.cron is required when schedule is enabled")
	}
	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required when camunda is enabled")
	}
	if cfg.Messaging.Kafka.SummaryTopic != "" && len(cfg.Messaging.Kafka.Brokers) == 0 {
		return fmt.Errorf("messaging.kafka.brokers is required when summary_topic is set")
	}
	if cfg.Tracing.Enabled && cfg.Tracing.JaegerEndpoint == "" {
		return fmt.Errorf("tracing.jaeger_endpoint is required when tracing is enabled")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
