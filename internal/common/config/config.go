// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Store     StoreConfig     `mapstructure:"store"`
	Reminders RemindersConfig `mapstructure:"reminders"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Camunda   CamundaConfig   `mapstructure:"camunda"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Messaging MessagingConfig `mapstructure:"messaging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// AWSConfig holds region and per-service settings. Endpoint overrides the
// resolved endpoint for every client (local DynamoDB, localstack).
type AWSConfig struct {
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
	SES      struct {
		ConfigurationSet string `mapstructure:"configuration_set"`
	} `mapstructure:"ses"`
	SNS struct {
		SummaryTopicARN string `mapstructure:"summary_topic_arn"`
	} `mapstructure:"sns"`
}

// StoreConfig names the DynamoDB tables, indexes and attributes the scan uses.
type StoreConfig struct {
	Approvals ApprovalsTableConfig `mapstructure:"approvals"`
	Accounts  AccountsTableConfig  `mapstructure:"accounts"`
}

type ApprovalsTableConfig struct {
	Table           string `mapstructure:"table"`
	StatusIndex     string `mapstructure:"status_index"`
	StatusAttribute string `mapstructure:"status_attribute"`
	ApprovedStatus  string `mapstructure:"approved_status"`
}

type AccountsTableConfig struct {
	Table        string `mapstructure:"table"`
	UIDIndex     string `mapstructure:"uid_index"`
	UIDAttribute string `mapstructure:"uid_attribute"`
}

type RemindersConfig struct {
	ThresholdDays int            `mapstructure:"threshold_days"`
	Placeholder   string         `mapstructure:"placeholder"`
	RunTimeout    int            `mapstructure:"run_timeout"` // milliseconds
	Templates     TemplateConfig `mapstructure:"templates"`
}

// TemplateConfig is the facility to template mapping. Facilities is a list
// rather than a map because viper lower-cases map keys and facility names
// such as "Trail, BC" must match exactly.
type TemplateConfig struct {
	Default    EmailTemplate   `mapstructure:"default"`
	Facilities []EmailTemplate `mapstructure:"facilities"`
}

type EmailTemplate struct {
	Facility   string   `mapstructure:"facility"`
	Subject    string   `mapstructure:"subject"`
	HTMLBody   string   `mapstructure:"html_body"`
	TextBody   string   `mapstructure:"text_body"`
	Recipients []string `mapstructure:"recipients"`
	Sender     string   `mapstructure:"sender"`
}

type ScheduleConfig struct {
	Enabled bool                   `mapstructure:"enabled"`
	Cron    string                 `mapstructure:"cron"`
	Payload map[string]interface{} `mapstructure:"payload"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig is optional; an empty Address disables the account cache and
// last-run record.
type RedisConfig struct {
	Address    string `mapstructure:"address"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	AccountTTL int    `mapstructure:"account_ttl"` // milliseconds
	KeyPrefix  string `mapstructure:"key_prefix"`
}

// CamundaConfig enables the optional Zeebe job worker trigger.
type CamundaConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	BrokerAddress string `mapstructure:"broker_address"`
	TaskType      string `mapstructure:"task_type"`
	MaxJobsActive int    `mapstructure:"max_jobs_active"`
	Timeout       int    `mapstructure:"timeout"` // milliseconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TracingConfig exports run and per-record spans to a Jaeger collector.
type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

type MessagingConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka"`
}

// KafkaConfig enables the run summary topic when both fields are set.
type KafkaConfig struct {
	Brokers      []string `mapstructure:"brokers"`
	SummaryTopic string   `mapstructure:"summary_topic"`
}
