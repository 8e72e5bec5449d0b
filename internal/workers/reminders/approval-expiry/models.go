package approvalexpiry

import (
	"time"

	"approval-reminders/internal/common/logger"
	"approval-reminders/internal/common/observability"
)

// Input is the trigger payload. Only Name is interpreted; the whole payload is
// echoed back as Event.
type Input struct {
	Name  string                 `json:"name"`
	Event map[string]interface{} `json:"-"`
}

// Output is returned to every trigger regardless of per-record failures.
type Output struct {
	Message string                 `json:"message"`
	Event   map[string]interface{} `json:"event"`
}

// Template is the message layout and addressing for one facility.
type Template struct {
	Subject    string   `json:"subject"`
	HTMLBody   string   `json:"htmlBody"`
	TextBody   string   `json:"textBody"`
	Recipients []string `json:"recipients"`
	Sender     string   `json:"sender"`
}

// TemplateSet maps facility names to templates. Lookup is exact; facilities
// without an entry use Default.
type TemplateSet struct {
	Default    Template            `json:"default"`
	Facilities map[string]Template `json:"facilities"`
}

type ServiceDependencies struct {
	Logger        logger.Logger
	Approvals     ApprovalSource
	Accounts      AccountResolver
	Sender        EmailSender
	Sinks         []SummarySink
	Observability *observability.Observability
	Clock         func() time.Time
}
