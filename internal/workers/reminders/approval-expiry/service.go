package approvalexpiry

import (
	"context"
	"fmt"
	"time"

	"approval-reminders/internal/common/errors"
	"approval-reminders/internal/common/logger"
	"approval-reminders/internal/common/metrics"
	"approval-reminders/internal/common/observability"
	"approval-reminders/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const codeRunCancelled = "RUN_CANCELLED"

// Service runs the scan: query approvals, filter expiring, then for each
// record resolve the account, compose and send. One record failing never
// stops the others, and the caller always gets the success payload.
type Service struct {
	config    *Config
	logger    logger.Logger
	approvals ApprovalSource
	accounts  AccountResolver
	sender    EmailSender
	sinks     []SummarySink
	obs       *observability.Observability
	now       func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	obs := deps.Observability
	if obs == nil {
		obs = observability.NewNoop()
	}
	return &Service{
		config:    config,
		logger:    log,
		approvals: deps.Approvals,
		accounts:  deps.Accounts,
		sender:    deps.Sender,
		sinks:     deps.Sinks,
		obs:       obs,
		now:       now,
	}
}

// Run executes one scan for the given trigger. The summary is also handed to
// every configured sink.
func (s *Service) Run(ctx context.Context, trigger string, input *Input) (*Output, *models.RunSummary) {
	if input == nil {
		input = &Input{}
	}
	metrics.ReminderRunsActive.Inc()
	defer metrics.ReminderRunsActive.Dec()

	ctx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	summary := &models.RunSummary{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		StartedAt: s.now().UTC(),
	}
	ctx, span := s.obs.StartSpan(ctx, "reminder.run",
		attribute.String("reminder.run_id", summary.RunID),
		attribute.String("reminder.trigger", trigger),
	)
	log := s.logger.WithFields(map[string]interface{}{
		"runId":   summary.RunID,
		"trigger": trigger,
	})
	log.Info("Approval reminder run started", map[string]interface{}{
		"thresholdDays": s.config.ThresholdDays,
	})

	s.scan(ctx, log, summary)

	summary.FinishedAt = s.now().UTC()
	s.finish(ctx, log, summary)

	span.SetAttributes(
		attribute.String("reminder.outcome", summary.Outcome()),
		attribute.Int("reminder.scanned", summary.Scanned),
		attribute.Int("reminder.sent", summary.Sent),
		attribute.Int("reminder.failed", summary.Failed),
	)
	observability.EndSpan(span, nil)

	return &Output{
		Message: greeting(input),
		Event:   input.Event,
	}, summary
}

func (s *Service) scan(ctx context.Context, log logger.Logger, summary *models.RunSummary) {
	records, err := s.approvals.QueryApprovedRecords(ctx)
	if err != nil {
		summary.QueryFailed = true
		metrics.ReminderFailuresTotal.WithLabelValues(errors.CodeOf(err)).Inc()
		log.WithError(err).Error("Approvals query failed", map[string]interface{}{
			"errorCode": errors.CodeOf(err),
		})
		return
	}
	summary.Scanned = len(records)
	metrics.ReminderRecordsTotal.WithLabelValues("scanned").Add(float64(len(records)))

	filter := ExpirationFilter{
		ThresholdDays:  s.config.ThresholdDays,
		ApprovedStatus: s.config.Approvals.ApprovedStatus,
	}
	result := filter.Apply(records, s.now())

	summary.Skipped = len(result.Skipped)
	for _, sk := range result.Skipped {
		metrics.ReminderRecordsTotal.WithLabelValues("skipped").Inc()
		log.Warn("Skipping approval with unparseable expiration", map[string]interface{}{
			"aid":       sk.Record.AccountID,
			"facility":  sk.Record.Facility,
			"expires":   sk.Record.Expires,
			"errorCode": errors.CodeOf(sk.Err),
		})
	}

	summary.Expiring = len(result.Expiring)
	metrics.ReminderRecordsTotal.WithLabelValues("expiring").Add(float64(len(result.Expiring)))
	log.Info("Approvals expiring", map[string]interface{}{
		"scanned":  summary.Scanned,
		"expiring": summary.Expiring,
		"skipped":  summary.Skipped,
	})

	for i, rec := range result.Expiring {
		if ctx.Err() != nil {
			remaining := len(result.Expiring) - i
			for j := 0; j < remaining; j++ {
				summary.AddFailure(codeRunCancelled)
			}
			metrics.ReminderFailuresTotal.WithLabelValues(codeRunCancelled).Add(float64(remaining))
			log.Error("Run cancelled before all notifications were sent", map[string]interface{}{
				"remaining": remaining,
				"error":     ctx.Err().Error(),
			})
			return
		}

		receipt, err := s.notify(ctx, rec)
		if err != nil {
			code := errors.CodeOf(err)
			summary.AddFailure(code)
			metrics.ReminderFailuresTotal.WithLabelValues(code).Inc()
			log.WithError(err).Error("Approval reminder failed", map[string]interface{}{
				"aid":       rec.AccountID,
				"facility":  rec.Facility,
				"errorCode": code,
			})
			continue
		}

		summary.Sent++
		metrics.ReminderRecordsTotal.WithLabelValues("sent").Inc()
		s.obs.RecordSent(ctx, rec.Facility, 1)
		log.Info("Approval reminder sent", map[string]interface{}{
			"aid":             rec.AccountID,
			"facility":        rec.Facility,
			"daysUntilExpiry": rec.DaysUntilExpiry,
			"messageId":       receipt.MessageID,
		})
	}
}

// notify handles one record. The account must resolve before a message is built.
func (s *Service) notify(ctx context.Context, rec models.ApprovalRecord) (receipt *models.DeliveryReceipt, err error) {
	ctx, span := s.obs.StartSpan(ctx, "reminder.notify",
		attribute.String("reminder.facility", rec.Facility),
		attribute.Int("reminder.days_until_expiry", rec.DaysUntilExpiry),
	)
	defer func() { observability.EndSpan(span, err) }()

	accountName, err := s.accounts.ResolveAccountName(ctx, rec.AccountID)
	if err != nil {
		return nil, err
	}

	msg, err := ComposeMessage(rec, accountName, s.config.Templates, s.config.Placeholder)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Mail ready to send", map[string]interface{}{
		"aid":        rec.AccountID,
		"recipients": msg.Recipients,
		"sender":     msg.Sender,
		"subject":    msg.Subject,
	})

	return s.sender.Send(ctx, msg)
}

func (s *Service) finish(ctx context.Context, log logger.Logger, summary *models.RunSummary) {
	outcome := summary.Outcome()
	metrics.ReminderRunsTotal.WithLabelValues(summary.Trigger, outcome).Inc()
	metrics.ReminderRunDuration.WithLabelValues(summary.Trigger).Observe(summary.Duration().Seconds())
	s.obs.RecordRun(ctx, summary.Trigger, outcome, summary.Duration())

	log.Info("Approval reminder run finished", map[string]interface{}{
		"outcome":    outcome,
		"scanned":    summary.Scanned,
		"expiring":   summary.Expiring,
		"sent":       summary.Sent,
		"failed":     summary.Failed,
		"skipped":    summary.Skipped,
		"failures":   summary.Failures,
		"durationMs": summary.Duration().Milliseconds(),
	})

	// Sinks get their own deadline so a timed-out run still records its summary.
	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	for _, sink := range s.sinks {
		if err := sink.Record(sinkCtx, summary); err != nil {
			log.WithError(err).Warn("Run summary sink failed", map[string]interface{}{
				"sink": sink.Name(),
			})
		}
	}
}

func greeting(input *Input) string {
	if input.Name == "" {
		return "Hello, approval reminder run complete!"
	}
	return fmt.Sprintf("Hello %s, approval reminder run complete!", input.Name)
}
