package scheduler

import (
	"context"
	"fmt"
	"time"

	"approval-reminders/internal/common/logger"
	approvalexpiry "approval-reminders/internal/workers/reminders/approval-expiry"

	"github.com/robfig/cron/v3"
)

// Config is the fixed schedule trigger: a five-field cron expression
// evaluated in UTC and the payload passed to every run.
type Config struct {
	Cron    string
	Payload map[string]interface{}
}

// Scheduler invokes the runner on a cron schedule. Overlapping ticks are
// skipped rather than queued.
type Scheduler struct {
	cron    *cron.Cron
	runner  approvalexpiry.Runner
	input   *approvalexpiry.Input
	logger  logger.Logger
	entryID cron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
}

// New validates the payload once up front so a bad schedule fails at startup
// instead of on every tick.
func New(cfg Config, runner approvalexpiry.Runner, log logger.Logger) (*Scheduler, error) {
	if runner == nil {
		return nil, fmt.Errorf("scheduler requires a runner")
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	validator, err := approvalexpiry.NewInputValidator()
	if err != nil {
		return nil, fmt.Errorf("compile input schema: %w", err)
	}
	input, err := validator.Parse(cfg.Payload)
	if err != nil {
		return nil, fmt.Errorf("schedule payload: %w", err)
	}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		runner: runner,
		input:  input,
		logger: log.WithFields(map[string]interface{}{"component": "scheduler"}),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	id, err := s.cron.AddFunc(cfg.Cron, s.Tick)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", cfg.Cron, err)
	}
	s.entryID = id
	return s, nil
}

// Tick performs one scheduled run.
func (s *Scheduler) Tick() {
	_, summary := s.runner.Run(s.ctx, approvalexpiry.TriggerSchedule, s.input)
	if summary == nil {
		return
	}
	s.logger.Info("Scheduled run finished", map[string]interface{}{
		"runId":   summary.RunID,
		"outcome": summary.Outcome(),
		"next":    s.Next().Format(time.RFC3339),
	})
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", map[string]interface{}{
		"next": s.Next().Format(time.RFC3339),
	})
}

// Stop cancels an in-flight run and waits for it to return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped", nil)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next is the next scheduled activation, zero before Start.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}
