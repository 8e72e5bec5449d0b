package approvalexpiry

import (
	"context"
	"fmt"

	"approval-reminders/internal/common/camunda"
	"approval-reminders/internal/common/config"
	"approval-reminders/internal/common/errors"
	"approval-reminders/internal/common/logger"
	"approval-reminders/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "approval.reminder.scan"

	TriggerHTTP     = "http"
	TriggerSchedule = "schedule"
	TriggerZeebe    = "zeebe"
	TriggerCLI      = "cli"
)

// Runner executes one reminder run. *Service implements it.
type Runner interface {
	Run(ctx context.Context, trigger string, input *Input) (*Output, *models.RunSummary)
}

// Handler exposes the run as a Zeebe job worker.
type Handler struct {
	config     *Config
	logger     logger.Logger
	camunda    *camunda.Client
	runner     Runner
	validator  *InputValidator
	errHandler *errors.JobErrorHandler
	taskType   string
	jobWorker  *camunda.CamundaWorker
}

type HandlerOptions struct {
	AppConfig    *config.Config
	Camunda      *camunda.Client
	CustomConfig *Config
	Runner       Runner
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := opts.CustomConfig
	if workerConfig == nil {
		workerConfig = ConfigFromAppConfig(opts.AppConfig)
	}
	if opts.Runner == nil {
		return nil, fmt.Errorf("approval-expiry handler requires a runner")
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}

	validator, err := NewInputValidator()
	if err != nil {
		return nil, fmt.Errorf("compile input schema: %w", err)
	}

	taskType := TaskType
	if opts.AppConfig != nil && opts.AppConfig.Camunda.TaskType != "" {
		taskType = opts.AppConfig.Camunda.TaskType
	}

	return &Handler{
		config:     workerConfig,
		logger:     loggerInstance,
		camunda:    opts.Camunda,
		runner:     opts.Runner,
		validator:  validator,
		errHandler: errors.NewJobErrorHandler(loggerInstance),
		taskType:   taskType,
	}, nil
}

// Handle implements camunda.JobHandler.
func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing approval reminder job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"worker":             h.taskType,
	})

	variables, err := h.process(ctx, job)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromMap(variables)
	if err != nil {
		return fmt.Errorf("build complete command: %w", err)
	}
	if _, err := request.Send(ctx); err != nil {
		return fmt.Errorf("complete job %d: %w", job.GetKey(), err)
	}
	return nil
}

// process parses and validates the job variables, runs the scan and returns
// the variables to complete the job with.
func (h *Handler) process(ctx context.Context, job entities.Job) (map[string]interface{}, error) {
	payload, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	input, err := h.validator.Parse(payload)
	if err != nil {
		return nil, err
	}

	output, summary := h.runner.Run(ctx, TriggerZeebe, input)
	return jobVariables(output, summary), nil
}

func jobVariables(output *Output, summary *models.RunSummary) map[string]interface{} {
	return map[string]interface{}{
		"message": output.Message,
		"event":   output.Event,
		"reminderRun": map[string]interface{}{
			"runId":    summary.RunID,
			"outcome":  summary.Outcome(),
			"scanned":  summary.Scanned,
			"expiring": summary.Expiring,
			"sent":     summary.Sent,
			"failed":   summary.Failed,
			"skipped":  summary.Skipped,
		},
	}
}

// Register opens the job worker. Disabled configuration is a no-op.
func (h *Handler) Register() error {
	if !h.config.Enabled {
		h.logger.Info("Worker is disabled, skipping registration", map[string]interface{}{
			"worker": h.taskType,
		})
		return nil
	}
	if h.camunda == nil {
		return fmt.Errorf("camunda client is required to register %s", h.taskType)
	}

	h.jobWorker = camunda.NewWorker(
		h.camunda.GetClient(),
		h.taskType,
		h.config.MaxJobsActive,
		h.config.Timeout,
		h,
		h.logger,
	)
	return nil
}

func (h *Handler) Close() {
	if h.jobWorker != nil {
		h.jobWorker.Stop()
		h.jobWorker = nil
	}
}

func (h *Handler) HealthCheck(ctx context.Context) error {
	if h.camunda == nil {
		return nil
	}
	if err := h.camunda.HealthCheck(ctx); err != nil {
		return fmt.Errorf("camunda health check failed: %w", err)
	}
	return nil
}

func (h *Handler) GetTaskType() string {
	return h.taskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}
