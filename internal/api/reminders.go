package api

import (
	"context"
	"net/http"

	"approval-reminders/internal/common/errors"
	"approval-reminders/internal/common/logger"
	"approval-reminders/internal/models"
	approvalexpiry "approval-reminders/internal/workers/reminders/approval-expiry"

	"github.com/gin-gonic/gin"
)

// LastRunLoader returns the most recent run summary, or nil when none has
// been recorded.
type LastRunLoader interface {
	Load(ctx context.Context) (*models.RunSummary, error)
}

type ReminderController struct {
	runner    approvalexpiry.Runner
	validator *approvalexpiry.InputValidator
	lastRun   LastRunLoader
	logger    logger.Logger
}

func NewReminderController(runner approvalexpiry.Runner, validator *approvalexpiry.InputValidator, lastRun LastRunLoader, log logger.Logger) *ReminderController {
	return &ReminderController{
		runner:    runner,
		validator: validator,
		lastRun:   lastRun,
		logger:    log,
	}
}

// Run validates the body against the trigger schema and executes one run.
// Per-record failures never change the response; only a malformed body is
// rejected. The run outlives the request: a client disconnect does not
// cancel it, the service run timeout still bounds it.
func (rc *ReminderController) Run(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, http.StatusBadRequest, errors.NewInputParsingFailedError(err))
		return
	}

	input, err := rc.validator.Parse(payload)
	if err != nil {
		AbortWithError(c, http.StatusBadRequest, err)
		return
	}

	output, summary := rc.runner.Run(context.WithoutCancel(c.Request.Context()), approvalexpiry.TriggerHTTP, input)
	if summary != nil {
		c.Header("X-Reminder-Run-ID", summary.RunID)
	}
	c.JSON(http.StatusOK, output)
}

// LastRun returns the stored summary of the previous run.
func (rc *ReminderController) LastRun(c *gin.Context) {
	if rc.lastRun == nil {
		Error(c, http.StatusNotFound, "LAST_RUN_UNAVAILABLE", "last run tracking is not configured", "")
		return
	}

	summary, err := rc.lastRun.Load(c.Request.Context())
	if err != nil {
		rc.logger.Error("Failed to load last run", map[string]interface{}{
			"error": err.Error(),
		})
		AbortWithError(c, http.StatusInternalServerError, err)
		return
	}
	if summary == nil {
		Error(c, http.StatusNotFound, "LAST_RUN_NOT_FOUND", "no reminder run has been recorded", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runId":      summary.RunID,
		"trigger":    summary.Trigger,
		"outcome":    summary.Outcome(),
		"startedAt":  summary.StartedAt,
		"finishedAt": summary.FinishedAt,
		"durationMs": summary.Duration().Milliseconds(),
		"scanned":    summary.Scanned,
		"expiring":   summary.Expiring,
		"sent":       summary.Sent,
		"failed":     summary.Failed,
		"skipped":    summary.Skipped,
		"failures":   summary.Failures,
	})
}
