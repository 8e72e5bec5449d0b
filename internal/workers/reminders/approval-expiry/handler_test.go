package approvalexpiry

import (
	"context"
	"encoding/json"
	"testing"

	"approval-reminders/internal/common/config"
	"approval-reminders/internal/common/errors"
	"approval-reminders/internal/common/logger"
	"approval-reminders/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, trigger string, input *Input) (*Output, *models.RunSummary) {
	args := m.Called(ctx, trigger, input)
	return args.Get(0).(*Output), args.Get(1).(*models.RunSummary)
}

func createMockJob(key int64, variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "approval-reminders",
		ElementId:          "Activity_ScanApprovals",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          variables,
	}}
}

func newTestHandler(t *testing.T, runner Runner) *Handler {
	cfg := createTestConfig()
	cfg.Enabled = false
	h, err := NewHandler(HandlerOptions{
		CustomConfig: cfg,
		Runner:       runner,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func TestHandler_NewHandler(t *testing.T) {
	_, err := NewHandler(HandlerOptions{CustomConfig: createTestConfig()})
	assert.Error(t, err)

	app := &config.Config{}
	app.Camunda.TaskType = "custom.reminder.scan"
	h, err := NewHandler(HandlerOptions{AppConfig: app, Runner: new(MockRunner), Logger: logger.NewNoOpLogger()})
	require.NoError(t, err)
	assert.Equal(t, "custom.reminder.scan", h.GetTaskType())
	assert.False(t, h.IsEnabled())
}

func TestHandler_Process_RunsWithJobVariables(t *testing.T) {
	runner := new(MockRunner)
	summary := &models.RunSummary{RunID: "run-1", Scanned: 5, Expiring: 2, Sent: 2}
	event := map[string]interface{}{"name": "Mark Fowler", "source": "bpmn"}
	runner.On("Run", mock.Anything, TriggerZeebe, mock.MatchedBy(func(in *Input) bool {
		return in.Name == "Mark Fowler" && in.Event["source"] == "bpmn"
	})).Return(&Output{Message: "Hello Mark Fowler, approval reminder run complete!", Event: event}, summary)

	h := newTestHandler(t, runner)
	raw, _ := json.Marshal(event)

	vars, err := h.process(context.Background(), createMockJob(42, string(raw)))
	require.NoError(t, err)

	assert.Equal(t, "Hello Mark Fowler, approval reminder run complete!", vars["message"])
	assert.Equal(t, event, vars["event"])
	run := vars["reminderRun"].(map[string]interface{})
	assert.Equal(t, "run-1", run["runId"])
	assert.Equal(t, models.RunOutcomeSuccess, run["outcome"])
	assert.Equal(t, 2, run["sent"])
	runner.AssertExpectations(t)
}

func TestHandler_Process_InvalidPayload(t *testing.T) {
	tests := []struct {
		name      string
		variables string
		wantCode  string
	}{
		{"missing name", `{"source":"bpmn"}`, "VALIDATION_FAILED"},
		{"name not a string", `{"name":7}`, "VALIDATION_FAILED"},
		{"empty name", `{"name":""}`, "VALIDATION_FAILED"},
		{"malformed variables", `{not json`, "INPUT_PARSING_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(MockRunner)
			h := newTestHandler(t, runner)

			_, err := h.process(context.Background(), createMockJob(1, tt.variables))
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.CodeOf(err))
			runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_RegisterDisabled(t *testing.T) {
	h := newTestHandler(t, new(MockRunner))
	assert.NoError(t, h.Register())
	assert.NoError(t, h.HealthCheck(context.Background()))
	h.Close()
}

func TestHandler_RegisterWithoutClient(t *testing.T) {
	cfg := createTestConfig()
	cfg.Enabled = true
	h, err := NewHandler(HandlerOptions{CustomConfig: cfg, Runner: new(MockRunner), Logger: logger.NewNoOpLogger()})
	require.NoError(t, err)
	assert.Error(t, h.Register())
}
