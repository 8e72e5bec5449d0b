package approvalexpiry

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"testing"

	"approval-reminders/internal/common/errors"
	"approval-reminders/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockMessageWriter struct {
	WriteMessagesFunc func(ctx context.Context, msgs ...kafka.Message) error
}

func (m *MockMessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	return m.WriteMessagesFunc(ctx, msgs...)
}

func TestKafkaSummaryPublisher_Record(t *testing.T) {
	var captured []kafka.Message
	writer := &MockMessageWriter{
		WriteMessagesFunc: func(_ context.Context, msgs ...kafka.Message) error {
			captured = msgs
			return nil
		},
	}

	summary := &models.RunSummary{RunID: "run-9", Trigger: TriggerSchedule, Expiring: 1, Sent: 1}
	p := NewKafkaSummaryPublisher(writer, "approval-reminder-runs")
	require.NoError(t, p.Record(context.Background(), summary))
	assert.Equal(t, "kafka", p.Name())

	require.Len(t, captured, 1)
	assert.Equal(t, "run-9", string(captured[0].Key))
	assert.Contains(t, captured[0].Headers, kafka.Header{Key: "outcome", Value: []byte("success")})
	assert.Contains(t, captured[0].Headers, kafka.Header{Key: "trigger", Value: []byte("schedule")})

	var decoded models.RunSummary
	require.NoError(t, json.Unmarshal(captured[0].Value, &decoded))
	assert.Equal(t, 1, decoded.Sent)
}

func TestKafkaSummaryPublisher_Failure(t *testing.T) {
	writer := &MockMessageWriter{
		WriteMessagesFunc: func(context.Context, ...kafka.Message) error {
			return goerrors.New("kafka: leader not available")
		},
	}

	err := NewKafkaSummaryPublisher(writer, "approval-reminder-runs").Record(context.Background(), &models.RunSummary{RunID: "run-1"})
	require.Error(t, err)
	assert.Equal(t, string(errors.ErrCodeSummaryPublishFailed), errors.CodeOf(err))
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter([]string{"localhost:9092"}, "approval-reminder-runs")
	assert.Equal(t, "approval-reminder-runs", w.Topic)
	assert.Equal(t, "localhost:9092", w.Addr.String())
	require.NoError(t, w.Close())
}
