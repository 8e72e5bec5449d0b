package approvalexpiry

import (
	"context"
	"encoding/json"

	"approval-reminders/internal/common/errors"
	"approval-reminders/internal/models"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSummaryPublisher writes the run summary to a topic, keyed by run id.
type KafkaSummaryPublisher struct {
	writer MessageWriter
	topic  string
}

// NewKafkaWriter builds a writer for the summary topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

func NewKafkaSummaryPublisher(writer MessageWriter, topic string) *KafkaSummaryPublisher {
	return &KafkaSummaryPublisher{writer: writer, topic: topic}
}

func (p *KafkaSummaryPublisher) Record(ctx context.Context, summary *models.RunSummary) error {
	body, err := json.Marshal(summary)
	if err != nil {
		return errors.NewSummaryPublishFailedError(err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(summary.RunID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "outcome", Value: []byte(summary.Outcome())},
			{Key: "trigger", Value: []byte(summary.Trigger)},
		},
	})
	if err != nil {
		return errors.NewSummaryPublishFailedError(err).WithMetadata("topic", p.topic)
	}
	return nil
}

func (p *KafkaSummaryPublisher) Name() string {
	return "kafka"
}
