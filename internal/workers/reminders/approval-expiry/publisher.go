package approvalexpiry

import (
	"context"
	"encoding/json"

	"approval-reminders/internal/common/errors"
	"approval-reminders/internal/models"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SummarySink receives the summary after every run. Sink errors are logged
// and never change the run's response.
type SummarySink interface {
	Record(ctx context.Context, summary *models.RunSummary) error
	Name() string
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSummaryPublisher publishes the run summary as JSON to a topic.
type SNSSummaryPublisher struct {
	client   SNSService
	topicARN string
}

func NewSNSSummaryPublisher(client SNSService, topicARN string) *SNSSummaryPublisher {
	return &SNSSummaryPublisher{client: client, topicARN: topicARN}
}

func (p *SNSSummaryPublisher) Record(ctx context.Context, summary *models.RunSummary) error {
	body, err := json.Marshal(summary)
	if err != nil {
		return errors.NewSummaryPublishFailedError(err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(p.topicARN),
		Subject:  awssdk.String("Approval reminder run summary"),
		Message:  awssdk.String(string(body)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"outcome": {
				DataType:    awssdk.String("String"),
				StringValue: awssdk.String(summary.Outcome()),
			},
			"trigger": {
				DataType:    awssdk.String("String"),
				StringValue: awssdk.String(summary.Trigger),
			},
		},
	})
	if err != nil {
		return errors.NewSummaryPublishFailedError(err)
	}
	return nil
}

func (p *SNSSummaryPublisher) Name() string {
	return "sns"
}
