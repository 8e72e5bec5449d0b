package approvalexpiry

import (
	"context"
	"time"

	"approval-reminders/internal/common/errors"
	"approval-reminders/internal/models"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const charsetUTF8 = "UTF-8"

// EmailSender delivers one composed message.
type EmailSender interface {
	Send(ctx context.Context, msg models.NotificationMessage) (*models.DeliveryReceipt, error)
}

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESDispatcher sends through SES. It does not retry.
type SESDispatcher struct {
	client           SESService
	configurationSet string
	now              func() time.Time
}

func NewSESDispatcher(client SESService, configurationSet string, now func() time.Time) *SESDispatcher {
	if now == nil {
		now = time.Now
	}
	return &SESDispatcher{client: client, configurationSet: configurationSet, now: now}
}

func (d *SESDispatcher) Send(ctx context.Context, msg models.NotificationMessage) (*models.DeliveryReceipt, error) {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: msg.Recipients,
		},
		Message: &types.Message{
			Subject: &types.Content{Charset: awssdk.String(charsetUTF8), Data: awssdk.String(msg.Subject)},
			Body: &types.Body{
				Html: &types.Content{Charset: awssdk.String(charsetUTF8), Data: awssdk.String(msg.HTMLBody)},
				Text: &types.Content{Charset: awssdk.String(charsetUTF8), Data: awssdk.String(msg.TextBody)},
			},
		},
		Source: awssdk.String(msg.Sender),
	}
	if d.configurationSet != "" {
		input.ConfigurationSetName = awssdk.String(d.configurationSet)
	}

	out, err := d.client.SendEmail(ctx, input)
	if err != nil {
		return nil, errors.NewNotificationSendFailedError("email", err)
	}
	return &models.DeliveryReceipt{
		MessageID: awssdk.ToString(out.MessageId),
		SentAt:    d.now().UTC(),
	}, nil
}
