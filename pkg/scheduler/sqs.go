package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/casafix/home-services-backend/pkg/api"
)

// SQS caps per-message delays at 15 minutes.
const maxSQSDelay = 900 * time.Second

// SQSScheduler implements the Scheduler interface using AWS SQS.
type SQSScheduler struct {
	Client   *sqs.Client
	QueueURL string
}

// NewSQSScheduler creates a new SQSScheduler.
func NewSQSScheduler(client *sqs.Client, queueURL string) *SQSScheduler {
	return &SQSScheduler{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Scheduler = (*SQSScheduler)(nil)

// ScheduleOrderExpiry sends the order to an SQS queue with a delivery delay.
func (s *SQSScheduler) ScheduleOrderExpiry(ctx context.Context, order *api.Order, delay time.Duration) error {
	// Marshal the order to JSON.
	body, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order for SQS: %w", err)
	}

	if delay > maxSQSDelay {
		delay = maxSQSDelay
	}

	// Send the message to SQS.
	_, err = s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:     aws.String(s.QueueURL),
		MessageBody:  aws.String(string(body)),
		DelaySeconds: int32(delay.Seconds()),
	})

	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}
