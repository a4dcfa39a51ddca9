package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSSender sends messages to one queue.
type SQSSender interface {
	SendMessage(ctx context.Context, body string, attrs map[string]string) error
}

type SQSClient struct {
	client   *sqs.Client
	queueURL string
}

func NewSQSClient(cfg sdkaws.Config, queueURL string) *SQSClient {
	return &SQSClient{client: sqs.NewFromConfig(cfg), queueURL: queueURL}
}

// SendMessage sends a single message, attaching attrs as string message attributes.
func (c *SQSClient) SendMessage(ctx context.Context, body string, attrs map[string]string) error {
	input := &sqs.SendMessageInput{
		QueueUrl:    sdkaws.String(c.queueURL),
		MessageBody: sdkaws.String(body),
	}
	if len(attrs) > 0 {
		input.MessageAttributes = make(map[string]types.MessageAttributeValue, len(attrs))
		for k, v := range attrs {
			input.MessageAttributes[k] = types.MessageAttributeValue{
				DataType:    sdkaws.String("String"),
				StringValue: sdkaws.String(v),
			}
		}
	}
	if _, err := c.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to send message to %s: %w", c.queueURL, err)
	}
	return nil
}
