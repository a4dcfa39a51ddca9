package events

import (
	"context"

	aws_pkg "sportsstore/pkg/aws"
)

type SNSPublisher struct {
	client   aws_pkg.SNSPublisher
	topicArn string
}

func NewSNSPublisher(client aws_pkg.SNSPublisher, topicArn string) *SNSPublisher {
	return &SNSPublisher{client: client, topicArn: topicArn}
}

func (p *SNSPublisher) Publish(ctx context.Context, _ string, payload []byte) error {
	return p.client.Publish(ctx, p.topicArn, payload)
}

type SQSPublisher struct {
	client aws_pkg.SQSSender
}

func NewSQSPublisher(client aws_pkg.SQSSender) *SQSPublisher {
	return &SQSPublisher{client: client}
}

func (p *SQSPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	return p.client.SendMessage(ctx, string(payload), map[string]string{"event_key": key})
}
