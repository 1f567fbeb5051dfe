package services

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"philcali.me/fridgesnap/internal/notifications"
)

type PublishAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type NotificationSNSService struct {
	Sns      PublishAPI
	TopicArn string
}

func (n *NotificationSNSService) Publish(ctx context.Context, message notifications.Message) error {
	attributes := make(map[string]types.MessageAttributeValue, len(message.Attributes))
	for name, value := range message.Attributes {
		attributes[name] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(value),
		}
	}
	input := &sns.PublishInput{
		TopicArn:          aws.String(n.TopicArn),
		Message:           aws.String(message.Body),
		MessageAttributes: attributes,
	}
	if message.Subject != "" {
		input.Subject = aws.String(message.Subject)
	}
	_, err := n.Sns.Publish(ctx, input)
	return err
}
