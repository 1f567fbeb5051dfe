package notifications

import "context"

type Message struct {
	Id         string
	Subject    string
	Body       string
	Attributes map[string]string
}

type NotificationService interface {
	Publish(ctx context.Context, message Message) error
}

// NoopNotifications drops every message; used when no topic is configured.
type NoopNotifications struct{}

func (NoopNotifications) Publish(ctx context.Context, message Message) error {
	return nil
}
