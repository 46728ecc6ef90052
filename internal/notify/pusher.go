// Package notify sends best-effort push notifications via Firebase Cloud
// Messaging. Failures are logged and never propagated to business flows.
package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/gmcandra/mebel-api/internal/logging"
)

// Pusher delivers a notification to a set of device tokens.
type Pusher interface {
	Push(ctx context.Context, tokens []string, title, body string) error
}

// FCMPusher sends notifications through Firebase Cloud Messaging.
type FCMPusher struct {
	client *messaging.Client
	logger *logging.Logger
}

func NewFCMPusher(ctx context.Context, credentialsFile string, logger *logging.Logger) (*FCMPusher, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize messaging client: %w", err)
	}

	return &FCMPusher{client: client, logger: logger}, nil
}

// Push sends the notification to every token via multicast.
// Partial delivery failures are logged, not returned.
func (p *FCMPusher) Push(ctx context.Context, tokens []string, title, body string) error {
	if len(tokens) == 0 {
		return nil
	}

	resp, err := p.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}

	if resp.FailureCount > 0 {
		p.logger.Warn("some push notifications failed",
			"success", resp.SuccessCount,
			"failed", resp.FailureCount,
		)
	}

	return nil
}

// NopPusher is used when Firebase credentials are not configured.
type NopPusher struct{}

func (NopPusher) Push(ctx context.Context, tokens []string, title, body string) error {
	return nil
}
