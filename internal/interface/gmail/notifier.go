package gmail

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"fuelops-service/pkg/logger"
)

// Notifier delivers pipeline run outcomes as Gmail messages
type Notifier struct {
	service *gmail.Service
	from    string
	to      string
	logger  logger.Logger
}

// NewNotifier creates a new Gmail notifier
func NewNotifier(ctx context.Context, tokenSource oauth2.TokenSource, from, to string, logger logger.Logger) (*Notifier, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Notifier{
		service: service,
		from:    from,
		to:      to,
		logger:  logger,
	}, nil
}

// Notify sends one plain-text notification message
func (n *Notifier) Notify(ctx context.Context, subject, body string) error {
	raw := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		n.from, n.to, subject, body)

	message := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	_, err := n.service.Users.Messages.Send("me", message).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	n.logger.Info("Notification sent", "subject", subject, "to", n.to)
	return nil
}
