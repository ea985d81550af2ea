package notification

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Deliverer pushes a notification to a single device token. The real
// push-provider client implements this; the default implementation only logs.
type Deliverer interface {
	Deliver(ctx context.Context, token *DeviceToken, n Notification) error
}

// LogDeliverer writes deliveries to the log instead of calling a provider.
type LogDeliverer struct {
	Logger *slog.Logger
}

func (d *LogDeliverer) Deliver(_ context.Context, token *DeviceToken, n Notification) error {
	d.Logger.Info("notification delivered",
		"user_id", token.UserID,
		"platform", token.Platform,
		"title", n.Title)
	return nil
}

// Consumer drains the notification queue and fans each payload out to the
// recipients' registered device tokens. Run by the worker command.
type Consumer struct {
	repo      DeviceTokenRepository
	publisher Publisher
	deliverer Deliverer
	queue     string
	logger    *slog.Logger
}

func NewConsumer(repo DeviceTokenRepository, publisher Publisher, deliverer Deliverer, queue string, logger *slog.Logger) *Consumer {
	return &Consumer{
		repo:      repo,
		publisher: publisher,
		deliverer: deliverer,
		queue:     queue,
		logger:    logger,
	}
}

// Run blocks consuming the queue until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("notification consumer started", "queue", c.queue)
	return c.publisher.Consume(ctx, c.queue, c.handle)
}

func (c *Consumer) handle(ctx context.Context, msg Message) error {
	var n Notification
	if err := json.Unmarshal(msg.Data, &n); err != nil {
		// Malformed payloads are dropped, requeueing them would loop forever.
		c.logger.Error("dropping malformed notification payload", "error", err, "message_id", msg.ID)
		return nil
	}

	tokens, err := c.repo.ListDeviceTokens(ctx, n.RecipientUserIDs)
	if err != nil {
		c.logger.Error("failed to load device tokens", "error", err, "message_id", msg.ID)
		return err
	}
	if len(tokens) == 0 {
		c.logger.Debug("no device tokens for recipients", "recipients", len(n.RecipientUserIDs))
		return nil
	}

	delivered := 0
	for _, token := range tokens {
		if err := c.deliverer.Deliver(ctx, token, n); err != nil {
			c.logger.Error("failed to deliver notification",
				"error", err, "user_id", token.UserID, "platform", token.Platform)
			continue
		}
		delivered++
	}

	c.logger.Info("notification processed",
		"message_id", msg.ID,
		"tokens", len(tokens),
		"delivered", delivered)
	return nil
}
