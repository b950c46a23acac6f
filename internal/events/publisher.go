package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/handzy/payment-service/shared/rabbitmq"
)

// RabbitPublisher publishes payment events to the payments exchange.
type RabbitPublisher struct {
	client *rabbitmq.Client
	logger *slog.Logger
}

// NewRabbitPublisher creates a publisher backed by an existing RabbitMQ client.
func NewRabbitPublisher(client *rabbitmq.Client, logger *slog.Logger) *RabbitPublisher {
	return &RabbitPublisher{
		client: client,
		logger: logger,
	}
}

// PublishPaymentEvent marshals the event and publishes it with retry.
func (p *RabbitPublisher) PublishPaymentEvent(ctx context.Context, event *PaymentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment event: %w", err)
	}

	if err := p.client.PublishWithRetry(ctx, body, "application/json"); err != nil {
		return fmt.Errorf("failed to publish payment event: %w", err)
	}

	p.logger.Debug("Payment event published",
		slog.String("type", event.Type),
		slog.String("job_id", event.JobID),
	)

	return nil
}
