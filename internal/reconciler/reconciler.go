package reconciler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/handzy/payment-service/internal/events"
	"github.com/handzy/payment-service/shared/rabbitmq"
)

// Config holds reconciler configuration
type Config struct {
	Logger        *slog.Logger
	Store         JobRepairStore
	RabbitClient  *rabbitmq.Client
	PrefetchCount int
}

// Reconciler consumes payment events and re-applies terminal payment state to
// job records. It repairs the drift left behind when a wallet debit commits
// but the best-effort job update afterwards fails.
type Reconciler struct {
	logger        *slog.Logger
	store         JobRepairStore
	rabbitClient  *rabbitmq.Client
	prefetchCount int
	consumerTag   string
}

// NewReconciler creates a new reconciler instance
func NewReconciler(cfg *Config) *Reconciler {
	return &Reconciler{
		logger:        cfg.Logger,
		store:         cfg.Store,
		rabbitClient:  cfg.RabbitClient,
		prefetchCount: cfg.PrefetchCount,
		consumerTag:   fmt.Sprintf("payment-reconciler-%s", uuid.New().String()[:8]),
	}
}

// Run consumes payment events until the context is canceled.
func (r *Reconciler) Run(ctx context.Context) error {
	channel := r.rabbitClient.GetChannel()
	if channel == nil {
		return fmt.Errorf("rabbitmq channel is nil")
	}

	// Limit unacknowledged deliveries per consumer
	if err := channel.Qos(r.prefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := r.rabbitClient.Consume(r.consumerTag)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	r.logger.Info("Reconciler started",
		slog.String("consumer_tag", r.consumerTag),
		slog.Int("prefetch_count", r.prefetchCount),
	)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Reconciler stopped - context canceled")
			return nil

		case delivery, ok := <-deliveries:
			if !ok {
				r.logger.Warn("RabbitMQ delivery channel closed")
				return nil
			}

			var event events.PaymentEvent
			if err := json.Unmarshal(delivery.Body, &event); err != nil {
				r.logger.Error("Failed to parse payment event JSON",
					slog.String("error", err.Error()),
					slog.String("body", string(delivery.Body)),
				)
				// Malformed events can never succeed - drop without requeue
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					r.logger.Error("Failed to NACK malformed event",
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			if err := r.handleEvent(ctx, &event); err != nil {
				r.logger.Error("Failed to process payment event, requeueing",
					slog.String("type", event.Type),
					slog.String("job_id", event.JobID),
					slog.String("error", err.Error()),
				)
				if nackErr := delivery.Nack(false, true); nackErr != nil {
					r.logger.Error("Failed to NACK event",
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			if ackErr := delivery.Ack(false); ackErr != nil {
				r.logger.Error("Failed to ACK event",
					slog.String("job_id", event.JobID),
					slog.String("error", ackErr.Error()),
				)
			}
		}
	}
}
