package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Payment event types published on each payment state change.
const (
	TypePaymentRequested  = "payment.requested"
	TypePaymentProcessing = "payment.processing"
	TypePaymentCompleted  = "payment.completed"
	TypePaymentFailed     = "payment.failed"
	TypePaymentCash       = "payment.cash"
)

// PaymentEvent describes a payment state change for downstream consumers,
// including the reconciler that repairs job records left behind by a
// best-effort post-debit update.
type PaymentEvent struct {
	Type       string          `json:"type"`
	JobID      string          `json:"job_id"`
	UserID     string          `json:"user_id,omitempty"`
	WorkerID   string          `json:"worker_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method,omitempty"`
	OrderID    string          `json:"order_id,omitempty"`
	PaymentID  string          `json:"payment_id,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Publisher publishes payment events. Publishing is best-effort from the
// caller's point of view; a failed publish never fails the payment operation.
type Publisher interface {
	PublishPaymentEvent(ctx context.Context, event *PaymentEvent) error
}
