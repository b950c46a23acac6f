package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment status constants. Status only moves forward:
// requested -> processing -> completed, processing -> failed,
// requested -> cash (cash payments skip processing entirely).
const (
	PaymentStatusRequested  = "requested"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
	PaymentStatusCash       = "cash"
)

// Payment method constants. Gateway payments carry the method reported
// by the gateway (card, upi, netbanking, ...) verbatim.
const (
	PaymentMethodWallet = "wallet"
	PaymentMethodCash   = "cash"
)

// JobStatusPaymentPending is set on the job once a worker requests payment.
const JobStatusPaymentPending = "payment_pending"

// Currency is the only currency the gateway is charged in.
const Currency = "INR"

// Payment is the payment sub-record embedded in a Job.
type Payment struct {
	Amount        decimal.Decimal
	Description   string
	Status        string
	Method        string
	OrderID       string
	PaymentID     string
	RequestedBy   string
	RequestedAt   *time.Time
	PaidAt        *time.Time
	FailedAt      *time.Time
	FailureReason string
}

// Job is the slice of the marketplace job record this service reads and writes.
// Payment is nil until a worker requests payment for the job.
type Job struct {
	JobID    string
	UserID   string
	WorkerID string
	Status   string
	Payment  *Payment
}

// PaymentTransaction is an append-only ledger entry. Exactly one is written
// per completed or cash payment; entries are never updated or deleted.
type PaymentTransaction struct {
	ID        string
	JobID     string
	UserID    string
	WorkerID  string
	Amount    decimal.Decimal
	Method    string
	Status    string
	OrderID   string
	PaymentID string
	CreatedAt time.Time
}

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a major-unit amount to the gateway's integer minor
// units (rupees to paisa), rounded to the nearest integer.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts gateway minor units back to a major-unit amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(hundred)
}
