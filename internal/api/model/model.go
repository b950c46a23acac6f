package model

import (
	"database/sql"

	"github.com/handzy/payment-service/internal/api/domain"
	"github.com/shopspring/decimal"
)

// JobRow is the jobs table projection this service reads. The payment
// sub-record is denormalized into payment_* columns and is absent (all NULL)
// until a worker requests payment.
type JobRow struct {
	JobID                string              `db:"job_id"`
	UserID               string              `db:"user_id"`
	WorkerID             string              `db:"worker_id"`
	Status               string              `db:"status"`
	PaymentStatus        sql.NullString      `db:"payment_status"`
	PaymentAmount        decimal.NullDecimal `db:"payment_amount"`
	PaymentDescription   sql.NullString      `db:"payment_description"`
	PaymentMethod        sql.NullString      `db:"payment_method"`
	PaymentOrderID       sql.NullString      `db:"payment_order_id"`
	PaymentPaymentID     sql.NullString      `db:"payment_payment_id"`
	PaymentRequestedBy   sql.NullString      `db:"payment_requested_by"`
	PaymentRequestedAt   sql.NullTime        `db:"payment_requested_at"`
	PaymentPaidAt        sql.NullTime        `db:"payment_paid_at"`
	PaymentFailedAt      sql.NullTime        `db:"payment_failed_at"`
	PaymentFailureReason sql.NullString      `db:"payment_failure_reason"`
}

// ToDomain converts a row into the domain job.
func (r *JobRow) ToDomain() *domain.Job {
	job := &domain.Job{
		JobID:    r.JobID,
		UserID:   r.UserID,
		WorkerID: r.WorkerID,
		Status:   r.Status,
	}

	if !r.PaymentStatus.Valid {
		return job
	}

	payment := &domain.Payment{
		Status:        r.PaymentStatus.String,
		Description:   r.PaymentDescription.String,
		Method:        r.PaymentMethod.String,
		OrderID:       r.PaymentOrderID.String,
		PaymentID:     r.PaymentPaymentID.String,
		RequestedBy:   r.PaymentRequestedBy.String,
		FailureReason: r.PaymentFailureReason.String,
	}
	if r.PaymentAmount.Valid {
		payment.Amount = r.PaymentAmount.Decimal
	}
	if r.PaymentRequestedAt.Valid {
		t := r.PaymentRequestedAt.Time
		payment.RequestedAt = &t
	}
	if r.PaymentPaidAt.Valid {
		t := r.PaymentPaidAt.Time
		payment.PaidAt = &t
	}
	if r.PaymentFailedAt.Valid {
		t := r.PaymentFailedAt.Time
		payment.FailedAt = &t
	}

	job.Payment = payment
	return job
}

// UserAccountRow is the user_accounts table projection. Accounts created
// before the wallet feature carry a NULL wallet_balance, read as zero.
type UserAccountRow struct {
	UserID        string              `db:"user_id"`
	WalletBalance decimal.NullDecimal `db:"wallet_balance"`
}
