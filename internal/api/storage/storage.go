package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/handzy/payment-service/internal/api/domain"
	"github.com/handzy/payment-service/internal/api/model"
	"github.com/handzy/payment-service/shared/postgresql"
	"github.com/jmoiron/sqlx"
)

// Storage handles all database operations for the payment service: the job
// record store (jobs table), the wallet store (user_accounts) and the
// payment_transactions ledger.
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance.
func NewStorage(pg *postgresql.Client, logger *slog.Logger) *Storage {
	return &Storage{
		db:     pg.GetDB(),
		logger: logger,
	}
}

const jobColumns = `
	job_id, user_id, worker_id, status,
	payment_status, payment_amount, payment_description, payment_method,
	payment_order_id, payment_payment_id, payment_requested_by,
	payment_requested_at, payment_paid_at, payment_failed_at, payment_failure_reason
`

// GetJob retrieves a job with its embedded payment sub-record.
func (s *Storage) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE job_id = $1`

	var row model.JobRow
	err := s.db.GetContext(ctx, &row, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return row.ToDomain(), nil
}

// CreatePaymentRequest writes a fresh payment sub-record in the "requested"
// state and moves the job to payment_pending. Any leftover fields from a
// previous payment attempt are cleared.
func (s *Storage) CreatePaymentRequest(ctx context.Context, jobID string, payment *domain.Payment) error {
	query := `
		UPDATE jobs
		SET payment_status = $1,
		    payment_amount = $2,
		    payment_description = $3,
		    payment_method = NULL,
		    payment_order_id = NULL,
		    payment_payment_id = NULL,
		    payment_requested_by = $4,
		    payment_requested_at = $5,
		    payment_paid_at = NULL,
		    payment_failed_at = NULL,
		    payment_failure_reason = NULL,
		    status = $6,
		    updated_at = NOW()
		WHERE job_id = $7
	`

	result, err := s.db.ExecContext(ctx, query,
		domain.PaymentStatusRequested,
		payment.Amount,
		payment.Description,
		payment.RequestedBy,
		payment.RequestedAt,
		domain.JobStatusPaymentPending,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment request: %w", err)
	}

	return s.requireJobUpdated(result, jobID)
}

// MarkPaymentProcessing records the gateway order id and moves the payment to processing.
func (s *Storage) MarkPaymentProcessing(ctx context.Context, jobID, orderID string) error {
	query := `
		UPDATE jobs
		SET payment_status = $1,
		    payment_order_id = $2,
		    updated_at = NOW()
		WHERE job_id = $3
	`

	result, err := s.db.ExecContext(ctx, query, domain.PaymentStatusProcessing, orderID, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark payment processing: %w", err)
	}

	return s.requireJobUpdated(result, jobID)
}

// MarkPaymentCompleted finalizes the payment with the method that settled it
// and, for gateway payments, the gateway payment id.
func (s *Storage) MarkPaymentCompleted(ctx context.Context, jobID, method, paymentID string) error {
	query := `
		UPDATE jobs
		SET payment_status = $1,
		    payment_method = $2,
		    payment_payment_id = NULLIF($3, ''),
		    payment_paid_at = NOW(),
		    updated_at = NOW()
		WHERE job_id = $4
	`

	result, err := s.db.ExecContext(ctx, query, domain.PaymentStatusCompleted, method, paymentID, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark payment completed: %w", err)
	}

	return s.requireJobUpdated(result, jobID)
}

// MarkPaymentFailed records a durable failure with its reason.
func (s *Storage) MarkPaymentFailed(ctx context.Context, jobID, reason string) error {
	query := `
		UPDATE jobs
		SET payment_status = $1,
		    payment_failed_at = NOW(),
		    payment_failure_reason = $2,
		    updated_at = NOW()
		WHERE job_id = $3
	`

	result, err := s.db.ExecContext(ctx, query, domain.PaymentStatusFailed, reason, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}

	return s.requireJobUpdated(result, jobID)
}

// MarkPaymentCash marks the payment as settled in cash.
func (s *Storage) MarkPaymentCash(ctx context.Context, jobID string) error {
	query := `
		UPDATE jobs
		SET payment_status = $1,
		    payment_method = $2,
		    payment_paid_at = NOW(),
		    updated_at = NOW()
		WHERE job_id = $3
	`

	result, err := s.db.ExecContext(ctx, query, domain.PaymentStatusCash, domain.PaymentMethodCash, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark payment cash: %w", err)
	}

	return s.requireJobUpdated(result, jobID)
}

func (s *Storage) requireJobUpdated(result sql.Result, jobID string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		s.logger.Warn("Job update affected no rows",
			slog.String("job_id", jobID),
		)
		return domain.ErrJobNotFound
	}

	return nil
}
