package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/handzy/payment-service/internal/api/domain"
	"github.com/handzy/payment-service/internal/events"
	"github.com/handzy/payment-service/internal/gateway"
	"github.com/shopspring/decimal"
)

// JobStore is the job record store: read one job, write its payment sub-record.
type JobStore interface {
	GetJob(ctx context.Context, jobID string) (*domain.Job, error)
	CreatePaymentRequest(ctx context.Context, jobID string, payment *domain.Payment) error
	MarkPaymentProcessing(ctx context.Context, jobID, orderID string) error
	MarkPaymentCompleted(ctx context.Context, jobID, method, paymentID string) error
	MarkPaymentFailed(ctx context.Context, jobID, reason string) error
	MarkPaymentCash(ctx context.Context, jobID string) error
}

// WalletStore is the account store. DebitWallet must apply the balance check,
// the decrement and the ledger insert as one atomic unit.
type WalletStore interface {
	GetWalletBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	DebitWallet(ctx context.Context, userID string, txn *domain.PaymentTransaction) error
}

// LedgerStore appends payment transactions for gateway and cash payments.
type LedgerStore interface {
	InsertTransaction(ctx context.Context, txn *domain.PaymentTransaction) error
}

// CreateOrderInput carries the create-order request.
type CreateOrderInput struct {
	JobID         string
	UserID        string
	Amount        decimal.Decimal
	PaymentMethod string
}

// OrderResult is the outcome of CreateOrder. WalletPaid means the wallet path
// settled the payment immediately; otherwise the gateway order fields are set.
type OrderResult struct {
	WalletPaid bool
	OrderID    string
	Amount     decimal.Decimal
	Currency   string
	KeyID      string
}

// VerifyPaymentInput carries the gateway callback fields.
type VerifyPaymentInput struct {
	OrderID   string
	PaymentID string
	Signature string
	JobID     string
	UserID    string
}

// PaymentService drives the per-job payment state machine.
type PaymentService interface {
	RequestPayment(ctx context.Context, jobID, workerID string, amount decimal.Decimal, description string) error
	CreateOrder(ctx context.Context, in CreateOrderInput) (*OrderResult, error)
	VerifyPayment(ctx context.Context, in VerifyPaymentInput) error
	RecordCashPayment(ctx context.Context, jobID, userID string) error
	GetWalletBalance(ctx context.Context, userID string) (decimal.Decimal, error)
}

type paymentService struct {
	jobs      JobStore
	wallets   WalletStore
	ledger    LedgerStore
	gateway   gateway.Gateway
	publisher events.Publisher
	logger    *slog.Logger
}

// NewPaymentService wires the payment service with its stores, the gateway
// and the event publisher.
func NewPaymentService(
	jobs JobStore,
	wallets WalletStore,
	ledger LedgerStore,
	gw gateway.Gateway,
	publisher events.Publisher,
	logger *slog.Logger,
) PaymentService {
	return &paymentService{
		jobs:      jobs,
		wallets:   wallets,
		ledger:    ledger,
		gateway:   gw,
		publisher: publisher,
		logger:    logger,
	}
}

// RequestPayment creates the payment sub-record in the "requested" state when
// a worker finishes a job, and moves the job to payment_pending.
func (s *paymentService) RequestPayment(ctx context.Context, jobID, workerID string, amount decimal.Decimal, description string) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	if job.WorkerID != workerID {
		return domain.ErrWorkerNotAuthorized
	}

	now := time.Now()
	payment := &domain.Payment{
		Amount:      amount,
		Description: description,
		Status:      domain.PaymentStatusRequested,
		RequestedBy: workerID,
		RequestedAt: &now,
	}

	if err := s.jobs.CreatePaymentRequest(ctx, jobID, payment); err != nil {
		return err
	}

	s.logger.Info("Payment request created",
		slog.String("job_id", jobID),
		slog.String("worker_id", workerID),
		slog.String("amount", amount.String()),
	)

	s.publish(ctx, &events.PaymentEvent{
		Type:     events.TypePaymentRequested,
		JobID:    jobID,
		UserID:   job.UserID,
		WorkerID: workerID,
		Amount:   amount,
	})

	return nil
}

// CreateOrder starts collection for a requested payment. The wallet method
// settles immediately through the atomic debit; any other method opens a
// gateway order in minor currency units and leaves the payment processing.
func (s *paymentService) CreateOrder(ctx context.Context, in CreateOrderInput) (*OrderResult, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	job, err := s.jobs.GetJob(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return nil, domain.ErrPaymentNotRequested
		}
		return nil, err
	}

	if job.Payment == nil || job.Payment.Status != domain.PaymentStatusRequested {
		return nil, domain.ErrPaymentNotRequested
	}

	if in.PaymentMethod == domain.PaymentMethodWallet {
		return s.payFromWallet(ctx, job, in)
	}

	amountMinor := domain.ToMinorUnits(in.Amount)
	order, err := s.gateway.CreateOrder(ctx, amountMinor, domain.Currency,
		fmt.Sprintf("job_payment_%s", in.JobID),
		map[string]string{
			"jobId":  in.JobID,
			"userId": in.UserID,
		},
	)
	if err != nil {
		return nil, err
	}

	if err := s.jobs.MarkPaymentProcessing(ctx, in.JobID, order.ID); err != nil {
		return nil, err
	}

	s.publish(ctx, &events.PaymentEvent{
		Type:     events.TypePaymentProcessing,
		JobID:    in.JobID,
		UserID:   in.UserID,
		WorkerID: job.WorkerID,
		Amount:   in.Amount,
		OrderID:  order.ID,
	})

	return &OrderResult{
		OrderID:  order.ID,
		Amount:   in.Amount,
		Currency: domain.Currency,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// payFromWallet runs the atomic debit and then finalizes the job's payment
// sub-record. The post-debit job update is best-effort: once the debit has
// committed it must not be rolled back, so a failed update is only logged and
// the drift is repaired from the published event.
func (s *paymentService) payFromWallet(ctx context.Context, job *domain.Job, in CreateOrderInput) (*OrderResult, error) {
	txn := &domain.PaymentTransaction{
		ID:        uuid.New().String(),
		JobID:     in.JobID,
		UserID:    in.UserID,
		WorkerID:  job.WorkerID,
		Amount:    in.Amount,
		Method:    domain.PaymentMethodWallet,
		Status:    domain.PaymentStatusCompleted,
		CreatedAt: time.Now(),
	}

	if err := s.wallets.DebitWallet(ctx, in.UserID, txn); err != nil {
		return nil, err
	}

	if err := s.jobs.MarkPaymentCompleted(ctx, in.JobID, domain.PaymentMethodWallet, ""); err != nil {
		s.logger.Warn("Wallet debited but job payment update failed; reconciler will repair",
			slog.String("job_id", in.JobID),
			slog.String("user_id", in.UserID),
			slog.Any("error", err),
		)
	}

	s.publish(ctx, &events.PaymentEvent{
		Type:     events.TypePaymentCompleted,
		JobID:    in.JobID,
		UserID:   in.UserID,
		WorkerID: job.WorkerID,
		Amount:   in.Amount,
		Method:   domain.PaymentMethodWallet,
	})

	return &OrderResult{WalletPaid: true}, nil
}

// VerifyPayment validates a gateway callback. A bad signature or a payment the
// gateway does not report as captured marks the payment failed durably before
// the error is returned.
func (s *paymentService) VerifyPayment(ctx context.Context, in VerifyPaymentInput) error {
	if !s.gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		s.failPayment(ctx, in, "Signature verification failed")
		return domain.ErrInvalidSignature
	}

	payment, err := s.gateway.FetchPayment(ctx, in.PaymentID)
	if err != nil {
		return err
	}

	if payment.Status != gateway.StatusCaptured {
		s.failPayment(ctx, in, fmt.Sprintf("Payment not captured. Status: %s", payment.Status))
		return fmt.Errorf("%w: gateway status %q", domain.ErrPaymentNotCaptured, payment.Status)
	}

	job, err := s.jobs.GetJob(ctx, in.JobID)
	if err != nil {
		return err
	}

	amount := domain.FromMinorUnits(payment.AmountMinor)
	txn := &domain.PaymentTransaction{
		ID:        uuid.New().String(),
		JobID:     in.JobID,
		UserID:    in.UserID,
		WorkerID:  job.WorkerID,
		Amount:    amount,
		Method:    payment.Method,
		Status:    domain.PaymentStatusCompleted,
		OrderID:   in.OrderID,
		PaymentID: in.PaymentID,
		CreatedAt: time.Now(),
	}
	if err := s.ledger.InsertTransaction(ctx, txn); err != nil {
		return err
	}

	if err := s.jobs.MarkPaymentCompleted(ctx, in.JobID, payment.Method, in.PaymentID); err != nil {
		return err
	}

	s.logger.Info("Gateway payment verified",
		slog.String("job_id", in.JobID),
		slog.String("order_id", in.OrderID),
		slog.String("payment_id", in.PaymentID),
		slog.String("method", payment.Method),
	)

	s.publish(ctx, &events.PaymentEvent{
		Type:      events.TypePaymentCompleted,
		JobID:     in.JobID,
		UserID:    in.UserID,
		WorkerID:  job.WorkerID,
		Amount:    amount,
		Method:    payment.Method,
		OrderID:   in.OrderID,
		PaymentID: in.PaymentID,
	})

	return nil
}

// failPayment persists the failed state so it is visible even if the caller
// ignores the response.
func (s *paymentService) failPayment(ctx context.Context, in VerifyPaymentInput, reason string) {
	if err := s.jobs.MarkPaymentFailed(ctx, in.JobID, reason); err != nil {
		s.logger.Error("Failed to record payment failure",
			slog.String("job_id", in.JobID),
			slog.String("reason", reason),
			slog.Any("error", err),
		)
	}

	s.publish(ctx, &events.PaymentEvent{
		Type:      events.TypePaymentFailed,
		JobID:     in.JobID,
		UserID:    in.UserID,
		OrderID:   in.OrderID,
		PaymentID: in.PaymentID,
		Reason:    reason,
	})
}

// RecordCashPayment marks the job's payment as settled in cash, authorized by
// the customer on the job, and appends the ledger entry with the amount the
// worker originally requested.
func (s *paymentService) RecordCashPayment(ctx context.Context, jobID, userID string) error {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	if job.UserID != userID {
		return domain.ErrUserNotAuthorized
	}

	if job.Payment == nil {
		return domain.ErrPaymentNotRequested
	}

	if err := s.jobs.MarkPaymentCash(ctx, jobID); err != nil {
		return err
	}

	txn := &domain.PaymentTransaction{
		ID:        uuid.New().String(),
		JobID:     jobID,
		UserID:    userID,
		WorkerID:  job.WorkerID,
		Amount:    job.Payment.Amount,
		Method:    domain.PaymentMethodCash,
		Status:    domain.PaymentStatusCompleted,
		CreatedAt: time.Now(),
	}
	if err := s.ledger.InsertTransaction(ctx, txn); err != nil {
		return err
	}

	s.publish(ctx, &events.PaymentEvent{
		Type:     events.TypePaymentCash,
		JobID:    jobID,
		UserID:   userID,
		WorkerID: job.WorkerID,
		Amount:   job.Payment.Amount,
		Method:   domain.PaymentMethodCash,
	})

	return nil
}

// GetWalletBalance is a pure read of the stored balance.
func (s *paymentService) GetWalletBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	return s.wallets.GetWalletBalance(ctx, userID)
}

// publish sends a payment event best-effort; failures are logged, never surfaced.
func (s *paymentService) publish(ctx context.Context, event *events.PaymentEvent) {
	event.OccurredAt = time.Now()

	if err := s.publisher.PublishPaymentEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish payment event",
			slog.String("type", event.Type),
			slog.String("job_id", event.JobID),
			slog.Any("error", err),
		)
	}
}
