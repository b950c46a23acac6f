package reconciler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/handzy/payment-service/internal/api/domain"
	"github.com/handzy/payment-service/internal/events"
)

// JobRepairStore is the slice of the job store the reconciler needs.
type JobRepairStore interface {
	GetJob(ctx context.Context, jobID string) (*domain.Job, error)
	MarkPaymentCompleted(ctx context.Context, jobID, method, paymentID string) error
	MarkPaymentCash(ctx context.Context, jobID string) error
}

// handleEvent re-applies terminal payment state from an event. Only completed
// and cash events carry state worth repairing; everything else is acked as-is.
// The repair is idempotent and forward-only: a job already showing a terminal
// payment status is left untouched.
func (r *Reconciler) handleEvent(ctx context.Context, event *events.PaymentEvent) error {
	switch event.Type {
	case events.TypePaymentCompleted, events.TypePaymentCash:
	default:
		return nil
	}

	job, err := r.store.GetJob(ctx, event.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			// Money already moved for a job we cannot see; requeueing will
			// never help, so log loudly and drop the event.
			r.logger.Error("Payment event references unknown job",
				slog.String("type", event.Type),
				slog.String("job_id", event.JobID),
			)
			return nil
		}
		return err
	}

	if job.Payment != nil && isTerminal(job.Payment.Status) {
		r.logger.Debug("Job payment already consistent",
			slog.String("job_id", event.JobID),
			slog.String("status", job.Payment.Status),
		)
		return nil
	}

	if event.Type == events.TypePaymentCash {
		if err := r.store.MarkPaymentCash(ctx, event.JobID); err != nil {
			return err
		}
	} else {
		if err := r.store.MarkPaymentCompleted(ctx, event.JobID, event.Method, event.PaymentID); err != nil {
			return err
		}
	}

	r.logger.Info("Repaired job payment record",
		slog.String("job_id", event.JobID),
		slog.String("type", event.Type),
		slog.String("method", event.Method),
	)

	return nil
}

func isTerminal(status string) bool {
	return status == domain.PaymentStatusCompleted || status == domain.PaymentStatusCash
}
