package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/handzy/payment-service/internal/api/domain"
	"github.com/handzy/payment-service/internal/api/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// GetWalletBalance returns the stored wallet balance for a user. Accounts
// without a balance yet read as zero.
func (s *Storage) GetWalletBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	query := `SELECT user_id, wallet_balance FROM user_accounts WHERE user_id = $1`

	var row model.UserAccountRow
	err := s.db.GetContext(ctx, &row, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, domain.ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to get wallet balance: %w", err)
	}

	if !row.WalletBalance.Valid {
		return decimal.Zero, nil
	}

	return row.WalletBalance.Decimal, nil
}

// DebitWallet deducts txn.Amount from the user's wallet and inserts the
// ledger entry as one transaction. The balance row is locked with FOR UPDATE
// so concurrent debits against the same user serialize; two racing debits can
// never jointly overdraw an initially-sufficient balance.
func (s *Storage) DebitWallet(ctx context.Context, userID string, txn *domain.PaymentTransaction) error {
	// A non-positive debit would credit the wallet through Sub below.
	if !txn.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin debit transaction: %w", err)
	}
	defer tx.Rollback()

	var balance decimal.NullDecimal
	err = tx.QueryRowxContext(ctx,
		`SELECT wallet_balance FROM user_accounts WHERE user_id = $1 FOR UPDATE`,
		userID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to read wallet balance: %w", err)
	}

	current := decimal.Zero
	if balance.Valid {
		current = balance.Decimal
	}

	if current.LessThan(txn.Amount) {
		return domain.ErrInsufficientFunds
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE user_accounts SET wallet_balance = $1, updated_at = NOW() WHERE user_id = $2`,
		current.Sub(txn.Amount),
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update wallet balance: %w", err)
	}

	if err := insertTransaction(ctx, tx, txn); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit debit transaction: %w", err)
	}

	s.logger.Info("Wallet debited",
		slog.String("user_id", userID),
		slog.String("job_id", txn.JobID),
		slog.String("amount", txn.Amount.String()),
	)

	return nil
}

// InsertTransaction appends a ledger entry outside of any wallet transaction
// (gateway and cash payments).
func (s *Storage) InsertTransaction(ctx context.Context, txn *domain.PaymentTransaction) error {
	return insertTransaction(ctx, s.db, txn)
}

func insertTransaction(ctx context.Context, ext sqlx.ExtContext, txn *domain.PaymentTransaction) error {
	query := `
		INSERT INTO payment_transactions (
			transaction_id, job_id, user_id, worker_id,
			amount, method, status, gateway_order_id, gateway_payment_id, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10
		)
	`

	_, err := ext.ExecContext(ctx, query,
		txn.ID,
		txn.JobID,
		txn.UserID,
		txn.WorkerID,
		txn.Amount,
		txn.Method,
		txn.Status,
		txn.OrderID,
		txn.PaymentID,
		txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment transaction: %w", err)
	}

	return nil
}
