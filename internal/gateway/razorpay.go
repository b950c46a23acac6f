package gateway

import (
	"context"
	"fmt"
	"log/slog"

	razorpay "github.com/razorpay/razorpay-go"
)

// Razorpay implements Gateway on top of the official Razorpay client.
type Razorpay struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
	logger    *slog.Logger
}

// NewRazorpay creates a Razorpay-backed gateway.
func NewRazorpay(keyID, keySecret string, logger *slog.Logger) *Razorpay {
	return &Razorpay{
		client:    razorpay.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
		logger:    logger,
	}
}

// CreateOrder opens a gateway order for amountMinor. The Razorpay client does
// not take a context; request timeouts fall back to its HTTP transport.
func (g *Razorpay) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		orderNotes := make(map[string]interface{}, len(notes))
		for k, v := range notes {
			orderNotes[k] = v
		}
		data["notes"] = orderNotes
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		g.logger.Error("Failed to create gateway order",
			slog.Int64("amount_minor", amountMinor),
			slog.String("receipt", receipt),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return nil, fmt.Errorf("gateway order response missing id")
	}

	g.logger.Info("Gateway order created",
		slog.String("order_id", orderID),
		slog.Int64("amount_minor", amountMinor),
		slog.String("currency", currency),
	)

	return &Order{
		ID:          orderID,
		AmountMinor: amountMinor,
		Currency:    currency,
		Receipt:     receipt,
	}, nil
}

// FetchPayment retrieves the authoritative payment object by id.
func (g *Razorpay) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	body, err := g.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		g.logger.Error("Failed to fetch gateway payment",
			slog.String("payment_id", paymentID),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to fetch gateway payment: %w", err)
	}

	payment := &Payment{ID: paymentID}
	if status, ok := body["status"].(string); ok {
		payment.Status = status
	}
	if method, ok := body["method"].(string); ok {
		payment.Method = method
	}
	if amount, ok := body["amount"].(float64); ok {
		payment.AmountMinor = int64(amount)
	}

	return payment, nil
}

// VerifySignature checks a callback signature against the shared key secret.
func (g *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, g.keySecret)
}

// KeyID returns the public key id clients use for checkout.
func (g *Razorpay) KeyID() string {
	return g.keyID
}
