package gateway

import "context"

// Order is a gateway-side record of intent to collect AmountMinor.
type Order struct {
	ID          string
	AmountMinor int64
	Currency    string
	Receipt     string
}

// Payment is the authoritative payment object fetched from the gateway.
type Payment struct {
	ID          string
	Status      string
	Method      string
	AmountMinor int64
}

// StatusCaptured is the gateway status of a finalized payment.
const StatusCaptured = "captured"

// Gateway abstracts the payment gateway so handlers and tests can substitute
// fakes. Amounts cross this boundary in integer minor units.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*Order, error)
	FetchPayment(ctx context.Context, paymentID string) (*Payment, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}
