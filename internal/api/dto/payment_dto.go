package dto

import "github.com/shopspring/decimal"

type RequestPaymentRequest struct {
	JobID       string          `json:"jobId" binding:"required"`
	WorkerID    string          `json:"workerId" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

type CreateOrderRequest struct {
	JobID         string          `json:"jobId" binding:"required"`
	UserID        string          `json:"userId" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"paymentMethod"`
}

// VerifyPaymentRequest mirrors the field names the gateway posts back.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	JobID             string `json:"jobId" binding:"required"`
	UserID            string `json:"userId" binding:"required"`
}

type CashPaymentRequest struct {
	JobID  string `json:"jobId" binding:"required"`
	UserID string `json:"userId" binding:"required"`
}

type CreateOrderResponse struct {
	Success  bool            `json:"success"`
	OrderID  string          `json:"orderId"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	KeyID    string          `json:"key_id"`
}

type WalletBalanceResponse struct {
	Success bool            `json:"success"`
	Balance decimal.Decimal `json:"balance"`
}
