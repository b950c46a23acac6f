package handler

import (
	"log/slog"

	"github.com/handzy/payment-service/internal/api/service"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger  *slog.Logger
	Service service.PaymentService
}

// PaymentHandler handles payment and wallet HTTP requests
type PaymentHandler struct {
	logger  *slog.Logger
	service service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler instance
func NewPaymentHandler(deps *Dependencies) *PaymentHandler {
	return &PaymentHandler{
		logger:  deps.Logger,
		service: deps.Service,
	}
}
