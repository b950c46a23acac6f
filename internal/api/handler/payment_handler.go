package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/handzy/payment-service/internal/api/domain"
	"github.com/handzy/payment-service/internal/api/dto"
	"github.com/handzy/payment-service/internal/api/service"
)

// RequestPayment handles POST /api/payment/request
// A worker requests payment after completing a job
func (h *PaymentHandler) RequestPayment(c *gin.Context) {
	h.logger.Info("RequestPayment called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	var req dto.RequestPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing required fields",
		})
		return
	}

	err := h.service.RequestPayment(c.Request.Context(), req.JobID, req.WorkerID, req.Amount, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrJobNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Job not found"})
		case errors.Is(err, domain.ErrWorkerNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Worker not authorized for this job"})
		case errors.Is(err, domain.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			h.logger.Error("Failed to create payment request", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment request created successfully",
	})
}

// CreateOrder handles POST /api/payment/create-order
// The customer starts collection: wallet debit or a new gateway order
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	h.logger.Info("CreateOrder called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing required fields",
		})
		return
	}

	result, err := h.service.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		JobID:         req.JobID,
		UserID:        req.UserID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		case errors.Is(err, domain.ErrPaymentNotRequested):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid job or payment not requested"})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User not found"})
		case errors.Is(err, domain.ErrInsufficientFunds):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Insufficient wallet balance"})
		default:
			h.logger.Error("Failed to create order", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		}
		return
	}

	if result.WalletPaid {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Payment from wallet successful",
		})
		return
	}

	c.JSON(http.StatusOK, dto.CreateOrderResponse{
		Success:  true,
		OrderID:  result.OrderID,
		Amount:   result.Amount,
		Currency: result.Currency,
		KeyID:    result.KeyID,
	})
}

// VerifyPayment handles POST /api/payment/verify
// Validates the gateway callback signature and the captured payment
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	h.logger.Info("VerifyPayment called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing required fields",
		})
		return
	}

	err := h.service.VerifyPayment(c.Request.Context(), service.VerifyPaymentInput{
		OrderID:   req.RazorpayOrderID,
		PaymentID: req.RazorpayPaymentID,
		Signature: req.RazorpaySignature,
		JobID:     req.JobID,
		UserID:    req.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payment signature"})
		case errors.Is(err, domain.ErrPaymentNotCaptured):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Payment not captured"})
		case errors.Is(err, domain.ErrJobNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Job not found"})
		default:
			h.logger.Error("Failed to verify payment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment verified successfully",
	})
}

// RecordCashPayment handles POST /api/payment/cash
// The customer marks the job as paid in cash
func (h *PaymentHandler) RecordCashPayment(c *gin.Context) {
	h.logger.Info("RecordCashPayment called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	var req dto.CashPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing required fields",
		})
		return
	}

	err := h.service.RecordCashPayment(c.Request.Context(), req.JobID, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrJobNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Job not found"})
		case errors.Is(err, domain.ErrUserNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "User not authorized for this job"})
		case errors.Is(err, domain.ErrPaymentNotRequested):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid job or payment not requested"})
		default:
			h.logger.Error("Failed to record cash payment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cash payment recorded successfully",
	})
}
