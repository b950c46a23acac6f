package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/handzy/payment-service/internal/api/domain"
	"github.com/handzy/payment-service/internal/api/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService returns canned results so the tests exercise only the
// HTTP mapping in the handlers.
type stubService struct {
	requestErr  error
	orderResult *service.OrderResult
	orderErr    error
	verifyErr   error
	cashErr     error
	balance     decimal.Decimal
	balanceErr  error
}

func (s *stubService) RequestPayment(context.Context, string, string, decimal.Decimal, string) error {
	return s.requestErr
}

func (s *stubService) CreateOrder(context.Context, service.CreateOrderInput) (*service.OrderResult, error) {
	if s.orderErr != nil {
		return nil, s.orderErr
	}
	return s.orderResult, nil
}

func (s *stubService) VerifyPayment(context.Context, service.VerifyPaymentInput) error {
	return s.verifyErr
}

func (s *stubService) RecordCashPayment(context.Context, string, string) error {
	return s.cashErr
}

func (s *stubService) GetWalletBalance(context.Context, string) (decimal.Decimal, error) {
	if s.balanceErr != nil {
		return decimal.Zero, s.balanceErr
	}
	return s.balance, nil
}

func newTestHandler(svc service.PaymentService) *PaymentHandler {
	return NewPaymentHandler(&Dependencies{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Service: svc,
	})
}

func performRequest(t *testing.T, handlerFunc gin.HandlerFunc, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Handle(method, "/api/payment/test", handlerFunc)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPaymentHandler_RequestPayment(t *testing.T) {
	validBody := gin.H{
		"jobId":       "job-1",
		"workerId":    "worker-1",
		"amount":      300,
		"description": "Pipe repair",
	}

	tests := []struct {
		name       string
		body       any
		serviceErr error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "success",
			body:       validBody,
			wantStatus: http.StatusOK,
			wantMsg:    "Payment request created successfully",
		},
		{
			name:       "missing fields",
			body:       gin.H{"jobId": "job-1"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Missing required fields",
		},
		{
			name:       "job not found",
			body:       validBody,
			serviceErr: domain.ErrJobNotFound,
			wantStatus: http.StatusNotFound,
			wantMsg:    "Job not found",
		},
		{
			name:       "worker not authorized",
			body:       validBody,
			serviceErr: domain.ErrWorkerNotAuthorized,
			wantStatus: http.StatusForbidden,
			wantMsg:    "Worker not authorized for this job",
		},
		{
			name:       "invalid amount",
			body:       validBody,
			serviceErr: domain.ErrInvalidAmount,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "storage failure",
			body:       validBody,
			serviceErr: assert.AnError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&stubService{requestErr: tt.serviceErr})
			rec := performRequest(t, h.RequestPayment, http.MethodPost, "/api/payment/test", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantStatus == http.StatusOK, body["success"])
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
			}
		})
	}
}

func TestPaymentHandler_CreateOrder(t *testing.T) {
	validBody := gin.H{
		"jobId":         "job-1",
		"userId":        "user-1",
		"amount":        300,
		"paymentMethod": "wallet",
	}

	t.Run("wallet payment succeeds", func(t *testing.T) {
		h := newTestHandler(&stubService{orderResult: &service.OrderResult{WalletPaid: true}})
		rec := performRequest(t, h.CreateOrder, http.MethodPost, "/api/payment/test", validBody)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Payment from wallet successful", body["message"])
	})

	t.Run("gateway order returned", func(t *testing.T) {
		h := newTestHandler(&stubService{orderResult: &service.OrderResult{
			OrderID:  "order_test_123",
			Amount:   decimal.RequireFromString("49.99"),
			Currency: "INR",
			KeyID:    "rzp_test_key",
		}})
		rec := performRequest(t, h.CreateOrder, http.MethodPost, "/api/payment/test", validBody)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "order_test_123", body["orderId"])
		assert.Equal(t, "INR", body["currency"])
		assert.Equal(t, "rzp_test_key", body["key_id"])
	})

	errTests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "payment not requested",
			serviceErr: domain.ErrPaymentNotRequested,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid job or payment not requested",
		},
		{
			name:       "user not found",
			serviceErr: domain.ErrUserNotFound,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "User not found",
		},
		{
			name:       "insufficient funds",
			serviceErr: domain.ErrInsufficientFunds,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Insufficient wallet balance",
		},
		{
			name:       "non-positive amount",
			serviceErr: domain.ErrInvalidAmount,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "gateway failure",
			serviceErr: assert.AnError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&stubService{orderErr: tt.serviceErr})
			rec := performRequest(t, h.CreateOrder, http.MethodPost, "/api/payment/test", validBody)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
			}
		})
	}

	t.Run("missing fields", func(t *testing.T) {
		h := newTestHandler(&stubService{})
		rec := performRequest(t, h.CreateOrder, http.MethodPost, "/api/payment/test", gin.H{"jobId": "job-1"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Missing required fields", body["message"])
	})
}

func TestPaymentHandler_VerifyPayment(t *testing.T) {
	validBody := gin.H{
		"razorpay_order_id":   "order_test_123",
		"razorpay_payment_id": "pay_test_456",
		"razorpay_signature":  "deadbeef",
		"jobId":               "job-1",
		"userId":              "user-1",
	}

	tests := []struct {
		name       string
		body       any
		serviceErr error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "success",
			body:       validBody,
			wantStatus: http.StatusOK,
			wantMsg:    "Payment verified successfully",
		},
		{
			name:       "missing callback fields",
			body:       gin.H{"jobId": "job-1"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Missing required fields",
		},
		{
			name:       "invalid signature",
			body:       validBody,
			serviceErr: domain.ErrInvalidSignature,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid payment signature",
		},
		{
			name:       "payment not captured",
			body:       validBody,
			serviceErr: domain.ErrPaymentNotCaptured,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Payment not captured",
		},
		{
			name:       "job not found",
			body:       validBody,
			serviceErr: domain.ErrJobNotFound,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Job not found",
		},
		{
			name:       "gateway failure",
			body:       validBody,
			serviceErr: assert.AnError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&stubService{verifyErr: tt.serviceErr})
			rec := performRequest(t, h.VerifyPayment, http.MethodPost, "/api/payment/test", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantStatus == http.StatusOK, body["success"])
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
			}
		})
	}
}

func TestPaymentHandler_RecordCashPayment(t *testing.T) {
	validBody := gin.H{
		"jobId":  "job-1",
		"userId": "user-1",
	}

	tests := []struct {
		name       string
		body       any
		serviceErr error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "success",
			body:       validBody,
			wantStatus: http.StatusOK,
			wantMsg:    "Cash payment recorded successfully",
		},
		{
			name:       "missing fields",
			body:       gin.H{"jobId": "job-1"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Missing required fields",
		},
		{
			name:       "job not found",
			body:       validBody,
			serviceErr: domain.ErrJobNotFound,
			wantStatus: http.StatusNotFound,
			wantMsg:    "Job not found",
		},
		{
			name:       "user not authorized",
			body:       validBody,
			serviceErr: domain.ErrUserNotAuthorized,
			wantStatus: http.StatusForbidden,
			wantMsg:    "User not authorized for this job",
		},
		{
			name:       "payment not requested",
			body:       validBody,
			serviceErr: domain.ErrPaymentNotRequested,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid job or payment not requested",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&stubService{cashErr: tt.serviceErr})
			rec := performRequest(t, h.RecordCashPayment, http.MethodPost, "/api/payment/test", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantStatus == http.StatusOK, body["success"])
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
			}
		})
	}
}

func TestPaymentHandler_GetWalletBalance(t *testing.T) {
	newBalanceRouter := func(svc service.PaymentService) *gin.Engine {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		h := newTestHandler(svc)
		router.GET("/api/wallet/balance/:userId", h.GetWalletBalance)
		return router
	}

	t.Run("returns stored balance", func(t *testing.T) {
		router := newBalanceRouter(&stubService{balance: decimal.RequireFromString("123.45")})

		req := httptest.NewRequest(http.MethodGet, "/api/wallet/balance/user-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "123.45", body["balance"])
	})

	t.Run("unknown user", func(t *testing.T) {
		router := newBalanceRouter(&stubService{balanceErr: domain.ErrUserNotFound})

		req := httptest.NewRequest(http.MethodGet, "/api/wallet/balance/ghost", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "User not found", body["message"])
	})

	t.Run("storage failure", func(t *testing.T) {
		router := newBalanceRouter(&stubService{balanceErr: assert.AnError})

		req := httptest.NewRequest(http.MethodGet, "/api/wallet/balance/user-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
