package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signFor(t *testing.T, orderID, paymentID, secret string) string {
	t.Helper()

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "test_key_secret"

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		secret    string
		want      bool
	}{
		{
			name:      "valid signature",
			orderID:   "order_123",
			paymentID: "pay_456",
			signature: signFor(t, "order_123", "pay_456", secret),
			secret:    secret,
			want:      true,
		},
		{
			name:      "tampered signature",
			orderID:   "order_123",
			paymentID: "pay_456",
			signature: "deadbeef",
			secret:    secret,
			want:      false,
		},
		{
			name:      "signature for different order",
			orderID:   "order_123",
			paymentID: "pay_456",
			signature: signFor(t, "order_999", "pay_456", secret),
			secret:    secret,
			want:      false,
		},
		{
			name:      "signature for different payment",
			orderID:   "order_123",
			paymentID: "pay_456",
			signature: signFor(t, "order_123", "pay_999", secret),
			secret:    secret,
			want:      false,
		},
		{
			name:      "wrong secret",
			orderID:   "order_123",
			paymentID: "pay_456",
			signature: signFor(t, "order_123", "pay_456", "other_secret"),
			secret:    secret,
			want:      false,
		},
		{
			name:      "empty signature",
			orderID:   "order_123",
			paymentID: "pay_456",
			signature: "",
			secret:    secret,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifySignature(tt.orderID, tt.paymentID, tt.signature, tt.secret)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRazorpayVerifySignature(t *testing.T) {
	g := NewRazorpay("rzp_test_key", "rzp_test_secret", slog.New(slog.NewTextHandler(io.Discard, nil)))

	sig := signFor(t, "order_abc", "pay_def", "rzp_test_secret")
	assert.True(t, g.VerifySignature("order_abc", "pay_def", sig))
	assert.False(t, g.VerifySignature("order_abc", "pay_def", "forged"))
	assert.Equal(t, "rzp_test_key", g.KeyID())
}
