package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"studylib/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignPayload(t *testing.T) {
	secret := "test-secret"
	signature := signPayload(secret, "order_123", "pay_456")

	t.Run("round trips", func(t *testing.T) {
		assert.True(t, verifySignature(secret, "order_123", "pay_456", signature))
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, signature, signPayload(secret, "order_123", "pay_456"))
	})

	t.Run("single flipped character fails", func(t *testing.T) {
		tampered := signature[:len(signature)-1]
		if signature[len(signature)-1] == '0' {
			tampered += "1"
		} else {
			tampered += "0"
		}
		assert.False(t, verifySignature(secret, "order_123", "pay_456", tampered))
	})

	t.Run("different order id fails", func(t *testing.T) {
		assert.False(t, verifySignature(secret, "order_999", "pay_456", signature))
	})

	t.Run("different payment id fails", func(t *testing.T) {
		assert.False(t, verifySignature(secret, "order_123", "pay_999", signature))
	})

	t.Run("different secret fails", func(t *testing.T) {
		assert.False(t, verifySignature("other-secret", "order_123", "pay_456", signature))
	})

	t.Run("empty signature fails", func(t *testing.T) {
		assert.False(t, verifySignature(secret, "order_123", "pay_456", ""))
	})
}

func TestCashfreeCreateIntent(t *testing.T) {
	var captured cashfreeOrderRequest
	var capturedHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(cashfreeOrderResponse{
			OrderID:          captured.OrderID,
			CFOrderID:        "cf_1001",
			PaymentSessionID: "session_abc",
			OrderStatus:      "ACTIVE",
		})
	}))
	defer server.Close()

	config.GlobalConfig.Cashfree = config.CashfreeConfig{
		ClientID:     "cf-client",
		ClientSecret: "cf-secret",
		BaseURL:      server.URL,
		APIVersion:   "2023-08-01",
	}

	gw, err := NewCashfreeGateway()
	require.NoError(t, err)

	intent, err := gw.CreateIntent(context.Background(), IntentRequest{
		LocalOrderID: "local-1",
		Amount:       123450,
		Currency:     "INR",
		Receipt:      "rcpt-1",
		Notes:        map[string]string{"user_id": "user-1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "rcpt-1", intent.GatewayOrderID)
	assert.Equal(t, int64(123450), intent.Amount)
	assert.Equal(t, "session_abc", intent.Extra["payment_session_id"])

	// Paise are converted to a rupee decimal only at the API edge.
	assert.Equal(t, "1234.50", captured.OrderAmount)
	assert.Equal(t, "INR", captured.OrderCurrency)
	assert.Equal(t, "user-1", captured.CustomerDetails.CustomerID)
	assert.Equal(t, "local-1", captured.OrderTags["local_order_id"])

	assert.Equal(t, "cf-client", capturedHeaders.Get("x-client-id"))
	assert.Equal(t, "cf-secret", capturedHeaders.Get("x-client-secret"))
	assert.Equal(t, "2023-08-01", capturedHeaders.Get("x-api-version"))
}

func TestCashfreeCreateIntentErrors(t *testing.T) {
	t.Run("missing config", func(t *testing.T) {
		config.GlobalConfig.Cashfree = config.CashfreeConfig{}
		_, err := NewCashfreeGateway()
		assert.Error(t, err)
	})

	t.Run("non-200 response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(cashfreeOrderResponse{Message: "authentication failed"})
		}))
		defer server.Close()

		config.GlobalConfig.Cashfree = config.CashfreeConfig{
			ClientID:     "cf-client",
			ClientSecret: "bad-secret",
			BaseURL:      server.URL,
			APIVersion:   "2023-08-01",
		}

		gw, err := NewCashfreeGateway()
		require.NoError(t, err)

		_, err = gw.CreateIntent(context.Background(), IntentRequest{
			Amount:   100,
			Currency: "INR",
			Receipt:  "rcpt-1",
			Notes:    map[string]string{"user_id": "user-1"},
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "authentication failed")
	})
}

func TestGatewayVerifySignature(t *testing.T) {
	config.GlobalConfig.Razorpay = config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "rzp-secret",
	}
	rzp, err := NewRazorpayGateway()
	require.NoError(t, err)

	config.GlobalConfig.Cashfree = config.CashfreeConfig{
		ClientID:     "cf-client",
		ClientSecret: "cf-secret",
		BaseURL:      "http://localhost",
		APIVersion:   "2023-08-01",
	}
	cf, err := NewCashfreeGateway()
	require.NoError(t, err)

	t.Run("each gateway accepts only its own secret", func(t *testing.T) {
		rzpSig := signPayload("rzp-secret", "order_123", "pay_456")
		cfSig := signPayload("cf-secret", "order_123", "pay_456")

		assert.True(t, rzp.VerifySignature("order_123", "pay_456", rzpSig))
		assert.False(t, rzp.VerifySignature("order_123", "pay_456", cfSig))

		assert.True(t, cf.VerifySignature("order_123", "pay_456", cfSig))
		assert.False(t, cf.VerifySignature("order_123", "pay_456", rzpSig))
	})
}
