package payment

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{0, 0},
		{1, 100},
		{19.99, 1999},
		{1499.5, 149950},
		{0.295, 29},
		{12.349, 1234},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MinorUnits(tc.amount), "amount %v", tc.amount)
	}
}

func TestVerifySignature(t *testing.T) {
	gateway := NewRazorpay("rzp_test", "secret", "http://unused", time.Second)
	valid := hex.EncodeToString(gateway.sign("order_1|pay_1"))

	assert.NoError(t, gateway.VerifySignature("order_1", "pay_1", valid))
	assert.ErrorIs(t, gateway.VerifySignature("order_1", "pay_2", valid), ErrSignatureMismatch)
	assert.ErrorIs(t, gateway.VerifySignature("order_1", "pay_1", "zz-not-hex"), ErrSignatureMismatch)
	assert.ErrorIs(t, gateway.VerifySignature("order_1", "pay_1", ""), ErrSignatureMismatch)

	other := NewRazorpay("rzp_test", "other-secret", "http://unused", time.Second)
	assert.ErrorIs(t, other.VerifySignature("order_1", "pay_1", valid), ErrSignatureMismatch)
}

func TestCreateOrder(t *testing.T) {
	var got OrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_ABC",
			"entity":   "order",
			"amount":   got.Amount,
			"currency": got.Currency,
			"receipt":  got.Receipt,
			"status":   "created",
		})
	}))
	defer server.Close()

	gateway := NewRazorpay("rzp_test", "secret", server.URL+"/v1/", time.Second)
	order, err := gateway.CreateOrder(context.Background(), OrderRequest{
		Amount:         1999,
		Currency:       "INR",
		Receipt:        "local-1",
		PaymentCapture: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, OrderRequest{Amount: 1999, Currency: "INR", Receipt: "local-1", PaymentCapture: 1}, got)
	assert.Equal(t, "order_ABC", order.ID)
	assert.Equal(t, int64(1999), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "created", order.Status)
}

func TestCreateOrderGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The amount must be atleast INR 1.00"}}`))
	}))
	defer server.Close()

	gateway := NewRazorpay("rzp_test", "secret", server.URL, time.Second)
	_, err := gateway.CreateOrder(context.Background(), OrderRequest{Amount: 10, Currency: "INR"})

	var gatewayErr *GatewayError
	require.True(t, errors.As(err, &gatewayErr))
	assert.Equal(t, http.StatusBadRequest, gatewayErr.StatusCode)
	assert.Equal(t, "BAD_REQUEST_ERROR", gatewayErr.Code)
	assert.Contains(t, gatewayErr.Error(), "atleast INR 1.00")
}

func TestCreateOrderTimesOut(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	gateway := NewRazorpay("rzp_test", "secret", server.URL, 50*time.Millisecond)
	_, err := gateway.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "INR"})
	assert.Error(t, err)
}
