// Package payment talks to the Razorpay orders API and checks the payment
// signatures Razorpay hands back to the checkout page.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrSignatureMismatch is returned when a payment callback does not carry the
// signature the gateway would have produced.
var ErrSignatureMismatch = errors.New("razorpay signature mismatch")

var hundred = decimal.NewFromInt(100)

// MinorUnits converts a major-unit amount (rupees) into the integer count of
// minor units (paise) the gateway expects. Fractions of a paisa are dropped.
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(hundred).Truncate(0).IntPart()
}

type OrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt,omitempty"`
	PaymentCapture int    `json:"payment_capture"`
}

// Order is the gateway's view of a payment intent.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// GatewayError carries a non-2xx answer from the gateway.
type GatewayError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *GatewayError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("razorpay %d %s: %s", e.StatusCode, e.Code, e.Description)
	}
	return fmt.Sprintf("razorpay returned %d", e.StatusCode)
}

type Razorpay struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

func NewRazorpay(keyID, keySecret, baseURL string, timeout time.Duration) *Razorpay {
	return &Razorpay{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: timeout},
	}
}

// CreateOrder registers a payment intent and returns the gateway handle.
func (r *Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Order{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return Order{}, err
	}
	httpReq.SetBasicAuth(r.keyID, r.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return Order{}, fmt.Errorf("razorpay request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Order{}, fmt.Errorf("razorpay read failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gatewayErr := &GatewayError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		}
		if json.Unmarshal(payload, &envelope) == nil {
			gatewayErr.Code = envelope.Error.Code
			gatewayErr.Description = envelope.Error.Description
		}
		return Order{}, gatewayErr
	}

	var order Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return Order{}, fmt.Errorf("razorpay decode failed: %w", err)
	}
	if order.ID == "" {
		return Order{}, errors.New("razorpay returned an order without id")
	}
	return order, nil
}

// VerifySignature checks the checkout callback signature. It needs no network
// round trip: the signature is an HMAC of the two ids keyed by the secret.
func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) error {
	expected := r.sign(orderID + "|" + paymentID)
	given, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || !hmac.Equal(expected, given) {
		return ErrSignatureMismatch
	}
	return nil
}

func (r *Razorpay) sign(payload string) []byte {
	mac := hmac.New(sha256.New, []byte(r.keySecret))
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}
