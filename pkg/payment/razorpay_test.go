package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mallikarjunadanduba/FitLife360/internal/apperr"
	"github.com/mallikarjunadanduba/FitLife360/pkg/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(&config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		BaseURL:   server.URL,
		Currency:  "INR",
		Timeout:   5 * time.Second,
	}, zap.NewNop())
	return client, server
}

func TestMinorUnits(t *testing.T) {
	require.Equal(t, int64(1999), MinorUnits(19.99))
	require.Equal(t, int64(6000), MinorUnits(60.0))
	require.Equal(t, int64(0), MinorUnits(0))
	// 58.29*100 is 5828.999... in float64; rounding must not truncate
	require.Equal(t, int64(5829), MinorUnits(58.29))
}

func TestCreateOrderSendsMinorUnitsAndAuth(t *testing.T) {
	var gotReq createOrderRequest
	var gotAuthUser, gotAuthPass string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var ok bool
		gotAuthUser, gotAuthPass, ok = r.BasicAuth()
		require.True(t, ok)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(createOrderResponse{
			ID:       "order_ABC123",
			Amount:   gotReq.Amount,
			Currency: gotReq.Currency,
			Receipt:  gotReq.Receipt,
			Status:   "created",
		})
	}))

	order, err := client.CreateOrder(context.Background(), 19.99, "FL20260901DEADBEEF")
	require.NoError(t, err)

	require.Equal(t, "rzp_test_key", gotAuthUser)
	require.Equal(t, "rzp_test_secret", gotAuthPass)
	require.Equal(t, int64(1999), gotReq.Amount)
	require.Equal(t, "INR", gotReq.Currency)
	require.Equal(t, "FL20260901DEADBEEF", gotReq.Receipt)

	require.Equal(t, "order_ABC123", order.ID)
	require.Equal(t, int64(1999), order.Amount)
	require.Equal(t, "FL20260901DEADBEEF", order.Receipt)
}

func TestCreateOrderGatewayRejection(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"description":"Authentication failed"}}`, http.StatusUnauthorized)
	}))

	_, err := client.CreateOrder(context.Background(), 10, "FL1")
	require.Error(t, err)
	require.Equal(t, apperr.KindGateway, apperr.KindOf(err))
}

func TestFetchAndVerifyPaymentCaptured(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/payments/pay_live1", r.URL.Path)

		json.NewEncoder(w).Encode(fetchPaymentResponse{
			ID:       "pay_live1",
			Status:   "captured",
			Amount:   6000,
			Currency: "INR",
		})
	}))

	result, err := client.FetchAndVerifyPayment(context.Background(), "pay_live1")
	require.NoError(t, err)
	require.True(t, result.Captured)
	require.Equal(t, "captured", result.Status)
	require.Equal(t, "pay_live1", result.TransactionID)
	require.Equal(t, 60.0, result.Amount)
	require.Equal(t, "INR", result.Currency)
}

func TestFetchAndVerifyPaymentNotCaptured(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(fetchPaymentResponse{
			ID:       "pay_live2",
			Status:   "authorized",
			Amount:   6000,
			Currency: "INR",
		})
	}))

	result, err := client.FetchAndVerifyPayment(context.Background(), "pay_live2")
	require.NoError(t, err)
	require.False(t, result.Captured)
	require.Equal(t, "authorized", result.Status)
}

func TestFetchAndVerifyPaymentGatewayError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"description":"not found"}}`, http.StatusBadRequest)
	}))

	_, err := client.FetchAndVerifyPayment(context.Background(), "pay_missing")
	require.Error(t, err)
	require.Equal(t, apperr.KindGateway, apperr.KindOf(err))
}

func TestFetchAndVerifyPaymentTestPrefixSkipsGateway(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("test payments must not reach the gateway")
	}))

	result, err := client.FetchAndVerifyPayment(context.Background(), "test_abc")
	require.NoError(t, err)
	require.True(t, result.Captured)
	require.Equal(t, "test_abc", result.TransactionID)
	require.Equal(t, "captured", result.Status)
}

func TestVerifySignature(t *testing.T) {
	client, _ := newTestClient(t, http.NewServeMux())

	mac := hmac.New(sha256.New, []byte("rzp_test_secret"))
	mac.Write([]byte("order_ABC|pay_XYZ"))
	valid := hex.EncodeToString(mac.Sum(nil))

	require.True(t, client.VerifySignature("order_ABC", "pay_XYZ", valid))
	require.False(t, client.VerifySignature("order_ABC", "pay_XYZ", "deadbeef"))
	require.False(t, client.VerifySignature("order_other", "pay_XYZ", valid))
	require.False(t, client.VerifySignature("order_ABC", "pay_XYZ", ""))
}
