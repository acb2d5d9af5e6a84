package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vendora-labs/multivendor-api/errs"
)

func TestRazorpayCreatePaymentLink(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payment_links", r.URL.Path)

		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "key_id", username)
		require.Equal(t, "key_secret", password)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":        "plink_abc",
			"short_url": "https://rzp.io/i/abc",
		})
	}))
	defer server.Close()

	client := NewRazorpayClient(server.URL, "key_id", "key_secret")
	link, err := client.CreatePaymentLink(context.Background(), LinkRequest{
		Amount:        1200,
		ReceiptID:     "rcpt_1",
		CustomerName:  "Test Buyer",
		CustomerEmail: "buyer@example.com",
		CallbackURL:   "https://shop.example/payments/callback",
	})
	require.NoError(t, err)
	require.Equal(t, "plink_abc", link.ID)
	require.Equal(t, "https://rzp.io/i/abc", link.URL)

	// Whole currency units convert to paise on the wire.
	require.EqualValues(t, 120000, got["amount"])
	require.Equal(t, "INR", got["currency"])
	require.Equal(t, "rcpt_1", got["reference_id"])
	customer := got["customer"].(map[string]interface{})
	require.Equal(t, "buyer@example.com", customer["email"])
}

func TestRazorpayFetchPaymentStatusMapping(t *testing.T) {
	cases := map[string]Status{
		"captured":   StatusCaptured,
		"failed":     StatusFailed,
		"created":    StatusPending,
		"authorized": StatusPending,
	}
	for providerStatus, want := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v1/payments/pay_1", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "pay_1", "status": providerStatus})
		}))

		client := NewRazorpayClient(server.URL, "key_id", "key_secret")
		status, err := client.FetchPaymentStatus(context.Background(), "pay_1")
		require.NoError(t, err)
		require.Equal(t, want, status, "provider status %q", providerStatus)
		server.Close()
	}
}

func TestRazorpayAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"code": "BAD_REQUEST_ERROR", "description": "amount missing"},
		})
	}))
	defer server.Close()

	client := NewRazorpayClient(server.URL, "key_id", "key_secret")
	_, err := client.CreatePaymentLink(context.Background(), LinkRequest{Amount: 100})
	require.ErrorIs(t, err, errs.ErrExternalProvider)

	_, err = client.FetchPaymentStatus(context.Background(), "pay_1")
	require.ErrorIs(t, err, errs.ErrExternalProvider)
}

func TestRazorpayUnreachable(t *testing.T) {
	client := NewRazorpayClient("http://127.0.0.1:1", "key_id", "key_secret")

	_, err := client.FetchPaymentStatus(context.Background(), "pay_1")
	require.ErrorIs(t, err, errs.ErrExternalProvider)
}
