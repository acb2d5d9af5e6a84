package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/vendora-labs/multivendor-api/errs"
)

// RazorpayClient talks to the Razorpay payment-link and payments APIs.
type RazorpayClient struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
}

// NewRazorpayClientFromEnv reads RAZORPAY_KEY_ID, RAZORPAY_KEY_SECRET and
// optionally RAZORPAY_API_URL.
func NewRazorpayClientFromEnv() (*RazorpayClient, error) {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keyID == "" || keySecret == "" {
		return nil, fmt.Errorf("razorpay configuration missing")
	}
	baseURL := os.Getenv("RAZORPAY_API_URL")
	if baseURL == "" {
		baseURL = "https://api.razorpay.com"
	}
	return NewRazorpayClient(baseURL, keyID, keySecret), nil
}

func NewRazorpayClient(baseURL, keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type razorpayLinkResponse struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Error    *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

type razorpayPaymentResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreatePaymentLink creates a hosted payment link. Razorpay amounts are in
// paise, so the whole-unit amount is multiplied by 100 here.
func (c *RazorpayClient) CreatePaymentLink(ctx context.Context, req LinkRequest) (PaymentLink, error) {
	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}
	payload := map[string]interface{}{
		"amount":          req.Amount * 100,
		"currency":        currency,
		"reference_id":    req.ReceiptID,
		"reminder_enable": true,
		"customer": map[string]string{
			"name":    req.CustomerName,
			"email":   req.CustomerEmail,
			"contact": req.CustomerPhone,
		},
		"notify": map[string]bool{
			"email": true,
		},
		"callback_url":    req.CallbackURL,
		"callback_method": "get",
	}

	var linkResp razorpayLinkResponse
	if err := c.do(ctx, http.MethodPost, "/v1/payment_links", payload, &linkResp); err != nil {
		return PaymentLink{}, err
	}
	if linkResp.Error != nil {
		return PaymentLink{}, errs.Providerf("razorpay: %s", linkResp.Error.Description)
	}
	if linkResp.ShortURL == "" {
		return PaymentLink{}, errs.Providerf("razorpay returned empty payment url")
	}
	return PaymentLink{ID: linkResp.ID, URL: linkResp.ShortURL}, nil
}

// FetchPaymentStatus fetches the authoritative state of a payment.
func (c *RazorpayClient) FetchPaymentStatus(ctx context.Context, paymentID string) (Status, error) {
	var payment razorpayPaymentResponse
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &payment); err != nil {
		return "", err
	}
	switch payment.Status {
	case "captured":
		return StatusCaptured, nil
	case "failed":
		return StatusFailed, nil
	default:
		return StatusPending, nil
	}
}

func (c *RazorpayClient) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errs.Providerf("razorpay unreachable: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Providerf("razorpay: reading response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return errs.Providerf("razorpay API error (%d): %s", resp.StatusCode, string(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errs.Providerf("razorpay: invalid response: %v", err)
	}
	return nil
}
