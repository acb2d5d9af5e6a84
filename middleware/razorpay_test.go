package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func webhookRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", RazorpayWebhookAuth(), func(c *gin.Context) {
		// The middleware must leave the body readable for the handler.
		body, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		c.String(http.StatusOK, string(body))
	})
	return r
}

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRazorpayWebhookAuthAcceptsValidSignature(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec_test")
	t.Setenv("RAZORPAY_MODE", "live")
	r := webhookRouter(t)

	body := `{"event":"payment_link.paid"}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", sign("whsec_test", body))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, body, w.Body.String())
}

func TestRazorpayWebhookAuthRejectsBadSignature(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec_test")
	t.Setenv("RAZORPAY_MODE", "live")
	r := webhookRouter(t)

	body := `{"event":"payment_link.paid"}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", sign("wrong_secret", body))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRazorpayWebhookAuthRejectsMissingSignature(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec_test")
	t.Setenv("RAZORPAY_MODE", "live")
	r := webhookRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{}"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRazorpayWebhookAuthSkipsInSandbox(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec_test")
	t.Setenv("RAZORPAY_MODE", "sandbox")
	r := webhookRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{}"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
