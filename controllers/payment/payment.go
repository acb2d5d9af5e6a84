package paymentControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vendora-labs/multivendor-api/errs"
	"github.com/vendora-labs/multivendor-api/services/payment"
)

// PaymentSuccessHandler is the redirect target after the user completes the
// hosted payment. It settles the payment order against the provider's
// authoritative status; a repeat hit is a harmless no-op.
// GET /payments/:paymentOrderID/success?payment_id=...
func PaymentSuccessHandler(payments *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		paymentOrderID, err := strconv.ParseUint(c.Param("paymentOrderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment order id"})
			return
		}
		paymentID := c.Query("payment_id")
		if paymentID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment_id is required"})
			return
		}

		po, err := payments.FindByID(uint(paymentOrderID))
		if err != nil {
			c.JSON(errs.Status(err), gin.H{"error": err.Error()})
			return
		}

		settled, err := payments.Settle(c.Request.Context(), po, paymentID)
		if err != nil {
			c.JSON(errs.Status(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"settled": settled,
			"status":  po.Status,
		})
	}
}

// RazorpayWebhookRequest is the subset of the webhook payload the settlement
// flow needs.
type RazorpayWebhookRequest struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"payment"`
		PaymentLink struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"payment_link"`
	} `json:"payload"`
}

// WebhookHandler consumes provider callbacks. Providers may deliver the same
// confirmation more than once; Settle guarantees at most one transition.
// POST /payments/webhook
func WebhookHandler(payments *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RazorpayWebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook payload"})
			return
		}

		linkID := req.Payload.PaymentLink.Entity.ID
		paymentID := req.Payload.Payment.Entity.ID
		if linkID == "" || paymentID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing payment reference"})
			return
		}

		po, err := payments.FindByPaymentLinkID(linkID)
		if err != nil {
			c.JSON(errs.Status(err), gin.H{"error": err.Error()})
			return
		}

		settled, err := payments.Settle(c.Request.Context(), po, paymentID)
		if err != nil {
			log.Error().Err(err).Str("payment_link_id", linkID).Msg("webhook settlement failed")
			c.JSON(errs.Status(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"settled": settled, "status": po.Status})
	}
}
