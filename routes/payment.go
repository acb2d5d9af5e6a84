package routes

import (
	"github.com/gin-gonic/gin"

	paymentControllers "github.com/vendora-labs/multivendor-api/controllers/payment"
	"github.com/vendora-labs/multivendor-api/middleware"
	"github.com/vendora-labs/multivendor-api/services/payment"
)

func SetupPaymentRoutes(r *gin.Engine, payments *payment.Service) {
	group := r.Group("/payments")
	{
		// Redirect target after the hosted payment completes
		group.GET("/:paymentOrderID/success", paymentControllers.PaymentSuccessHandler(payments))

		// Provider webhook, signature-checked
		group.POST("/webhook", middleware.RazorpayWebhookAuth(), paymentControllers.WebhookHandler(payments))
	}
}
