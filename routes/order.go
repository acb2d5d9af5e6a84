package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/vendora-labs/multivendor-api/controllers/order"
	"github.com/vendora-labs/multivendor-api/middleware"
	"github.com/vendora-labs/multivendor-api/services/order"
	"github.com/vendora-labs/multivendor-api/services/payment"
)

func SetupOrderRoutes(r *gin.Engine, orders *order.Service, payments *payment.Service) {
	user := r.Group("/orders", middleware.ValidateToken)
	{
		// Split the cart into per-seller orders and get a payment link
		user.POST("/place", orderControllers.PlaceOrderHandler(orders, payments))

		// Order history for the authenticated user
		user.GET("/", orderControllers.GetUserOrdersHandler(orders))

		// Single order
		user.GET("/:orderID", orderControllers.GetOrderByIDHandler(orders))

		// Cancel own order
		user.PUT("/:orderID/cancel", orderControllers.CancelOrderHandler(orders))
	}

	seller := r.Group("/seller", middleware.ValidateAPIKey)
	{
		// Orders routed to one seller
		seller.GET("/orders/:sellerID", orderControllers.GetSellerOrdersHandler(orders))

		// Fulfilment status updates (confirmed, shipped, delivered)
		seller.PUT("/orders/:orderID/status", orderControllers.UpdateOrderStatusHandler(orders))

		// Remove an order
		seller.DELETE("/orders/:orderID", orderControllers.DeleteOrderHandler(orders))
	}
}
