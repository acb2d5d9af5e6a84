package orderControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vendora-labs/multivendor-api/errs"
	"github.com/vendora-labs/multivendor-api/middleware"
	"github.com/vendora-labs/multivendor-api/models"
	"github.com/vendora-labs/multivendor-api/services/order"
	"github.com/vendora-labs/multivendor-api/services/payment"
)

// -------- Request Structs --------

type PlaceOrderRequest struct {
	ShippingAddress struct {
		Name     string `json:"name" binding:"required"`
		Street   string `json:"street" binding:"required"`
		Locality string `json:"locality"`
		City     string `json:"city" binding:"required"`
		State    string `json:"state" binding:"required"`
		PinCode  string `json:"pin_code" binding:"required"`
		Mobile   string `json:"mobile"`
	} `json:"shipping_address" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"` // RAZORPAY or STRIPE
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Handlers --------

// PlaceOrderHandler splits the cart into per-seller orders and returns a
// hosted payment link covering all of them.
// POST /orders/place
func PlaceOrderHandler(orders *order.Service, payments *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		method := models.PaymentMethod(req.PaymentMethod)
		if method != models.PaymentMethodRazorpay && method != models.PaymentMethodStripe {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method"})
			return
		}

		created, err := orders.CreateOrders(userID, models.Address{
			Name:     req.ShippingAddress.Name,
			Street:   req.ShippingAddress.Street,
			Locality: req.ShippingAddress.Locality,
			City:     req.ShippingAddress.City,
			State:    req.ShippingAddress.State,
			PinCode:  req.ShippingAddress.PinCode,
			Mobile:   req.ShippingAddress.Mobile,
		})
		if err != nil {
			c.JSON(errs.Status(err), gin.H{"error": err.Error()})
			return
		}
		if len(created) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			return
		}

		po, payURL, err := payments.CreatePaymentOrder(c.Request.Context(), userID, created, method)
		if err != nil {
			c.JSON(errs.Status(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"payment_order_id": po.ID,
			"payment_link_id":  po.PaymentLinkID,
			"payment_url":      payURL,
			"orders":           created,
		})
	}
}

// GET /orders
func GetUserOrdersHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		history, err := orders.UserOrderHistory(userID)
		if err != nil {
			c.JSON(errs.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, history)
	}
}

// GET /orders/:orderID
func GetOrderByIDHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		o, err := orders.FindByID(uint(orderID))
		if err != nil {
			c.JSON(errs.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// GET /seller/orders/:sellerID
func GetSellerOrdersHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, err := strconv.ParseUint(c.Param("sellerID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seller id"})
			return
		}

		result, err := orders.SellerOrders(uint(sellerID))
		if err != nil {
			c.JSON(errs.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// PUT /seller/orders/:orderID/status
func UpdateOrderStatusHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		next, ok := models.ParseOrderStatus(req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order status"})
			return
		}

		o, err := orders.UpdateOrderStatus(uint(orderID), next)
		if err != nil {
			c.JSON(errs.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// PUT /orders/:orderID/cancel
func CancelOrderHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		o, err := orders.CancelOrder(uint(orderID), userID)
		if err != nil {
			c.JSON(errs.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// DELETE /seller/orders/:orderID
func DeleteOrderHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		if err := orders.DeleteOrder(uint(orderID)); err != nil {
			c.JSON(errs.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
