package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendora-labs/multivendor-api/services/cart"
	"github.com/vendora-labs/multivendor-api/services/notify"
	"github.com/vendora-labs/multivendor-api/services/order"
	"github.com/vendora-labs/multivendor-api/services/payment"
)

// SetupRoutes is the single entry-point that wires up the cart, order and
// payment route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	carts := cart.NewService(db)
	orders := order.NewService(db)

	var mailer notify.Mailer
	if m, err := notify.NewSMTPMailerFromEnv(); err == nil {
		mailer = m
	}
	payments := payment.NewService(db, nil, mailer)

	SetupCartRoutes(r, carts)
	SetupOrderRoutes(r, orders, payments)
	SetupPaymentRoutes(r, payments)
}
