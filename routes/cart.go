package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/vendora-labs/multivendor-api/controllers/cart"
	"github.com/vendora-labs/multivendor-api/middleware"
	"github.com/vendora-labs/multivendor-api/services/cart"
)

func SetupCartRoutes(r *gin.Engine, carts *cart.Service) {
	group := r.Group("/user/cart", middleware.ValidateToken)
	{
		group.GET("", cartControllers.GetUserCart(carts))
		group.PUT("/add", cartControllers.AddCartItem(carts))
		group.PUT("/item/:item_id", cartControllers.UpdateCartItem(carts))
		group.DELETE("/item/:item_id", cartControllers.DeleteCartItem(carts))
		group.POST("/coupon", cartControllers.ApplyCoupon(carts))
		group.DELETE("", cartControllers.ClearUserCart(carts))
	}
}
