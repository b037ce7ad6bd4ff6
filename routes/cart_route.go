package routes

import (
	"github.com/gin-gonic/gin"

	"storefront-backend/auth"
	cartController "storefront-backend/controllers/cart"
	"storefront-backend/middlewares"
)

func CartRoutes(r *gin.Engine, ct *cartController.Controller, tokens *auth.TokenService) {
	cart := r.Group("/cart", middlewares.Require(tokens, middlewares.Authenticated))

	cart.GET("/get-cart", ct.GetCart)
	cart.POST("/add-to-cart", ct.AddToCart)
	cart.PATCH("/update-cart-quantity", ct.UpdateQuantity)
	cart.PATCH("/:productId/remove-from-cart", ct.RemoveItem)
	cart.PUT("/clear-cart", ct.ClearCart)
}
