package routes

import (
	"github.com/gin-gonic/gin"

	"storefront-backend/auth"
	orderController "storefront-backend/controllers/orders"
	"storefront-backend/middlewares"
)

func OrderRoutes(r *gin.Engine, ct *orderController.Controller, tokens *auth.TokenService) {
	orders := r.Group("/orders")

	orders.POST("/checkout", middlewares.Require(tokens, middlewares.Authenticated), ct.Checkout)
	orders.GET("/my-orders", middlewares.Require(tokens, middlewares.Authenticated), ct.MyOrders)
	orders.GET("/all-orders", middlewares.Require(tokens, middlewares.Authenticated, middlewares.Admin), ct.AllOrders)
}
