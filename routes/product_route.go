package routes

import (
	"github.com/gin-gonic/gin"

	"storefront-backend/auth"
	productController "storefront-backend/controllers/products"
	"storefront-backend/middlewares"
)

func ProductRoutes(r *gin.Engine, ct *productController.Controller, tokens *auth.TokenService) {
	products := r.Group("/products")

	admin := middlewares.Require(tokens, middlewares.Authenticated, middlewares.Admin)

	products.POST("/", admin, ct.Create)
	products.GET("/all", admin, ct.GetAll)
	products.GET("/active", ct.GetActive)
	products.GET("/:productId", ct.GetByID)
	products.PATCH("/:productId/update", admin, ct.Update)
	products.PATCH("/:productId/archive", admin, ct.Archive)
	products.PATCH("/:productId/activate", admin, ct.Activate)
	products.POST("/search-by-name", ct.SearchByName)
	products.POST("/search-by-price", ct.SearchByPrice)
}
