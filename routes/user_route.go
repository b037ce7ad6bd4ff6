package routes

import (
	"github.com/gin-gonic/gin"

	"storefront-backend/auth"
	userController "storefront-backend/controllers/users"
	"storefront-backend/middlewares"
)

func UserRoutes(r *gin.Engine, ct *userController.Controller, tokens *auth.TokenService) {
	users := r.Group("/users")

	users.POST("/register", ct.Register)
	users.POST("/login", ct.Login)
	users.GET("/details", middlewares.Require(tokens, middlewares.Authenticated), ct.GetProfile)
	users.PATCH("/:id/set-as-admin", middlewares.Require(tokens, middlewares.Admin), ct.SetAsAdmin)
	users.PATCH("/update-password", middlewares.Require(tokens, middlewares.Authenticated), ct.UpdatePassword)
}
