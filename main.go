package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"storefront-backend/auth"
	"storefront-backend/configs"
	cartController "storefront-backend/controllers/cart"
	orderController "storefront-backend/controllers/orders"
	productController "storefront-backend/controllers/products"
	userController "storefront-backend/controllers/users"
	"storefront-backend/locks"
	"storefront-backend/routes"
)

func main() {
	cfg := configs.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET_KEY is not set")
	}

	client := configs.ConnectDB(cfg)

	users := configs.GetCollection(client, cfg, "users")
	products := configs.GetCollection(client, cfg, "products")
	carts := configs.GetCollection(client, cfg, "carts")
	orders := configs.GetCollection(client, cfg, "orders")

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	// Cart and checkout share the lock set so all mutations of one user's
	// cart serialize, whichever endpoint they come through.
	userLocks := locks.NewKeyed()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	routes.UserRoutes(r, userController.New(users, tokens), tokens)
	routes.ProductRoutes(r, productController.New(products), tokens)
	routes.CartRoutes(r, cartController.New(carts, userLocks), tokens)
	routes.OrderRoutes(r, orderController.New(orders, carts, userLocks, cfg.ClearCartAfterCheckout), tokens)

	log.Info().Str("port", cfg.Port).Msg("API is now online")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
