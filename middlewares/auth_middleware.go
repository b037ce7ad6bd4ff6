// Package middlewares holds the per-request access control gates.
package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"storefront-backend/auth"
)

// Capability is something a protected route can demand from the caller.
type Capability int

const (
	// Authenticated requires a valid bearer token.
	Authenticated Capability = iota
	// Admin requires a valid bearer token whose claims carry the admin flag.
	Admin
)

const claimsKey = "claims"

// Require builds a single gate from the route's capability set. Routes
// declare what they need; the gate enforces the ordering itself, always
// authenticating before any role check.
func Require(tokens *auth.TokenService, caps ...Capability) gin.HandlerFunc {
	needAdmin := false
	for _, capability := range caps {
		if capability == Admin {
			needAdmin = true
		}
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"auth": "Failed. No Token"})
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.Verify(raw)
		if err != nil {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("token verification failed")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"auth":    "Failed",
				"message": err.Error(),
			})
			return
		}

		if needAdmin && !claims.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"auth":    "Failed",
				"message": "Action Forbidden",
			})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAuthenticated is a standalone gate for handlers chained after
// Require: it only checks that claims are already on the context.
func RequireAuthenticated(c *gin.Context) {
	if _, ok := c.Get(claimsKey); !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Next()
}

// CurrentClaims returns the claims attached by Require, or nil when the
// request never passed a gate.
func CurrentClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
