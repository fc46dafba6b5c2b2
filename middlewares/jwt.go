package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chronolens/utils"
)

// Context keys set by the auth middlewares.
const (
	ContextUID  = "uid"
	ContextTier = "tier"
)

// bearerToken pulls the token from the Authorization header, falling back
// to the Bearer cookie for browser sessions.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if cookie, err := c.Request.Cookie("Bearer"); err == nil {
		return cookie.Value
	}
	return ""
}

// Auth requires a valid bearer token and puts the caller's uid and tier
// into the request context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}

		claims, err := utils.ParseToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextUID, claims.UID)
		c.Set(ContextTier, claims.Tier)
		c.Next()
	}
}

// OptionalAuth sets uid and tier when a valid token is presented but lets
// anonymous requests through. The public output endpoints use it: the
// read-access check downstream decides what an anonymous viewer may see.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if claims, err := utils.ParseToken(secret, tokenString); err == nil {
				c.Set(ContextUID, claims.UID)
				c.Set(ContextTier, claims.Tier)
			}
		}
		c.Next()
	}
}
