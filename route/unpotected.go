package route

import (
	"time"

	"github.com/gin-gonic/gin"

	"chronolens/config"
	"chronolens/controller"
	mw "chronolens/middlewares"
)

// Unprotected registers the routes reachable without a bearer token: the
// health probe, identity issuance, the public gallery lookup and the output
// redirects. The output redirects accept an optional token so owners can
// view their drafts through the same URLs.
func Unprotected(router *gin.Engine, h *controller.Handler, cfg *config.Config) {
	router.GET("/health", h.Health)

	limiter := mw.NewRateLimiter(30, time.Minute)
	auth := router.Group("/auth")
	auth.Use(limiter.Middleware())
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/guest", h.Guest)

	router.GET("/public/:publicId", h.GetListing)

	outputs := router.Group("/scenes/:id/outputs")
	outputs.Use(mw.OptionalAuth(cfg.Auth.JWTSecret))
	outputs.GET("/:era/:variant/view", h.ViewOutput)
	outputs.GET("/:era/:variant/download", h.DownloadOutput)
}
