package route

import (
	"github.com/gin-gonic/gin"

	"chronolens/config"
	"chronolens/controller"
	mw "chronolens/middlewares"
)

// Protected registers every route that requires a verified bearer identity.
func Protected(router *gin.Engine, h *controller.Handler, cfg *config.Config) {
	protected := router.Group("/")
	protected.Use(mw.Auth(cfg.Auth.JWTSecret))

	protected.GET("/quota", h.GetQuota)
	protected.POST("/scenes", h.CreateScene)
	protected.GET("/scenes", h.ListScenes)
	protected.GET("/scenes/:id", h.GetScene)
	protected.POST("/scenes/:id/original", h.AttachOriginal)
	protected.POST("/scenes/:id/render", h.RenderScene)
	protected.POST("/scenes/:id/publish", h.PublishScene)
}
