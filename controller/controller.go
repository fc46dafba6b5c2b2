// Package controller holds the HTTP layer: request binding, identity
// extraction and the mapping from service errors to response statuses.
// Everything with a domain rule in it lives in the scenes and quota
// packages; handlers here stay thin.
package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"chronolens/apperr"
	"chronolens/config"
	"chronolens/database"
	"chronolens/middlewares"
	"chronolens/models"
	"chronolens/quota"
	"chronolens/scenes"
)

type Handler struct {
	cfg      *config.Config
	stores   *database.Stores
	service  *scenes.Service
	tracker  *quota.Tracker
	validate *validator.Validate
}

func New(cfg *config.Config, stores *database.Stores, service *scenes.Service, tracker *quota.Tracker) *Handler {
	return &Handler{
		cfg:      cfg,
		stores:   stores,
		service:  service,
		tracker:  tracker,
		validate: validator.New(),
	}
}

// respondError maps a service error to its HTTP status. Internal causes are
// logged server-side and answered with a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

// identity reads the uid and tier the auth middleware stored. An empty tier
// on a valid token is treated as registered; old tokens predate the field.
func identity(c *gin.Context) (string, string) {
	uid := c.GetString(middlewares.ContextUID)
	tier := c.GetString(middlewares.ContextTier)
	if tier == "" {
		tier = models.TierRegistered
	}
	return uid, tier
}

// Health is the unauthenticated liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetQuota reports the caller's remaining daily render budget. Reading
// applies the date rollover, so a check just after midnight shows a fresh
// day rather than yesterday's spend.
func (h *Handler) GetQuota(c *gin.Context) {
	uid, tier := identity(c)
	status, err := h.tracker.Read(c.Request.Context(), uid, h.cfg.DailyLimitFor(tier))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"daily_request_count": status.Used,
		"daily_limit":         status.Limit,
		"remaining":           status.Remaining,
		"date":                status.Date,
	})
}
