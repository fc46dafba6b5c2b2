package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chronolens/apperr"
	"chronolens/models"
	"chronolens/utils"
)

// Register creates a registered-tier account and returns its bearer token.
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.Wrap(apperr.InvalidArgument, "invalid request body", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(c, apperr.Wrap(apperr.InvalidArgument, "invalid registration fields", err))
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	now := time.Now()
	user := &models.User{
		UID:       uuid.NewString(),
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Tier:      models.TierRegistered,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.stores.Users.Create(c.Request.Context(), user); err != nil {
		h.respondError(c, err)
		return
	}

	h.issueToken(c, http.StatusCreated, user.UID, user.Tier)
}

// Login verifies credentials and returns a fresh bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.Wrap(apperr.InvalidArgument, "invalid request body", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(c, apperr.Wrap(apperr.InvalidArgument, "email and password are required", err))
		return
	}

	user, err := h.stores.Users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		// A missing account answers exactly like a bad password.
		if apperr.IsKind(err, apperr.NotFound) {
			h.respondError(c, apperr.New(apperr.Unauthenticated, "incorrect email or password"))
			return
		}
		h.respondError(c, err)
		return
	}
	if err := utils.ComparePassword(req.Password, user.Password); err != nil {
		h.respondError(c, err)
		return
	}

	h.issueToken(c, http.StatusOK, user.UID, user.Tier)
}

// Guest mints a token for a fresh anonymous identity. Guests carry the
// lower daily render budget and have no stored account.
func (h *Handler) Guest(c *gin.Context) {
	uid := "guest-" + uuid.NewString()
	h.issueToken(c, http.StatusCreated, uid, models.TierGuest)
}

func (h *Handler) issueToken(c *gin.Context, status int, uid, tier string) {
	token, err := utils.SignedToken(h.cfg.Auth.JWTSecret, h.cfg.Auth.TokenTTL, uid, tier)
	if err != nil {
		h.respondError(c, err)
		return
	}
	// Cookie for browser sessions; API clients use the response body.
	c.SetCookie("Bearer", token, int(h.cfg.Auth.TokenTTL.Seconds()), "/", "", false, true)
	c.JSON(status, models.TokenResponse{UID: uid, Tier: tier, Token: token})
}
