package controller

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"chronolens/apperr"
	"chronolens/scenes"
)

// maxUploadBytes caps the original photo upload.
const maxUploadBytes = 15 << 20

type createSceneRequest struct {
	Eras []string `json:"eras"`
}

type renderRequest struct {
	Era       string `json:"era" validate:"required"`
	Variant   string `json:"variant" validate:"required"`
	Negatives string `json:"negatives"`
	Style     string `json:"style"`
	Reroll    bool   `json:"reroll"`
}

// CreateScene opens a new draft scene for the caller.
func (h *Handler) CreateScene(c *gin.Context) {
	var req createSceneRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondError(c, apperr.Wrap(apperr.InvalidArgument, "invalid request body", err))
			return
		}
	}

	uid, _ := identity(c)
	scene, err := h.service.CreateScene(c.Request.Context(), uid, req.Eras)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, scene)
}

// ListScenes returns every scene the caller owns, newest first.
func (h *Handler) ListScenes(c *gin.Context) {
	uid, _ := identity(c)
	list, err := h.service.ListScenes(c.Request.Context(), uid)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scenes": list})
}

// GetScene returns one scene under the read-access rule: owners always,
// non-owners only after publication.
func (h *Handler) GetScene(c *gin.Context) {
	uid, _ := identity(c)
	scene, err := h.service.GetScene(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scene)
}

// AttachOriginal accepts the multipart "photo" field as the scene's source
// image. The original is set once per scene.
func (h *Handler) AttachOriginal(c *gin.Context) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		h.respondError(c, apperr.Wrap(apperr.InvalidArgument, "multipart field 'photo' is required", err))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		h.respondError(c, apperr.New(apperr.InvalidArgument, "photo exceeds the upload size limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, apperr.Wrap(apperr.InvalidArgument, "cannot read uploaded photo", err))
		return
	}
	defer file.Close()

	photo, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.respondError(c, apperr.Wrap(apperr.InvalidArgument, "cannot read uploaded photo", err))
		return
	}

	uid, _ := identity(c)
	scene, err := h.service.AttachOriginal(c.Request.Context(), c.Param("id"), uid, photo)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scene)
}

// RenderScene runs the render pipeline for one (era, variant) pair.
func (h *Handler) RenderScene(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.Wrap(apperr.InvalidArgument, "invalid request body", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(c, apperr.Wrap(apperr.InvalidArgument, "era and variant are required", err))
		return
	}

	uid, tier := identity(c)
	result, err := h.service.RenderEra(c.Request.Context(), scenes.RenderInput{
		SceneID:      c.Param("id"),
		RequesterUID: uid,
		Tier:         tier,
		Era:          req.Era,
		Variant:      req.Variant,
		Negatives:    req.Negatives,
		Style:        req.Style,
		Force:        req.Reroll,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PublishScene puts the scene into the public gallery.
func (h *Handler) PublishScene(c *gin.Context) {
	uid, _ := identity(c)
	result, err := h.service.Publish(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetListing resolves a public gallery entry with a signed cover URL.
func (h *Handler) GetListing(c *gin.Context) {
	listing, err := h.service.GetListing(c.Request.Context(), c.Param("publicId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// ViewOutput redirects to a short-lived signed URL serving the output
// inline. Anonymous callers reach it only for published scenes.
func (h *Handler) ViewOutput(c *gin.Context) {
	h.redirectOutput(c, false)
}

// DownloadOutput is ViewOutput with an attachment disposition.
func (h *Handler) DownloadOutput(c *gin.Context) {
	h.redirectOutput(c, true)
}

func (h *Handler) redirectOutput(c *gin.Context, download bool) {
	uid, _ := identity(c)
	url, err := h.service.ResolveOutput(c.Request.Context(),
		c.Param("id"), c.Param("era"), c.Param("variant"), uid, download)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}
