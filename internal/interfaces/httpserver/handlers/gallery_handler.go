package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver/requests"
	"github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver/responses"
	"github.com/elseibo-mission/gallery-server/internal/utils/platformerrors"
)

// GalleryHandler serves the two public gallery listings.
type GalleryHandler struct {
	gallery GalleryReader
}

func NewGalleryHandler(gallery GalleryReader) *GalleryHandler {
	return &GalleryHandler{gallery: gallery}
}

// ListAdmin returns public URLs of admin uploads, newest first.
func (h *GalleryHandler) ListAdmin(c *gin.Context) {
	query, ok := bindPage(c)
	if !ok {
		return
	}
	urls, err := h.gallery.ListAdminGallery(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list admin gallery")
		return
	}
	c.JSON(http.StatusOK, responses.BuildGalleryResponse(urls, query.Page, query.PageSize))
}

// ListGuest returns guest uploads with their owners, newest first.
func (h *GalleryHandler) ListGuest(c *gin.Context) {
	query, ok := bindPage(c)
	if !ok {
		return
	}
	images, err := h.gallery.ListGuestGallery(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list guest gallery")
		return
	}
	c.JSON(http.StatusOK, responses.BuildGalleryResponse(images, query.Page, query.PageSize))
}

func bindPage(c *gin.Context) (requests.PageQuery, bool) {
	var query requests.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid pagination parameters", "6b3e7c8a-0f9d-4e4a-9b2c-7d8e9f0a1b2c")
		return query, false
	}
	return query, true
}
