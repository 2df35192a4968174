package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver/requests"
	"github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver/responses"
	"github.com/elseibo-mission/gallery-server/internal/utils/platformerrors"
)

// ContentHandler exposes editable site copy and volunteer stories.
type ContentHandler struct {
	content ContentService
}

func NewContentHandler(service ContentService) *ContentHandler {
	return &ContentHandler{content: service}
}

func (h *ContentHandler) GetContent(c *gin.Context) {
	c.JSON(http.StatusOK, responses.ContentResponse{Content: h.content.GetContent(c.Request.Context())})
}

func (h *ContentHandler) SetContent(c *gin.Context) {
	var req requests.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "0f7c1a2e-4d3b-4c8e-9f6a-1b2c3d4e5f6a")
		return
	}
	updated, err := h.content.SetContent(c.Request.Context(), req.Key, req.Value)
	if err != nil {
		responses.HandleError(c, err, "failed to update content")
		return
	}
	c.JSON(http.StatusOK, responses.ContentResponse{Content: updated})
}

func (h *ContentHandler) ListVideos(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"videos": h.content.ListVideos(c.Request.Context())})
}

func (h *ContentHandler) AddVideo(c *gin.Context) {
	var req requests.VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "1a8d2b3f-5e4c-4d9f-8a7b-2c3d4e5f6a7b")
		return
	}
	video, err := h.content.AddVideo(c.Request.Context(), req.Title, req.URL)
	if err != nil {
		responses.HandleError(c, err, "failed to add video")
		return
	}
	c.JSON(http.StatusCreated, video)
}

func (h *ContentHandler) DeleteVideo(c *gin.Context) {
	if err := h.content.DeleteVideo(c.Request.Context(), c.Param("id")); err != nil {
		responses.HandleError(c, err, "failed to delete video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
