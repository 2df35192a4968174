package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/elseibo-mission/gallery-server/internal/domain/access"
	"github.com/elseibo-mission/gallery-server/internal/domain/media"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/auth"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/metrics"
	"github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver/requests"
	"github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver/responses"
	"github.com/elseibo-mission/gallery-server/internal/utils/platformerrors"
)

// UploadHandler exposes the three-step upload protocol and image deletion.
type UploadHandler struct {
	coordinator UploadCoordinator
	log         zerolog.Logger
}

func NewUploadHandler(coordinator UploadCoordinator, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		coordinator: coordinator,
		log:         log.With().Str("component", "upload-handler").Logger(),
	}
}

// Presign issues a presigned PUT URL for a new object key.
func (h *UploadHandler) Presign(c *gin.Context) {
	var req requests.PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "0b7e1c2a-4f3d-4e8a-9b6c-1d2e3f4a5b6c")
		return
	}
	class, ok := h.authorizeClass(c, req.Type)
	if !ok {
		return
	}

	ticket, err := h.coordinator.RequestUploadURL(c.Request.Context(), media.UploadRequest{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Class:       class,
	})
	if err != nil {
		metrics.RecordPresign(string(class), "error")
		responses.HandleError(c, err, "failed to create upload url")
		return
	}

	metrics.RecordPresign(string(class), "success")
	c.JSON(http.StatusOK, ticket)
}

// Finalize records an upload after its bytes reached the store.
func (h *UploadHandler) Finalize(c *gin.Context) {
	var req requests.FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "1c8f2d3b-5a4e-4f9b-8c7d-2e3f4a5b6c7d")
		return
	}
	class, ok := h.authorizeClass(c, req.Type)
	if !ok {
		return
	}

	owner := strings.TrimSpace(req.Owner)
	if owner == "" {
		if principal, ok := auth.PrincipalFrom(c); ok && principal.Role == access.RoleGuest {
			owner = principal.Name
		}
	}

	result, err := h.coordinator.FinalizeUpload(c.Request.Context(), media.FinalizeRequest{
		Key:   req.Key,
		Owner: owner,
		Class: class,
	})
	if err != nil {
		metrics.RecordFinalize(string(class), finalizeStatus(err))
		h.log.Warn().Err(err).Str("key", req.Key).Msg("finalize failed")
		responses.HandleError(c, err, "failed to finalize upload")
		return
	}

	metrics.RecordFinalize(string(class), "success")
	c.JSON(http.StatusOK, result)
}

// Delete removes an image from the admin or guest gallery.
func (h *UploadHandler) Delete(c *gin.Context) {
	class, ok := media.ParseUploadClass(c.Param("class"))
	if !ok || class == media.ClassSiteAsset {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "type must be admin or guest", "2d9a3e4c-6b5f-4a0c-9d8e-3f4a5b6c7d8e")
		return
	}
	filename := c.Param("filename")

	if err := h.coordinator.DeleteImage(c.Request.Context(), class, filename); err != nil {
		metrics.RecordDelete(string(class), "error")
		responses.HandleError(c, err, "failed to delete image")
		return
	}

	metrics.RecordDelete(string(class), "success")
	c.JSON(http.StatusOK, responses.DeleteResponse{Deleted: true, Type: string(class), Filename: filename})
}

// authorizeClass parses the upload class and checks the caller may upload into it:
// guest uploads need a guest or admin token, everything else needs admin.
func (h *UploadHandler) authorizeClass(c *gin.Context, raw string) (media.UploadClass, bool) {
	class, ok := media.ParseUploadClass(raw)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "type must be admin, guest or site_asset", "3e0b4f5d-7c6a-4b1d-8e9f-4a5b6c7d8e9f")
		return "", false
	}

	principal, authenticated := auth.PrincipalFrom(c)
	if !authenticated {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing bearer token", "4f1c5a6e-8d7b-4c2e-9f0a-5b6c7d8e9f0a")
		return "", false
	}
	want := access.RoleAdmin
	if class == media.ClassGuest {
		want = access.RoleGuest
	}
	if !principal.Role.Allows(want) {
		responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "insufficient role for upload type", "5a2d6b7f-9e8c-4d3f-8a1b-6c7d8e9f0a1b")
		return "", false
	}
	return class, true
}

func finalizeStatus(err error) string {
	switch {
	case platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict):
		return "not_verified"
	case media.IsStoreUnavailable(err):
		return "store_unavailable"
	default:
		return "error"
	}
}
