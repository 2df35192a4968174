package handlers

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/elseibo-mission/gallery-server/internal/domain/media"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/storage"
	"github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver/responses"
	"github.com/elseibo-mission/gallery-server/internal/utils/platformerrors"
)

// ObjectsHandler receives presigned PUTs and serves files when the local backend is active.
type ObjectsHandler struct {
	receiver ObjectReceiver
	log      zerolog.Logger
}

func NewObjectsHandler(receiver ObjectReceiver, log zerolog.Logger) *ObjectsHandler {
	return &ObjectsHandler{
		receiver: receiver,
		log:      log.With().Str("component", "objects-handler").Logger(),
	}
}

// Put stores the request body under the key the URL was signed for.
func (h *ObjectsHandler) Put(c *gin.Context) {
	key := objectKey(c)
	contentType, err := h.receiver.VerifyUpload(key, c.Request.URL.Query())
	if err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("rejected upload signature")
		responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, err.Error(), "2b9e3c4a-6f5d-4e0a-9b8c-3d4e5f6a7b8c")
		return
	}
	if got := media.NormalizeContentType(c.GetHeader("Content-Type")); contentType != "" && got != contentType {
		responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "content type does not match the signed upload", "3c0f4d5b-7a6e-4f1b-8c9d-4e5f6a7b8c9d")
		return
	}

	written, err := h.receiver.Receive(c.Request.Context(), key, c.Request.Body)
	switch {
	case errors.Is(err, storage.ErrObjectTooLarge):
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "4d1a5e6c-8b7f-4a2c-9d0e-5f6a7b8c9d0e")
		return
	case errors.Is(err, storage.ErrInvalidObjectKey):
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "5e2b6f7d-9c8a-4b3d-8e1f-6a7b8c9d0e1f")
		return
	case err != nil:
		responses.HandleError(c, err, "failed to store object")
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "bytes": written})
}

// Get serves a stored file.
func (h *ObjectsHandler) Get(c *gin.Context) {
	key := objectKey(c)
	file, err := h.receiver.Open(key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidObjectKey) {
			responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "object not found", "6f3c7a8e-0d9b-4c4e-9f2a-7b8c9d0e1f2a")
			return
		}
		responses.HandleError(c, err, "failed to open object")
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		responses.HandleError(c, err, "failed to open object")
		return
	}
	c.Header("Content-Type", media.ContentTypeForExtension(strings.TrimPrefix(path.Ext(key), ".")))
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), file)
}

func objectKey(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("key"), "/")
}
