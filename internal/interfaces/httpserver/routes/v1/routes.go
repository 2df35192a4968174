package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/elseibo-mission/gallery-server/internal/domain/access"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/auth"
	"github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all v1 routes under /v1 prefix. The caller installs the token middleware;
// upload routes check the role per upload type themselves.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")
	admin := auth.RequireRole(access.RoleAdmin)

	group.POST("/auth/login", r.handlers.Access.Login)

	group.POST("/uploads/presign", r.handlers.Uploads.Presign)
	group.POST("/uploads/finalize", r.handlers.Uploads.Finalize)

	group.GET("/gallery/admin", r.handlers.Gallery.ListAdmin)
	group.GET("/gallery/guest", r.handlers.Gallery.ListGuest)
	group.DELETE("/gallery/:class/:filename", admin, r.handlers.Uploads.Delete)

	group.GET("/guest-passwords", admin, r.handlers.Access.ListGuestPasswords)
	group.POST("/guest-passwords", admin, r.handlers.Access.AddGuestPassword)
	group.DELETE("/guest-passwords/:password", admin, r.handlers.Access.RemoveGuestPassword)

	group.GET("/content", r.handlers.Content.GetContent)
	group.PUT("/content", admin, r.handlers.Content.SetContent)
	group.GET("/videos", r.handlers.Content.ListVideos)
	group.POST("/videos", admin, r.handlers.Content.AddVideo)
	group.DELETE("/videos/:id", admin, r.handlers.Content.DeleteVideo)

	if r.handlers.Objects != nil {
		group.PUT("/objects/*key", r.handlers.Objects.Put)
		group.GET("/objects/*key", r.handlers.Objects.Get)
	}
}
