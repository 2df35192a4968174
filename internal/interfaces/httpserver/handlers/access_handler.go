package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/elseibo-mission/gallery-server/internal/domain/access"
	"github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver/requests"
	"github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver/responses"
	"github.com/elseibo-mission/gallery-server/internal/utils/platformerrors"
)

// AccessHandler exposes login and guest password management.
type AccessHandler struct {
	access AccessService
	log    zerolog.Logger
}

func NewAccessHandler(service AccessService, log zerolog.Logger) *AccessHandler {
	return &AccessHandler{
		access: service,
		log:    log.With().Str("component", "access-handler").Logger(),
	}
}

// Login exchanges credentials for a bearer token. Role defaults to admin.
func (h *AccessHandler) Login(c *gin.Context) {
	var req requests.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "7c4f8d9b-1a0e-4f5b-8c3d-8e9f0a1b2c3d")
		return
	}

	role := access.RoleAdmin
	if strings.TrimSpace(req.Role) != "" {
		parsed, ok := access.ParseRole(req.Role)
		if !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "role must be admin or guest", "8d5a9e0c-2b1f-4a6c-9d4e-9f0a1b2c3d4e")
			return
		}
		role = parsed
	}

	session, err := h.access.Login(c.Request.Context(), req.Username, req.Password, role)
	if err != nil {
		h.log.Info().Str("role", string(role)).Msg("login rejected")
		responses.HandleError(c, err, "login failed")
		return
	}
	c.JSON(http.StatusOK, session)
}

// ListGuestPasswords returns every configured guest password.
func (h *AccessHandler) ListGuestPasswords(c *gin.Context) {
	passwords, err := h.access.ListGuestPasswords(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list guest passwords")
		return
	}
	c.JSON(http.StatusOK, responses.GuestPasswordsResponse{Passwords: passwords})
}

// AddGuestPassword adds one guest password.
func (h *AccessHandler) AddGuestPassword(c *gin.Context) {
	var req requests.GuestPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "9e6b0f1d-3c2a-4b7d-8e5f-0a1b2c3d4e5f")
		return
	}
	if err := h.access.AddGuestPassword(c.Request.Context(), req.Password); err != nil {
		responses.HandleError(c, err, "failed to add guest password")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"added": true})
}

// RemoveGuestPassword deletes one guest password.
func (h *AccessHandler) RemoveGuestPassword(c *gin.Context) {
	if err := h.access.RemoveGuestPassword(c.Request.Context(), c.Param("password")); err != nil {
		responses.HandleError(c, err, "failed to remove guest password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
