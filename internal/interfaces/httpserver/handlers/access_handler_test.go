package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elseibo-mission/gallery-server/internal/domain/access"
	"github.com/elseibo-mission/gallery-server/internal/utils/platformerrors"
)

func TestAccessHandler_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantRole   access.Role
		wantStatus int
	}{
		{name: "role defaults to admin", body: `{"username":"admin","password":"secret"}`, wantRole: access.RoleAdmin, wantStatus: http.StatusOK},
		{name: "guest role", body: `{"username":"Ana","password":"mission","role":"guest"}`, wantRole: access.RoleGuest, wantStatus: http.StatusOK},
		{name: "unknown role", body: `{"password":"x","role":"root"}`, wantStatus: http.StatusBadRequest},
		{name: "missing password", body: `{"username":"admin"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMocks()
			var gotRole access.Role
			m.access.LoginFunc = func(ctx context.Context, username, password string, role access.Role) (*access.Session, error) {
				gotRole = role
				return &access.Session{Token: "tok", Role: role, Name: username, ExpiresAt: time.Unix(1700000000, 0).UTC()}, nil
			}
			server := setupTestServer(m)

			w := server.do(http.MethodPost, "/v1/auth/login", tt.body, "")

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantRole, gotRole)
				var session map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
				assert.Equal(t, "tok", session["token"])
			}
		})
	}
}

func TestAccessHandler_LoginRejected(t *testing.T) {
	m := newMocks()
	m.access.LoginFunc = func(ctx context.Context, username, password string, role access.Role) (*access.Session, error) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"invalid credentials", access.ErrInvalidCredentials, "0a2c4e6a-8c0e-4a2c-8e6a-0c2e4a6c8e0a")
	}
	server := setupTestServer(m)

	w := server.do(http.MethodPost, "/v1/auth/login", `{"username":"admin","password":"wrong"}`, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccessHandler_GuestPasswordsRequireAdmin(t *testing.T) {
	m := newMocks()
	m.access.ListGuestPasswordsFunc = func(ctx context.Context) ([]string, error) {
		return []string{"alpha", "beta"}, nil
	}
	server := setupTestServer(m)

	w := server.do(http.MethodGet, "/v1/guest-passwords", "", server.token(t, access.RoleGuest, "Ana"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = server.do(http.MethodGet, "/v1/guest-passwords", "", server.token(t, access.RoleAdmin, "admin"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"passwords":["alpha","beta"]}`, w.Body.String())
}

func TestAccessHandler_AddGuestPassword(t *testing.T) {
	m := newMocks()
	var added string
	m.access.AddGuestPasswordFunc = func(ctx context.Context, password string) error {
		if password == "taken" {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
				"guest password already exists", access.ErrGuestPasswordExists, "4e6a8c0e-2a4c-4e8a-8c0e-4a6c8e0a2c4e")
		}
		added = password
		return nil
	}
	server := setupTestServer(m)
	admin := server.token(t, access.RoleAdmin, "admin")

	w := server.do(http.MethodPost, "/v1/guest-passwords", `{"password":"mission"}`, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "mission", added)

	w = server.do(http.MethodPost, "/v1/guest-passwords", `{"password":"taken"}`, admin)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAccessHandler_RemoveGuestPassword(t *testing.T) {
	m := newMocks()
	var removed string
	m.access.RemoveGuestPasswordFunc = func(ctx context.Context, password string) error {
		removed = password
		return nil
	}
	server := setupTestServer(m)

	w := server.do(http.MethodDelete, "/v1/guest-passwords/mission", "", server.token(t, access.RoleAdmin, "admin"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mission", removed)
}
