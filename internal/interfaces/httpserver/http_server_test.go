package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elseibo-mission/gallery-server/internal/config"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/auth"
	"github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver/handlers"
)

func newTestServer(checks []ReadinessCheck) *HttpServer {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		ServiceName:     "gallery-api",
		Environment:     "test",
		AuthSigningKey:  "server-test-key",
		AuthTokenTTL:    time.Hour,
		CORSOrigins:     []string{"*"},
		ShutdownTimeout: time.Second,
	}
	provider := handlers.NewProvider(nil, nil, nil, nil, nil, zerolog.Nop())
	return New(cfg, zerolog.Nop(), provider, auth.NewTokenService(cfg, zerolog.Nop()), checks)
}

func get(s *HttpServer, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHealthz(t *testing.T) {
	w := get(newTestServer(nil), "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestReadyz(t *testing.T) {
	healthy := ReadinessCheck{Name: "redis", Check: func(context.Context) error { return nil }}
	failing := ReadinessCheck{Name: "storage", Check: func(context.Context) error { return errors.New("bucket unreachable") }}

	w := get(newTestServer([]ReadinessCheck{healthy}), "/readyz")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(newTestServer([]ReadinessCheck{healthy, failing}), "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","checks":{"storage":"bucket unreachable"}}`, w.Body.String())
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(nil)
	get(s, "/healthz")

	w := get(s, "/metrics")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mission_gallery_api_requests_total")
}

func TestCORSConfig(t *testing.T) {
	all := corsConfig(&config.Config{CORSOrigins: []string{"*"}})
	assert.True(t, all.AllowAllOrigins)

	listed := corsConfig(&config.Config{CORSOrigins: []string{"https://mission.example"}})
	assert.False(t, listed.AllowAllOrigins)
	assert.Equal(t, []string{"https://mission.example"}, listed.AllowOrigins)
}
