package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/elseibo-mission/gallery-server/internal/config"
	"github.com/elseibo-mission/gallery-server/internal/domain/access"
	"github.com/elseibo-mission/gallery-server/internal/domain/content"
	"github.com/elseibo-mission/gallery-server/internal/domain/media"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/auth"
	"github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver/handlers"
	v1 "github.com/elseibo-mission/gallery-server/internal/interfaces/httpserver/routes/v1"
)

// MockCoordinator is a mock implementation of handlers.UploadCoordinator.
type MockCoordinator struct {
	RequestUploadURLFunc func(ctx context.Context, req media.UploadRequest) (*media.UploadTicket, error)
	FinalizeUploadFunc   func(ctx context.Context, req media.FinalizeRequest) (*media.FinalizeResult, error)
	DeleteImageFunc      func(ctx context.Context, class media.UploadClass, filename string) error
}

func (m *MockCoordinator) RequestUploadURL(ctx context.Context, req media.UploadRequest) (*media.UploadTicket, error) {
	if m.RequestUploadURLFunc != nil {
		return m.RequestUploadURLFunc(ctx, req)
	}
	return &media.UploadTicket{}, nil
}

func (m *MockCoordinator) FinalizeUpload(ctx context.Context, req media.FinalizeRequest) (*media.FinalizeResult, error) {
	if m.FinalizeUploadFunc != nil {
		return m.FinalizeUploadFunc(ctx, req)
	}
	return &media.FinalizeResult{Key: req.Key, Owner: req.Owner, Class: req.Class}, nil
}

func (m *MockCoordinator) DeleteImage(ctx context.Context, class media.UploadClass, filename string) error {
	if m.DeleteImageFunc != nil {
		return m.DeleteImageFunc(ctx, class, filename)
	}
	return nil
}

// MockGallery is a mock implementation of handlers.GalleryReader.
type MockGallery struct {
	ListAdminGalleryFunc func(ctx context.Context) ([]string, error)
	ListGuestGalleryFunc func(ctx context.Context) ([]media.GuestImage, error)
}

func (m *MockGallery) ListAdminGallery(ctx context.Context) ([]string, error) {
	if m.ListAdminGalleryFunc != nil {
		return m.ListAdminGalleryFunc(ctx)
	}
	return []string{}, nil
}

func (m *MockGallery) ListGuestGallery(ctx context.Context) ([]media.GuestImage, error) {
	if m.ListGuestGalleryFunc != nil {
		return m.ListGuestGalleryFunc(ctx)
	}
	return []media.GuestImage{}, nil
}

// MockAccess is a mock implementation of handlers.AccessService.
type MockAccess struct {
	LoginFunc               func(ctx context.Context, username, password string, role access.Role) (*access.Session, error)
	ListGuestPasswordsFunc  func(ctx context.Context) ([]string, error)
	AddGuestPasswordFunc    func(ctx context.Context, password string) error
	RemoveGuestPasswordFunc func(ctx context.Context, password string) error
}

func (m *MockAccess) Login(ctx context.Context, username, password string, role access.Role) (*access.Session, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password, role)
	}
	return &access.Session{}, nil
}

func (m *MockAccess) ListGuestPasswords(ctx context.Context) ([]string, error) {
	if m.ListGuestPasswordsFunc != nil {
		return m.ListGuestPasswordsFunc(ctx)
	}
	return []string{}, nil
}

func (m *MockAccess) AddGuestPassword(ctx context.Context, password string) error {
	if m.AddGuestPasswordFunc != nil {
		return m.AddGuestPasswordFunc(ctx, password)
	}
	return nil
}

func (m *MockAccess) RemoveGuestPassword(ctx context.Context, password string) error {
	if m.RemoveGuestPasswordFunc != nil {
		return m.RemoveGuestPasswordFunc(ctx, password)
	}
	return nil
}

// MockContent is a mock implementation of handlers.ContentService.
type MockContent struct {
	GetContentFunc  func(ctx context.Context) map[string]string
	SetContentFunc  func(ctx context.Context, key, value string) (map[string]string, error)
	ListVideosFunc  func(ctx context.Context) []content.Video
	AddVideoFunc    func(ctx context.Context, title, rawURL string) (*content.Video, error)
	DeleteVideoFunc func(ctx context.Context, id string) error
}

func (m *MockContent) GetContent(ctx context.Context) map[string]string {
	if m.GetContentFunc != nil {
		return m.GetContentFunc(ctx)
	}
	return map[string]string{}
}

func (m *MockContent) SetContent(ctx context.Context, key, value string) (map[string]string, error) {
	if m.SetContentFunc != nil {
		return m.SetContentFunc(ctx, key, value)
	}
	return map[string]string{key: value}, nil
}

func (m *MockContent) ListVideos(ctx context.Context) []content.Video {
	if m.ListVideosFunc != nil {
		return m.ListVideosFunc(ctx)
	}
	return []content.Video{}
}

func (m *MockContent) AddVideo(ctx context.Context, title, rawURL string) (*content.Video, error) {
	if m.AddVideoFunc != nil {
		return m.AddVideoFunc(ctx, title, rawURL)
	}
	return &content.Video{Title: title, URL: rawURL}, nil
}

func (m *MockContent) DeleteVideo(ctx context.Context, id string) error {
	if m.DeleteVideoFunc != nil {
		return m.DeleteVideoFunc(ctx, id)
	}
	return nil
}

// MockReceiver is a mock implementation of handlers.ObjectReceiver.
type MockReceiver struct {
	VerifyUploadFunc func(key string, query url.Values) (string, error)
	ReceiveFunc      func(ctx context.Context, key string, body io.Reader) (int64, error)
	OpenFunc         func(key string) (*os.File, error)
}

func (m *MockReceiver) VerifyUpload(key string, query url.Values) (string, error) {
	if m.VerifyUploadFunc != nil {
		return m.VerifyUploadFunc(key, query)
	}
	return "", nil
}

func (m *MockReceiver) Receive(ctx context.Context, key string, body io.Reader) (int64, error) {
	if m.ReceiveFunc != nil {
		return m.ReceiveFunc(ctx, key, body)
	}
	return io.Copy(io.Discard, body)
}

func (m *MockReceiver) Open(key string) (*os.File, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(key)
	}
	return nil, os.ErrNotExist
}

type testServer struct {
	router *gin.Engine
	tokens *auth.TokenService
}

type mocks struct {
	coordinator *MockCoordinator
	gallery     *MockGallery
	access      *MockAccess
	content     *MockContent
	receiver    handlers.ObjectReceiver
}

func newMocks() *mocks {
	return &mocks{
		coordinator: &MockCoordinator{},
		gallery:     &MockGallery{},
		access:      &MockAccess{},
		content:     &MockContent{},
		receiver:    &MockReceiver{},
	}
}

func setupTestServer(m *mocks) *testServer {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenService(&config.Config{AuthSigningKey: "handler-test-key", AuthTokenTTL: time.Hour}, zerolog.Nop())

	provider := handlers.NewProvider(m.coordinator, m.gallery, m.access, m.content, m.receiver, zerolog.Nop())

	router := gin.New()
	api := router.Group("/")
	api.Use(tokens.Middleware())
	v1.NewRoutes(provider).Register(api)
	return &testServer{router: router, tokens: tokens}
}

func (s *testServer) token(t *testing.T, role access.Role, name string) string {
	t.Helper()
	token, _, err := s.tokens.Issue(access.Principal{Role: role, Name: name})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(method, target, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) send(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}
