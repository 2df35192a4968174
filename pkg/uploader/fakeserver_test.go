package uploader_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeGallery imitates the gallery API and a storage bucket on one test server.
type fakeGallery struct {
	server *httptest.Server

	mu          sync.Mutex
	failPut     map[string]bool
	objects     map[string][]byte
	contentType map[string]string
	putAuth     []string
	putACL      []string
	apiAuth     []string
	presigns    int
}

func newFakeGallery(t *testing.T) *fakeGallery {
	t.Helper()
	g := &fakeGallery{
		failPut:     map[string]bool{},
		objects:     map[string][]byte{},
		contentType: map[string]string{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/auth/login", g.login)
	mux.HandleFunc("/v1/uploads/presign", g.presign)
	mux.HandleFunc("/v1/uploads/finalize", g.finalize)
	mux.HandleFunc("/storage/", g.put)
	mux.HandleFunc("/v1/gallery/admin", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": []string{"https://cdn/b.jpg", "https://cdn/a.jpg"}, "total": 2})
	})
	mux.HandleFunc("/v1/gallery/guest/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"code": "c4e6", "error": "image not found"})
	})
	g.server = httptest.NewServer(mux)
	t.Cleanup(g.server.Close)
	return g
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (g *fakeGallery) login(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req["password"] != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"code": "0a2c", "error": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": "tok-" + req["role"], "role": req["role"], "name": req["username"]})
}

func (g *fakeGallery) presign(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	_ = json.NewDecoder(r.Body).Decode(&req)

	g.mu.Lock()
	g.presigns++
	g.apiAuth = append(g.apiAuth, r.Header.Get("Authorization"))
	g.mu.Unlock()

	key := req["type"] + "-uploads/" + req["filename"]
	writeJSON(w, http.StatusOK, map[string]any{
		"key":         key,
		"uploadUrl":   g.server.URL + "/storage/" + key + "?X-Amz-Signature=abc",
		"publicUrl":   "https://cdn/" + key,
		"contentType": req["contentType"],
		"headers":     map[string]string{"x-amz-acl": "public-read"},
		"expiresIn":   3600,
	})
}

func (g *fakeGallery) put(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/storage/")
	body, _ := io.ReadAll(r.Body)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.putAuth = append(g.putAuth, r.Header.Get("Authorization"))
	g.putACL = append(g.putACL, r.Header.Get("x-amz-acl"))
	for name := range g.failPut {
		if strings.HasSuffix(key, name) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
	g.objects[key] = body
	g.contentType[key] = r.Header.Get("Content-Type")
	w.WriteHeader(http.StatusOK)
}

func (g *fakeGallery) finalize(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	_ = json.NewDecoder(r.Body).Decode(&req)

	g.mu.Lock()
	_, ok := g.objects[req["key"]]
	g.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusConflict, map[string]any{"code": "9a1c", "error": "upload did not complete"})
		return
	}
	parts := strings.Split(req["key"], "/")
	writeJSON(w, http.StatusOK, map[string]any{
		"key":      req["key"],
		"filename": parts[len(parts)-1],
		"url":      "https://cdn/" + req["key"],
		"owner":    req["owner"],
		"type":     req["type"],
	})
}
