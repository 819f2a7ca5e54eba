package server

import (
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iedon/eyebrow-go/config"
	"github.com/iedon/eyebrow-go/site"
	"github.com/iedon/eyebrow-go/templatex"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestServer(t *testing.T, mutate func(cfg *config.Config)) (*Server, *config.Config) {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.ContentDir = filepath.Join(root, "content")
	cfg.TemplateDir = filepath.Join(root, "templates")
	cfg.PartialsDir = filepath.Join(cfg.TemplateDir, "partials")
	cfg.ThemeDir = filepath.Join(root, "theme")
	cfg.GzipDir = filepath.Join(root, "gzip")
	cfg.CORSDir = filepath.Join(root, "cors")
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Finalize())

	writeFile(t, filepath.Join(cfg.TemplateDir, "page.mustache"), "<title>{{title}}</title>{{{content}}}")
	require.NoError(t, os.MkdirAll(cfg.PartialsDir, 0o755))
	writeFile(t, filepath.Join(cfg.ContentDir, "index"),
		`<page><title>Tove</title><heading>Hello</heading><content><markdown>Hello *world*</markdown></content></page>`)
	writeFile(t, filepath.Join(cfg.ContentDir, "bad"),
		`<page><title>T</title><heading>H</heading><content><unknown/></content></page>`)
	writeFile(t, filepath.Join(cfg.ThemeDir, "style.css"), "body{}")
	writeFile(t, filepath.Join(cfg.GzipDir, "app.js"), "\x1f\x8b")
	writeFile(t, filepath.Join(cfg.CORSDir, "data.json"), "{}")

	partials, err := templatex.LoadPartials(context.Background(), cfg.PartialsDir, cfg.TemplateExt)
	require.NoError(t, err)
	engine, err := templatex.New(cfg.TemplateDir, cfg.TemplateExt, partials)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := site.NewService(cfg, engine, logger)
	return New(cfg, svc, logger, "eyebrow-test"), cfg
}

func get(t *testing.T, h http.Handler, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_Page(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	rec := get(t, h, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<title>Tove</title><p>Hello <em>world</em></p>\n", rec.Body.String())
	assert.Equal(t, "eyebrow-test", rec.Header().Get("Server"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestServer_Errors(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	assert.Equal(t, http.StatusNotFound, get(t, h, "/missing", nil).Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/.secret", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, get(t, h, "/bad", nil).Code)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_StaticDirectories(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	rec := get(t, h, "/style.css", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Encoding"))

	rec = get(t, h, "/app.js", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	rec = get(t, h, "/data.json", map[string]string{"Origin": "https://example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_CanonicalRedirect(t *testing.T) {
	srv, _ := newTestServer(t, func(cfg *config.Config) {
		cfg.CanonicalRedirect = true
		cfg.TLSListen = ":8443"
	})
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/docs?q=1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://www.example.com:8443/docs?q=1", rec.Header().Get("Location"))

	rec = get(t, h, "http://www.example.com/", map[string]string{"X-Forwarded-Proto": "https"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Compress(t *testing.T) {
	srv, _ := newTestServer(t, func(cfg *config.Config) {
		cfg.Compress = true
	})

	rec := get(t, srv.Handler(), "/", map[string]string{"Accept-Encoding": "gzip"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body io.Reader = rec.Body
	if rec.Header().Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(rec.Body)
		require.NoError(t, err)
		defer zr.Close()
		body = zr
	}
	page, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "<title>Tove</title><p>Hello <em>world</em></p>\n", string(page))
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := get(t, srv.Handler(), "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
