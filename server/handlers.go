package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/lemmi/compress"

	"github.com/iedon/eyebrow-go/site"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		httpError(w, http.StatusMethodNotAllowed)
		return
	}
	if s.tryStatic(w, r) {
		return
	}
	if s.cfg.Compress {
		compress.New(http.HandlerFunc(s.renderPage)).ServeHTTP(w, r)
		return
	}
	s.renderPage(w, r)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request) {
	html, err := s.svc.RenderPage(r.Context(), r.URL.Path)
	if err != nil {
		switch {
		case errors.Is(err, site.ErrInvalidPath), errors.Is(err, os.ErrNotExist):
			httpError(w, http.StatusNotFound)
		case errors.Is(err, context.Canceled):
			s.logger.Debug("request abandoned", "path", r.URL.Path)
		default:
			s.logError(r, err)
			httpError(w, http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(html)
}

func (s *Server) tryStatic(w http.ResponseWriter, r *http.Request) bool {
	for _, dir := range s.statics {
		if _, ok := dir.lookup(r.URL.Path); ok {
			dir.handler.ServeHTTP(w, r)
			return true
		}
	}
	return false
}
