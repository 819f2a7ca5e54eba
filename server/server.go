package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/iedon/eyebrow-go/config"
	"github.com/iedon/eyebrow-go/site"
)

// Server ties HTTP handlers to the site service.
type Server struct {
	cfg          *config.Config
	svc          *site.Service
	logger       *slog.Logger
	mux          *http.ServeMux
	statics      []*staticDir
	serverHeader string
}

// New constructs a server instance.
func New(cfg *config.Config, svc *site.Service, logger *slog.Logger, serverHeader string) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	srv := &Server{cfg: cfg, svc: svc, logger: logger, mux: http.NewServeMux(), serverHeader: strings.TrimSpace(serverHeader)}
	srv.statics = staticDirs(cfg)
	srv.routes()
	return srv
}

// Handler returns the complete middleware chain.
func (s *Server) Handler() http.Handler {
	return s.withServerHeader(s.logRequests(s.redirectCanonical(s.mux)))
}

// Start serves HTTP on cfg.Listen and, with TLS enabled, HTTPS on cfg.TLSListen
// until ctx is cancelled or a listener fails.
func (s *Server) Start(ctx context.Context) error {
	handler := s.Handler()
	group, groupCtx := errgroup.WithContext(ctx)

	plain, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return err
	}
	servers := []*http.Server{s.newHTTPServer(handler)}
	group.Go(func() error {
		s.logger.Info("listening", "proto", "http", "addr", plain.Addr().String())
		return serve(servers[0].Serve(plain))
	})

	if s.cfg.EnableTLS {
		secure, err := net.Listen("tcp", s.cfg.TLSListen)
		if err != nil {
			_ = plain.Close()
			return err
		}
		tlsServer := s.newHTTPServer(handler)
		servers = append(servers, tlsServer)
		group.Go(func() error {
			s.logger.Info("listening", "proto", "https", "addr", secure.Addr().String())
			return serve(tlsServer.ServeTLS(secure, s.cfg.TLSCert, s.cfg.TLSKey))
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, server := range servers {
			_ = server.Shutdown(ctxShutdown)
		}
		return nil
	})

	return group.Wait()
}

func (s *Server) newHTTPServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func serve(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/", s.handlePage)
}

func (s *Server) withServerHeader(next http.Handler) http.Handler {
	if s.serverHeader == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", s.serverHeader)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		s.logger.Info("http", "id", id, "method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", time.Since(start))
	})
}

// redirectCanonical sends every request that is not https on a www. host to
// https://www.<host>, keeping the path and query.
func (s *Server) redirectCanonical(next http.Handler) http.Handler {
	if !s.cfg.CanonicalRedirect {
		return next
	}
	port := s.cfg.TLSPort()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		secure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
		if secure && strings.HasPrefix(host, "www.") {
			next.ServeHTTP(w, r)
			return
		}
		if !strings.HasPrefix(host, "www.") {
			host = "www." + host
		}
		target := "https://" + host
		if port != 0 && port != 443 {
			target += ":" + strconv.Itoa(port)
		}
		target += r.URL.RequestURI()
		http.Redirect(w, r, target, http.StatusFound)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}
