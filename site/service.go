package site

import (
	"log/slog"
	"os"

	"github.com/iedon/eyebrow-go/config"
	"github.com/iedon/eyebrow-go/renderer"
	"github.com/iedon/eyebrow-go/templatex"
)

// Service resolves request paths to documents and renders them through the
// template engine. It keeps no per-request state; every call re-reads its
// document and template from disk.
type Service struct {
	cfg       *config.Config
	templates *templatex.Engine
	renderer  *renderer.Renderer
	minifier  *renderer.Minifier
	logger    *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg *config.Config, templates *templatex.Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	var opts []renderer.Option
	if cfg.Sanitize {
		opts = append(opts, renderer.WithSanitizer())
	}
	svc := &Service{
		cfg:       cfg,
		templates: templates,
		renderer:  renderer.New(opts...),
		logger:    logger,
	}
	if cfg.Minify {
		svc.minifier = renderer.NewMinifier()
	}
	return svc
}

// ContentDir returns the directory documents are resolved against.
func (s *Service) ContentDir() string {
	return s.cfg.ContentDir
}
