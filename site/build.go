package site

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/iedon/eyebrow-go/fsutil"
)

// BuildStatic renders every document under the content root into the output
// directory as <route>/index.html and copies the theme next to it.
func (s *Service) BuildStatic(ctx context.Context) (int, error) {
	outDir := s.cfg.OutputDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	count := 0
	err := fsutil.WalkFiles(ctx, s.cfg.ContentDir, func(rel, file string) error {
		if !s.isDocument(rel) {
			return nil
		}
		html, err := s.renderFile(ctx, file)
		if err != nil {
			return err
		}
		route := s.routeFor(rel)
		target := filepath.Join(outDir, filepath.FromSlash(path.Join(route, "index.html")))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := atomic.WriteFile(target, bytes.NewReader(html)); err != nil {
			return fmt.Errorf("write %s: %w", route, err)
		}
		s.logger.Debug("built", "route", route, "output", target)
		count++
		return nil
	})
	if err != nil {
		return count, err
	}

	if theme := s.cfg.ThemeDir; theme != "" && fsutil.IsDir(theme) {
		if err := fsutil.CopyTree(ctx, theme, outDir); err != nil {
			return count, fmt.Errorf("copy theme assets: %w", err)
		}
	}
	return count, nil
}

func (s *Service) isDocument(rel string) bool {
	for _, segment := range strings.Split(rel, "/") {
		if strings.HasPrefix(segment, ".") {
			return false
		}
	}
	return s.cfg.DocumentExt == "" || strings.HasSuffix(rel, s.cfg.DocumentExt)
}
