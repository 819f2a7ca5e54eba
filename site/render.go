package site

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/iedon/eyebrow-go/document"
	"github.com/iedon/eyebrow-go/fsutil"
	"github.com/iedon/eyebrow-go/templatex"
)

// RenderPage renders the document addressed by a request path.
// Filesystem errors, including not-found, come back unwrapped.
func (s *Service) RenderPage(ctx context.Context, route string) ([]byte, error) {
	file, err := s.resolveDocument(route)
	if err != nil {
		return nil, err
	}
	return s.renderFile(ctx, file)
}

func (s *Service) renderFile(ctx context.Context, file string) ([]byte, error) {
	start := time.Now()

	src, err := fsutil.ReadFile(ctx, file)
	if err != nil {
		return nil, err
	}

	page, err := document.Parse(src, s.cfg.Regions)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", file)
	}

	view := s.viewFor(page)
	html, err := s.templates.RenderKind(ctx, page.Kind, view)
	if err != nil {
		return nil, errors.Wrapf(err, "render %s", file)
	}

	out := []byte(html)
	if s.minifier != nil {
		if out, err = s.minifier.MinifyHTML(out); err != nil {
			return nil, errors.Wrapf(err, "minify %s", file)
		}
	}

	s.logger.Debug("rendered", "file", file, "kind", page.Kind, "bytes", len(out), "duration", time.Since(start))
	return out, nil
}

// viewFor exposes the page fields and one deferred field per region.
func (s *Service) viewFor(page *document.Page) *templatex.View {
	view := &templatex.View{
		Type:    page.Kind,
		Title:   page.Title,
		Heading: page.Heading,
	}
	for _, region := range page.Regions {
		region := region
		view.Defer(region.Name, func() (string, error) {
			return s.RenderBlocks(region.Name, region.Blocks)
		})
	}
	return view
}
