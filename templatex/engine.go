package templatex

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cbroglie/mustache"

	"github.com/iedon/eyebrow-go/fsutil"
)

const maxPartialExpansions = 1024

// Engine renders top-level templates from one directory against a shared partials table.
type Engine struct {
	dir      string
	ext      string
	partials *Partials
}

// New returns an engine rooted at templateDir. partials may be nil.
func New(templateDir, ext string, partials *Partials) (*Engine, error) {
	if strings.TrimSpace(templateDir) == "" {
		return nil, fmt.Errorf("template directory not configured")
	}
	if ext == "" {
		ext = DefaultExt
	}
	return &Engine{dir: templateDir, ext: ext, partials: partials}, nil
}

// Path returns the template file used for documents of the given kind.
func (e *Engine) Path(kind string) string {
	return filepath.Join(e.dir, kind+e.ext)
}

// Partials exposes the engine's partials table.
func (e *Engine) Partials() *Partials {
	return e.partials
}

// RenderKind renders the template selected by a document kind.
func (e *Engine) RenderKind(ctx context.Context, kind string, view *View) (string, error) {
	if kind == "" || strings.ContainsAny(kind, `/\`) || strings.Contains(kind, "..") {
		return "", &TemplateNotFoundError{Path: kind, Err: errors.New("invalid template name")}
	}
	return Render(ctx, e.Path(kind), view, e.partials)
}

// Render loads the template at templatePath and merges view into it.
// {{name}} is HTML-escaped, {{{name}}} is inserted verbatim and {{>name}}
// inlines a partial from partials. Deferred view fields are evaluated only
// when interpolated, and an error from any of them fails the render.
func Render(ctx context.Context, templatePath string, view *View, partials *Partials) (string, error) {
	src, err := fsutil.ReadFile(ctx, templatePath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &TemplateNotFoundError{Path: templatePath, Err: err}
	}
	return RenderString(string(src), view, partials)
}

// RenderString is Render for a template already in memory.
func RenderString(source string, view *View, partials *Partials) (string, error) {
	if view == nil {
		view = &View{}
	}
	provider := &partialProvider{table: partials}

	tpl, err := mustache.ParseStringPartials(source, provider)
	if err != nil {
		return "", templateError("parse template", err)
	}
	data, trace := view.context()
	out, err := tpl.Render(data)
	if err != nil {
		return "", templateError("render template", err)
	}
	if err := trace.err(); err != nil {
		return "", err
	}
	return out, nil
}

func templateError(op string, err error) error {
	var unresolved *UnresolvedPartialError
	if errors.As(err, &unresolved) {
		return unresolved
	}
	if errors.Is(err, ErrPartialExpansion) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

// partialProvider resolves {{>name}} for a single render.
type partialProvider struct {
	table    *Partials
	expanded int
}

func (p *partialProvider) Get(name string) (string, error) {
	p.expanded++
	if p.expanded > maxPartialExpansions {
		return "", fmt.Errorf("partial %q: %w", name, ErrPartialExpansion)
	}
	source, ok := p.table.Lookup(name)
	if !ok {
		return "", &UnresolvedPartialError{Name: name}
	}
	return source, nil
}
