package renderer

import (
	"bytes"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Option tweaks a Renderer at construction time.
type Option func(*Renderer)

// WithSanitizer runs every rendered block through a bluemonday UGC policy.
func WithSanitizer() Option {
	return func(r *Renderer) {
		r.policy = bluemonday.UGCPolicy()
	}
}

// Renderer transforms markdown blocks into HTML fragments.
// It holds no per-call state and is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New constructs a renderer with GitHub-flavored markdown extensions and syntax highlighting.
// Raw HTML in the source is never passed through.
func New(opts ...Option) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.DefinitionList,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
					chromahtml.WithAllClasses(true),
					chromahtml.ClassPrefix("z-"),
					chromahtml.PreventSurroundingPre(true),
				),
				highlighting.WithWrapperRenderer(codeWrapper),
			),
		),
	)

	r := &Renderer{md: md}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// maxHeadingLevel is the deepest heading HTML has.
const maxHeadingLevel = 6

// Render converts markdown into HTML, pushing every heading down by headingOffset
// levels so body headings sit below the page's own heading. Shifted levels stop
// at h6.
func (r *Renderer) Render(src []byte, headingOffset int) ([]byte, error) {
	if headingOffset < 0 {
		return nil, fmt.Errorf("negative heading offset %d", headingOffset)
	}

	reader := text.NewReader(src)
	doc := r.md.Parser().Parse(reader)

	if headingOffset > 0 {
		_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if heading, ok := n.(*ast.Heading); ok && entering {
				heading.Level = min(heading.Level+headingOffset, maxHeadingLevel)
			}
			return ast.WalkContinue, nil
		})
	}

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return nil, err
	}
	if r.policy != nil {
		return r.policy.SanitizeBytes(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

// RenderString is Render for string input and output.
func (r *Renderer) RenderString(src string, headingOffset int) (string, error) {
	out, err := r.Render([]byte(src), headingOffset)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func codeWrapper(w util.BufWriter, ctx highlighting.CodeBlockContext, entering bool) {
	lang := "text"
	if raw, ok := ctx.Language(); ok && len(raw) > 0 {
		lang = string(raw)
	}
	lang = string(util.EscapeHTML([]byte(lang)))
	if entering {
		_, _ = fmt.Fprintf(w, `<pre tabindex="0" class="z-chroma z-code language-%[1]s" data-lang="%[1]s"><code class="language-%[1]s" data-lang="%[1]s">`, lang)
		return
	}
	_, _ = w.WriteString("</code></pre>\n")
}
