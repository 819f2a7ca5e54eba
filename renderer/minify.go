package renderer

import (
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// Minifier shrinks final page markup, including inline styles and scripts.
type Minifier struct {
	m *minify.M
}

// NewMinifier returns a minifier for text/html documents.
func NewMinifier() *Minifier {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return &Minifier{m: m}
}

// MinifyHTML optimizes raw HTML markup. A nil minifier returns the input untouched.
func (m *Minifier) MinifyHTML(raw []byte) ([]byte, error) {
	if m == nil {
		return raw, nil
	}
	return m.m.Bytes("text/html", raw)
}
