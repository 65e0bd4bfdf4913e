package help

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Markdown renders markdown help pages to HTML fragments
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates a renderer with table support. Raw HTML in the
// source is passed through.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render converts source to an HTML fragment
func (m *Markdown) Render(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert(source, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
