// Package markdown converts Markdown sources with front matter into HTML
// and a flat metadata map.
package markdown

import (
	"bytes"
	"encoding/json"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/talc/internal/foundation/errors"
)

// Result is a converted document.
type Result struct {
	HTML     string
	Metadata map[string]any
	// Body is the Markdown without its front matter.
	Body []byte
}

// Converter renders Markdown documents. It is safe for concurrent use.
type Converter struct {
	md      goldmark.Markdown
	formats []*frontmatter.Format
}

// NewConverter returns a converter with GitHub flavored Markdown, heading
// IDs and raw HTML passthrough enabled.
func NewConverter() *Converter {
	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
			),
		),
		formats: []*frontmatter.Format{
			frontmatter.NewFormat("---", "---", yaml.Unmarshal),
			frontmatter.NewFormat("---yaml", "---", yaml.Unmarshal),
			frontmatter.NewFormat(";;;", ";;;", json.Unmarshal),
		},
	}
}

// Convert splits raw into front matter and body and renders the body.
// Sources without front matter produce empty metadata.
func (c *Converter) Convert(raw []byte) (*Result, error) {
	var meta map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta, c.formats...)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryMarkdown, "failed to parse front matter").Build()
	}
	if meta == nil {
		meta = map[string]any{}
	}

	var buf bytes.Buffer
	if err := c.md.Convert(body, &buf); err != nil {
		return nil, errors.WrapError(err, errors.CategoryMarkdown, "failed to render markdown").Build()
	}

	return &Result{HTML: buf.String(), Metadata: meta, Body: body}, nil
}
