package content

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// RichTextRenderer renders rich_text field values to HTML.
type RichTextRenderer interface {
	Render(source string) (string, error)
}

// GoldmarkRenderer is the default RichTextRenderer. The engine is stateless
// so a single instance can be shared across requests.
type GoldmarkRenderer struct {
	engine goldmark.Markdown
}

// NewGoldmarkRenderer constructs a renderer with GFM extensions enabled.
func NewGoldmarkRenderer() *GoldmarkRenderer {
	return &GoldmarkRenderer{
		engine: goldmark.New(
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithExtensions(
				extension.GFM,
				extension.Linkify,
				extension.TaskList,
			),
		),
	}
}

// Render converts the markdown source into HTML.
func (r *GoldmarkRenderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("rich text render: %w", err)
	}
	return buf.String(), nil
}
