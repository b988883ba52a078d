package convert

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/hazyhaar/pagebridge/tree"
)

// Markdown renders the tree to HTML first and converts that to
// Markdown, so both dialects agree on widget handling.
type Markdown struct {
	html *HTML
	md   *converter.Converter
}

func NewMarkdown() *Markdown {
	return &Markdown{
		html: NewHTML(),
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

func (c *Markdown) Ext() string { return "md" }

func (c *Markdown) Convert(nodes []*tree.Node) (string, error) {
	rendered, err := c.html.Convert(nodes)
	if err != nil {
		return "", err
	}
	out, err := c.md.ConvertString(rendered)
	if err != nil {
		return "", fmt.Errorf("convert: markdown: %w", err)
	}
	return out, nil
}
