package convert

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hazyhaar/pagebridge/tree"
)

// Gutenberg renders WordPress block markup: HTML bracketed by delimiter
// comments carrying block names and JSON attributes.
type Gutenberg struct {
	policy *bluemonday.Policy
}

// NewGutenberg creates the Gutenberg converter.
func NewGutenberg() *Gutenberg {
	return &Gutenberg{policy: bluemonday.UGCPolicy()}
}

func (c *Gutenberg) Ext() string { return "html" }

// Convert renders the node list as block markup.
func (c *Gutenberg) Convert(nodes []*tree.Node) (string, error) {
	blocks := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if b := c.node(n); b != "" {
			blocks = append(blocks, b)
		}
	}
	return strings.Join(blocks, "\n\n"), nil
}

func (c *Gutenberg) node(n *tree.Node) string {
	switch n.Kind.Canonical() {
	case tree.KindSection:
		return c.section(n)
	case tree.KindColumn:
		return c.columnBlock(n)
	case tree.KindWidget:
		return c.widget(n)
	default:
		return c.section(n)
	}
}

func (c *Gutenberg) section(n *tree.Node) string {
	allColumns := len(n.Children) > 1
	for _, ch := range n.Children {
		if ch.Kind.Canonical() != tree.KindColumn {
			allColumns = false
			break
		}
	}
	inner := make([]string, 0, len(n.Children))
	for _, ch := range n.Children {
		if b := c.node(ch); b != "" {
			inner = append(inner, b)
		}
	}
	body := strings.Join(inner, "\n\n")

	if allColumns {
		return "<!-- wp:columns -->\n<div class=\"wp-block-columns\">" +
			body + "</div>\n<!-- /wp:columns -->"
	}
	return "<!-- wp:group -->\n<div class=\"wp-block-group\">" +
		body + "</div>\n<!-- /wp:group -->"
}

func (c *Gutenberg) columnBlock(n *tree.Node) string {
	inner := make([]string, 0, len(n.Children))
	for _, ch := range n.Children {
		if b := c.node(ch); b != "" {
			inner = append(inner, b)
		}
	}
	return "<!-- wp:column -->\n<div class=\"wp-block-column\">" +
		strings.Join(inner, "\n") + "</div>\n<!-- /wp:column -->"
}

func (c *Gutenberg) widget(n *tree.Node) string {
	s := n.Settings
	switch n.WidgetTag {
	case "heading":
		level := int(headerSize(s)[1] - '0')
		attrs := ""
		if level != 2 {
			attrs = fmt.Sprintf(` {"level":%d}`, level)
		}
		return fmt.Sprintf("<!-- wp:heading%s -->\n<h%d>%s</h%d>\n<!-- /wp:heading -->",
			attrs, level, html.EscapeString(s.String("title")), level)
	case "text-editor":
		return "<!-- wp:paragraph -->\n<p>" +
			c.policy.Sanitize(s.String("editor")) + "</p>\n<!-- /wp:paragraph -->"
	case "image":
		src, alt := imageSource(s)
		return fmt.Sprintf("<!-- wp:image -->\n<figure class=\"wp-block-image\">"+
			"<img src=%q alt=%q/></figure>\n<!-- /wp:image -->",
			src, alt)
	case "button":
		return fmt.Sprintf("<!-- wp:buttons -->\n<div class=\"wp-block-buttons\">"+
			"<!-- wp:button -->\n<div class=\"wp-block-button\">"+
			"<a class=\"wp-block-button__link\" href=%q>%s</a></div>\n"+
			"<!-- /wp:button --></div>\n<!-- /wp:buttons -->",
			linkURL(s), html.EscapeString(s.String("text")))
	case "divider":
		return "<!-- wp:separator -->\n<hr class=\"wp-block-separator\"/>\n<!-- /wp:separator -->"
	case "spacer":
		height := s.Int("space", 50)
		return fmt.Sprintf("<!-- wp:spacer {\"height\":\"%dpx\"} -->\n"+
			"<div style=\"height:%dpx\" class=\"wp-block-spacer\"></div>\n<!-- /wp:spacer -->",
			height, height)
	case "html":
		return "<!-- wp:html -->\n" + s.String("html") + "\n<!-- /wp:html -->"
	case "shortcode":
		return "<!-- wp:shortcode -->\n" + s.String("shortcode") + "\n<!-- /wp:shortcode -->"
	default:
		// No native block: carry the widget as an HTML block, tagged with
		// its origin so the conversion is inspectable.
		attrs, _ := json.Marshal(map[string]string{"data-widget": n.WidgetTag})
		return fmt.Sprintf("<!-- wp:html %s -->\n<div>%s</div>\n<!-- /wp:html -->",
			attrs, html.EscapeString(widgetText(n)))
	}
}
