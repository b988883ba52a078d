// CLAUDE:SUMMARY Renders a page tree as Bootstrap-flavoured semantic HTML.
package convert

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hazyhaar/pagebridge/tree"
)

// HTML renders Bootstrap 5 markup. Rich-text settings arrive as author-
// supplied HTML and are sanitized with a UGC policy before they are
// embedded; everything else is escaped.
type HTML struct {
	policy *bluemonday.Policy
}

// NewHTML creates the HTML converter.
func NewHTML() *HTML {
	return &HTML{policy: bluemonday.UGCPolicy()}
}

func (c *HTML) Ext() string { return "html" }

// Convert renders the node list as an HTML fragment.
func (c *HTML) Convert(nodes []*tree.Node) (string, error) {
	var b strings.Builder
	for _, n := range nodes {
		c.node(&b, n)
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

func (c *HTML) node(b *strings.Builder, n *tree.Node) {
	switch n.Kind.Canonical() {
	case tree.KindSection:
		c.section(b, n)
	case tree.KindColumn:
		c.column(b, n)
	case tree.KindWidget:
		c.widget(b, n)
	default:
		// Generic containers render as sections; container-style layouts
		// carry the same children shape.
		c.section(b, n)
	}
}

func (c *HTML) section(b *strings.Builder, n *tree.Node) {
	container := "container"
	if n.Settings.String("layout") == "full_width" {
		container = "container-fluid"
	}
	fmt.Fprintf(b, "<section class=\"py-5\">\n<div class=\"%s\">\n", container)
	columns := true
	for _, ch := range n.Children {
		if ch.Kind.Canonical() != tree.KindColumn {
			columns = false
			break
		}
	}
	if columns && len(n.Children) > 0 {
		b.WriteString("<div class=\"row\">\n")
		for _, ch := range n.Children {
			c.node(b, ch)
		}
		b.WriteString("</div>\n")
	} else {
		for _, ch := range n.Children {
			c.node(b, ch)
		}
	}
	b.WriteString("</div>\n</section>\n")
}

func (c *HTML) column(b *strings.Builder, n *tree.Node) {
	class := "col"
	if size := n.Settings.Int("_column_size", 0); size > 0 {
		// Elementor sizes are percentages; snap onto the 12-col grid.
		if cols := size * 12 / 100; cols >= 1 && cols <= 12 {
			class = fmt.Sprintf("col-md-%d", cols)
		}
	}
	fmt.Fprintf(b, "<div class=\"%s\">\n", class)
	for _, ch := range n.Children {
		c.node(b, ch)
	}
	b.WriteString("</div>\n")
}

func (c *HTML) widget(b *strings.Builder, n *tree.Node) {
	s := n.Settings
	switch n.WidgetTag {
	case "heading":
		tag := headerSize(s)
		fmt.Fprintf(b, "<%s>%s</%s>\n", tag, html.EscapeString(s.String("title")), tag)
	case "text-editor":
		fmt.Fprintf(b, "<div class=\"text-content\">%s</div>\n", c.policy.Sanitize(s.String("editor")))
	case "button":
		url := linkURL(s)
		fmt.Fprintf(b, "<a href=\"%s\" class=\"btn btn-primary\">%s</a>\n",
			html.EscapeString(url), html.EscapeString(s.String("text")))
	case "image":
		src, alt := imageSource(s)
		fmt.Fprintf(b, "<img src=\"%s\" alt=\"%s\" class=\"img-fluid\">\n",
			html.EscapeString(src), html.EscapeString(alt))
	case "video":
		url := s.String("youtube_url")
		if url == "" {
			url = videoSource(s)
		}
		fmt.Fprintf(b, "<div class=\"ratio ratio-16x9\"><iframe src=\"%s\" allowfullscreen></iframe></div>\n",
			html.EscapeString(url))
	case "divider":
		b.WriteString("<hr>\n")
	case "spacer":
		height := s.Int("space", 50)
		fmt.Fprintf(b, "<div style=\"height: %dpx\"></div>\n", height)
	case "alert":
		fmt.Fprintf(b, "<div class=\"alert alert-%s\" role=\"alert\">%s</div>\n",
			html.EscapeString(alertClass(s.String("alert_type"))),
			c.policy.Sanitize(s.String("alert_description")))
	case "html":
		// Author-supplied raw HTML still goes through the UGC policy.
		b.WriteString(c.policy.Sanitize(s.String("html")))
		b.WriteByte('\n')
	default:
		fmt.Fprintf(b, "<div data-widget=\"%s\">", html.EscapeString(n.WidgetTag))
		if text := widgetText(n); text != "" {
			b.WriteString(html.EscapeString(text))
		}
		b.WriteString("</div>\n")
	}
}

// headerSize normalizes a heading tag setting, defaulting to h2.
func headerSize(s *tree.Settings) string {
	switch tag := s.String("header_size"); tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return tag
	default:
		return "h2"
	}
}

func alertClass(t string) string {
	switch t {
	case "info", "success", "warning", "danger":
		return t
	default:
		return "info"
	}
}

// linkURL digs the URL out of a link setting, which is either a string or
// an object with a "url" member.
func linkURL(s *tree.Settings) string {
	v, ok := s.Get("link")
	if !ok {
		return "#"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case *tree.Settings:
		if u := t.String("url"); u != "" {
			return u
		}
	}
	return "#"
}

func imageSource(s *tree.Settings) (src, alt string) {
	v, ok := s.Get("image")
	if !ok {
		return "", s.String("alt")
	}
	switch t := v.(type) {
	case string:
		return t, s.String("alt")
	case *tree.Settings:
		a := t.String("alt")
		if a == "" {
			a = s.String("alt")
		}
		return t.String("url"), a
	}
	return "", ""
}

func videoSource(s *tree.Settings) string {
	v, ok := s.Get("video")
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case *tree.Settings:
		return t.String("url")
	}
	return ""
}

// widgetText finds the first content-bearing string for a widget, used by
// generic fallbacks across dialects.
func widgetText(n *tree.Node) string {
	for _, key := range []string{"title", "text", "editor", "content", "description"} {
		if v := n.Settings.String(key); strings.TrimSpace(v) != "" {
			return flattenHTML(v)
		}
	}
	return ""
}
