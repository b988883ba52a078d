package convert

import (
	"strings"

	"golang.org/x/net/html"
)

// flattenHTML reduces an HTML fragment to its visible text. Shortcode
// dialects put content into attribute values or plain bodies where markup
// would leak through as literal angle brackets.
func flattenHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	var b strings.Builder
	collectText(doc, &b)
	return strings.TrimSpace(strings.Join(strings.Fields(b.String()), " "))
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
