// CLAUDE:SUMMARY Flattens a page tree into an ordered list of addressable content items.
// Package extract flattens a page tree into the human-readable content it
// carries: every settings value whose key matches the content keyword rule
// and whose value is a non-blank string, in document order, with a path
// that addresses it back in the tree.
package extract

import (
	"strings"

	"github.com/hazyhaar/pagebridge/tree"
	"github.com/hazyhaar/pagebridge/zone"
)

// Item is one piece of extractable content.
type Item struct {
	Path      string `json:"path"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	WidgetTag string `json:"widget_type,omitempty"`
	Kind      Kind   `json:"content_type"`
}

// Content extracts all content items from a document.
func Content(doc *tree.Document) []Item {
	return ContentFromNodes(doc.Elements)
}

// ContentFromNodes extracts content items from a node list in depth-first
// pre-order. Extraction never fails; a tree with no content yields an
// empty list.
func ContentFromNodes(nodes []*tree.Node) []Item {
	items := []Item{}
	for i, n := range nodes {
		walk(n, tree.ChildPath("", i), &items)
	}
	return items
}

func walk(n *tree.Node, path string, items *[]Item) {
	if n == nil {
		return
	}
	n.Settings.Range(func(key string, value any) bool {
		if !zone.IsContentKey(key) {
			return true
		}
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return true
		}
		*items = append(*items, Item{
			Path:      tree.SettingsPath(path) + "." + key,
			Key:       key,
			Value:     s,
			WidgetTag: n.WidgetTag,
			Kind:      KindOf(n.WidgetTag, key),
		})
		return true
	})
	for i, c := range n.Children {
		walk(c, tree.ChildPath(path, i), items)
	}
}
