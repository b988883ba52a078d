package convert

import (
	"html"
	"sort"
	"strings"
)

// shortcodeAttrs renders attribute pairs for a WordPress shortcode tag.
// Keys are emitted in sorted order so output is stable; empty values are
// dropped.
func shortcodeAttrs(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k, v := range attrs {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attrs[k]))
		b.WriteString(`"`)
	}
	return b.String()
}
