package convert

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/pagebridge/tree"
)

// wpbElements maps widget tags to WPBakery element names. Unmapped tags
// fall back to vc_column_text.
var wpbElements = map[string]string{
	"heading":        "vc_custom_heading",
	"text-editor":    "vc_column_text",
	"testimonial":    "vc_column_text",
	"image":          "vc_single_image",
	"button":         "vc_btn",
	"divider":        "vc_separator",
	"spacer":         "vc_empty_space",
	"icon":           "vc_icon",
	"video":          "vc_video",
	"tabs":           "vc_tta_tabs",
	"accordion":      "vc_tta_accordion",
	"html":           "vc_raw_html",
	"call-to-action": "vc_cta",
}

// WPBakery renders [vc_row][vc_column][vc_*] markup.
type WPBakery struct{}

func NewWPBakery() *WPBakery { return &WPBakery{} }

func (c *WPBakery) Ext() string { return "txt" }

func (c *WPBakery) Convert(nodes []*tree.Node) (string, error) {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		switch n.Kind.Canonical() {
		case tree.KindSection:
			out = append(out, c.row(n))
		default:
			out = append(out, c.wrapInRow(c.element(n)))
		}
	}
	return strings.Join(out, "\n\n"), nil
}

func (c *WPBakery) row(n *tree.Node) string {
	attrs := map[string]string{}
	if bg := n.Settings.String("background_color"); bg != "" && !strings.HasPrefix(bg, "globals") {
		attrs["css"] = fmt.Sprintf(".vc_custom_{background-color:%s!important;}", bg)
	}
	cols := make([]string, 0, len(n.Children))
	for _, ch := range n.Children {
		if ch.Kind.Canonical() == tree.KindColumn {
			cols = append(cols, c.column(ch))
		}
	}
	if len(cols) == 0 {
		cols = []string{"[vc_column][/vc_column]"}
	}
	return fmt.Sprintf("[vc_row%s]\n%s\n[/vc_row]",
		shortcodeAttrs(attrs), strings.Join(cols, "\n"))
}

func (c *WPBakery) column(n *tree.Node) string {
	attrs := map[string]string{}
	if w := wpbakeryWidth(n.Settings.Int("_column_size", 100)); w != "1/1" {
		attrs["width"] = w
	}
	els := make([]string, 0, len(n.Children))
	for _, ch := range n.Children {
		els = append(els, c.element(ch))
	}
	return fmt.Sprintf("[vc_column%s]\n%s\n[/vc_column]",
		shortcodeAttrs(attrs), strings.Join(els, "\n"))
}

func (c *WPBakery) element(n *tree.Node) string {
	s := n.Settings
	switch wpbElements[n.WidgetTag] {
	case "vc_custom_heading":
		font := "tag:" + headerSize(s)
		if a := s.String("align"); a != "" {
			font += "|text_align:" + a
		}
		return fmt.Sprintf("[vc_custom_heading%s]", shortcodeAttrs(map[string]string{
			"text": s.String("title"), "font_container": font,
		}))
	case "vc_single_image":
		attrs := map[string]string{}
		if v, ok := s.Get("image"); ok {
			if img, ok := v.(*tree.Settings); ok {
				if id := img.String("id"); id != "" {
					attrs["image"] = id
				} else if url := img.String("url"); url != "" {
					attrs["source"] = "external_link"
					attrs["external_img_src"] = url
				}
			}
		}
		return fmt.Sprintf("[vc_single_image%s]", shortcodeAttrs(attrs))
	case "vc_btn":
		return fmt.Sprintf("[vc_btn%s]", shortcodeAttrs(map[string]string{
			"title": s.String("text"),
			"link":  "url:" + linkURL(s),
		}))
	case "vc_separator":
		return "[vc_separator]"
	case "vc_empty_space":
		return fmt.Sprintf("[vc_empty_space height=\"%dpx\"]", s.Int("space", 32))
	case "vc_icon":
		return "[vc_icon]"
	case "vc_video":
		url := s.String("youtube_url")
		if url == "" {
			url = videoSource(s)
		}
		return fmt.Sprintf("[vc_video%s]", shortcodeAttrs(map[string]string{"link": url}))
	case "vc_tta_tabs":
		return c.tta("vc_tta_tabs", s, false)
	case "vc_tta_accordion":
		return c.tta("vc_tta_accordion", s, true)
	case "vc_raw_html":
		return "[vc_raw_html]" + s.String("html") + "[/vc_raw_html]"
	case "vc_cta":
		return fmt.Sprintf("[vc_cta%s]%s[/vc_cta]", shortcodeAttrs(map[string]string{
			"h2":         s.String("title"),
			"txt_align":  "center",
			"add_button": "bottom",
			"btn_title":  s.String("button"),
			"btn_link":   "url:" + linkURL(s),
		}), s.String("description"))
	default:
		text := s.String("editor")
		if text == "" {
			text = widgetText(n)
		}
		return "[vc_column_text]" + text + "[/vc_column_text]"
	}
}

func (c *WPBakery) tta(outer string, s *tree.Settings, markActive bool) string {
	items := make([]string, 0)
	for i, tab := range tabEntries(s) {
		attrs := map[string]string{"title": tab.title}
		if markActive && i == 0 {
			attrs["active"] = "true"
		}
		items = append(items, fmt.Sprintf("[vc_tta_section%s]\n[vc_column_text]%s[/vc_column_text]\n[/vc_tta_section]",
			shortcodeAttrs(attrs), tab.content))
	}
	return fmt.Sprintf("[%s]\n%s\n[/%s]", outer, strings.Join(items, "\n"), outer)
}

func (c *WPBakery) wrapInRow(el string) string {
	return "[vc_row]\n[vc_column]\n" + el + "\n[/vc_column]\n[/vc_row]"
}

func wpbakeryWidth(size int) string {
	switch {
	case size >= 100:
		return "1/1"
	case size >= 75:
		return "3/4"
	case size >= 66:
		return "2/3"
	case size >= 50:
		return "1/2"
	case size >= 33:
		return "1/3"
	case size >= 25:
		return "1/4"
	default:
		return "1/1"
	}
}
