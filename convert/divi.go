package convert

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/pagebridge/tree"
)

// diviModules maps widget tags to Divi Builder module names. Unmapped
// tags fall back to et_pb_text.
var diviModules = map[string]string{
	"heading":     "et_pb_text",
	"text-editor": "et_pb_text",
	"alert":       "et_pb_text",
	"image":       "et_pb_image",
	"button":      "et_pb_button",
	"divider":     "et_pb_divider",
	"spacer":      "et_pb_divider",
	"icon-box":    "et_pb_blurb",
	"image-box":   "et_pb_blurb",
	"counter":     "et_pb_number_counter",
	"testimonial": "et_pb_testimonial",
	"tabs":        "et_pb_tabs",
	"accordion":   "et_pb_accordion",
	"video":       "et_pb_video",
	"html":        "et_pb_code",
	"shortcode":   "et_pb_code",
	"call-to-action": "et_pb_cta",
}

// Divi renders [et_pb_section][et_pb_row][et_pb_column][et_pb_*] markup.
type Divi struct{}

func NewDivi() *Divi { return &Divi{} }

func (c *Divi) Ext() string { return "txt" }

func (c *Divi) Convert(nodes []*tree.Node) (string, error) {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		switch n.Kind.Canonical() {
		case tree.KindSection:
			out = append(out, c.section(n))
		case tree.KindColumn:
			out = append(out, "[et_pb_section]\n[et_pb_row]\n"+c.column(n)+"\n[/et_pb_row]\n[/et_pb_section]")
		default:
			out = append(out, c.wrapInSection(c.module(n)))
		}
	}
	return strings.Join(out, "\n\n"), nil
}

func (c *Divi) section(n *tree.Node) string {
	attrs := map[string]string{}
	if bg := n.Settings.String("background_color"); bg != "" && !strings.HasPrefix(bg, "globals") {
		attrs["background_color"] = bg
	}
	cols := make([]string, 0, len(n.Children))
	for _, ch := range n.Children {
		if ch.Kind.Canonical() == tree.KindColumn {
			cols = append(cols, c.column(ch))
		} else {
			cols = append(cols, `[et_pb_column type="4_4"]`+"\n"+c.module(ch)+"\n[/et_pb_column]")
		}
	}
	return fmt.Sprintf("[et_pb_section%s]\n[et_pb_row]\n%s\n[/et_pb_row]\n[/et_pb_section]",
		shortcodeAttrs(attrs), strings.Join(cols, "\n"))
}

func (c *Divi) column(n *tree.Node) string {
	colType := diviColumnType(n.Settings.Int("_column_size", 100))
	mods := make([]string, 0, len(n.Children))
	for _, ch := range n.Children {
		mods = append(mods, c.module(ch))
	}
	return fmt.Sprintf("[et_pb_column type=%q]\n%s\n[/et_pb_column]",
		colType, strings.Join(mods, "\n"))
}

func (c *Divi) module(n *tree.Node) string {
	s := n.Settings
	switch diviModules[n.WidgetTag] {
	case "et_pb_image":
		src, alt := imageSource(s)
		return fmt.Sprintf("[et_pb_image%s /]", shortcodeAttrs(map[string]string{
			"src": src, "alt": alt, "align": s.String("align"),
		}))
	case "et_pb_button":
		return fmt.Sprintf("[et_pb_button%s /]", shortcodeAttrs(map[string]string{
			"button_text": s.String("text"),
			"button_url":  linkURL(s),
		}))
	case "et_pb_divider":
		return "[et_pb_divider show_divider=\"on\" /]"
	case "et_pb_blurb":
		title := s.String("title_text")
		if title == "" {
			title = s.String("title")
		}
		return fmt.Sprintf("[et_pb_blurb%s]\n%s\n[/et_pb_blurb]",
			shortcodeAttrs(map[string]string{"title": title}),
			s.String("description_text"))
	case "et_pb_number_counter":
		return fmt.Sprintf("[et_pb_number_counter%s /]", shortcodeAttrs(map[string]string{
			"title":  s.String("title"),
			"number": s.String("ending_number"),
		}))
	case "et_pb_testimonial":
		return fmt.Sprintf("[et_pb_testimonial%s]\n%s\n[/et_pb_testimonial]",
			shortcodeAttrs(map[string]string{
				"author":    s.String("testimonial_name"),
				"job_title": s.String("testimonial_job"),
			}),
			s.String("testimonial_content"))
	case "et_pb_tabs":
		return c.tabbed(s, "et_pb_tabs", "et_pb_tab")
	case "et_pb_accordion":
		return c.accordion(s)
	case "et_pb_video":
		url := s.String("youtube_url")
		if url == "" {
			url = videoSource(s)
		}
		return fmt.Sprintf("[et_pb_video%s /]", shortcodeAttrs(map[string]string{"src": url}))
	case "et_pb_code":
		body := s.String("html")
		if body == "" {
			body = s.String("shortcode")
		}
		return "[et_pb_code]\n" + body + "\n[/et_pb_code]"
	case "et_pb_cta":
		return fmt.Sprintf("[et_pb_cta%s]\n%s\n[/et_pb_cta]",
			shortcodeAttrs(map[string]string{
				"title":       s.String("title"),
				"button_text": s.String("button"),
				"button_url":  linkURL(s),
			}),
			s.String("description"))
	default:
		return c.textModule(n)
	}
}

func (c *Divi) textModule(n *tree.Node) string {
	s := n.Settings
	text := s.String("editor")
	if text == "" {
		text = s.String("title")
	}
	if text == "" {
		text = widgetText(n)
	}
	if tag := s.String("header_size"); tag != "" && s.Has("title") {
		text = fmt.Sprintf("<%s>%s</%s>", tag, s.String("title"), tag)
	}
	attrs := map[string]string{}
	if a := s.String("align"); a != "" {
		attrs["text_orientation"] = a
	}
	return fmt.Sprintf("[et_pb_text%s]\n%s\n[/et_pb_text]", shortcodeAttrs(attrs), text)
}

func (c *Divi) tabbed(s *tree.Settings, outer, inner string) string {
	items := make([]string, 0)
	for _, tab := range tabEntries(s) {
		items = append(items, fmt.Sprintf("[%s%s]\n%s\n[/%s]",
			inner, shortcodeAttrs(map[string]string{"title": tab.title}), tab.content, inner))
	}
	return fmt.Sprintf("[%s]\n%s\n[/%s]", outer, strings.Join(items, "\n"), outer)
}

func (c *Divi) accordion(s *tree.Settings) string {
	items := make([]string, 0)
	for i, tab := range tabEntries(s) {
		open := "off"
		if i == 0 {
			open = "on"
		}
		items = append(items, fmt.Sprintf("[et_pb_accordion_item%s]\n%s\n[/et_pb_accordion_item]",
			shortcodeAttrs(map[string]string{"title": tab.title, "open": open}), tab.content))
	}
	return "[et_pb_accordion]\n" + strings.Join(items, "\n") + "\n[/et_pb_accordion]"
}

func (c *Divi) wrapInSection(module string) string {
	return "[et_pb_section]\n[et_pb_row]\n[et_pb_column type=\"4_4\"]\n" +
		module + "\n[/et_pb_column]\n[/et_pb_row]\n[/et_pb_section]"
}

func diviColumnType(size int) string {
	switch {
	case size >= 100:
		return "4_4"
	case size >= 75:
		return "3_4"
	case size >= 66:
		return "2_3"
	case size >= 50:
		return "1_2"
	case size >= 33:
		return "1_3"
	case size >= 25:
		return "1_4"
	default:
		return "4_4"
	}
}

type tabEntry struct {
	title   string
	content string
}

// tabEntries reads the repeater list under "tabs". Each member is an
// object with tab_title and tab_content.
func tabEntries(s *tree.Settings) []tabEntry {
	v, ok := s.Get("tabs")
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]tabEntry, 0, len(list))
	for _, m := range list {
		item, ok := m.(*tree.Settings)
		if !ok {
			continue
		}
		out = append(out, tabEntry{
			title:   item.String("tab_title"),
			content: item.String("tab_content"),
		})
	}
	return out
}
