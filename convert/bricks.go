package convert

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hazyhaar/pagebridge/tree"
)

// bricksNames maps widget tags to Bricks element names. Unmapped tags
// fall back to text-basic.
var bricksNames = map[string]string{
	"heading":     "heading",
	"text-editor": "text-basic",
	"image":       "image",
	"button":      "button",
	"divider":     "divider",
	"spacer":      "divider",
	"icon":        "icon",
	"icon-box":    "icon-box",
	"video":       "video",
	"gallery":     "image-gallery",
	"tabs":        "tabs",
	"accordion":   "accordion",
	"testimonial": "testimonials",
	"counter":     "counter",
	"progress":    "progress-bar",
	"form":        "form",
	"nav-menu":    "nav-menu",
	"html":        "code",
}

// bricksElement is one entry in the flat Bricks element list. Parent is
// the integer 0 at the root, otherwise the parent element's id.
type bricksElement struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Parent   any            `json:"parent"`
	Children []string       `json:"children"`
	Settings *tree.Settings `json:"settings"`
}

// Bricks flattens the tree into Bricks Builder's element list, with
// parent/children links instead of nesting.
type Bricks struct{}

func NewBricks() *Bricks { return &Bricks{} }

func (c *Bricks) Ext() string { return "json" }

func (c *Bricks) Convert(nodes []*tree.Node) (string, error) {
	elements := make([]*bricksElement, 0, len(nodes))
	for _, n := range nodes {
		elements = c.flatten(elements, n, 0)
	}
	out, err := json.MarshalIndent(elements, "", "  ")
	if err != nil {
		return "", fmt.Errorf("convert: encode bricks elements: %w", err)
	}
	return string(out), nil
}

func (c *Bricks) flatten(acc []*bricksElement, n *tree.Node, parent any) []*bricksElement {
	var el *bricksElement
	switch n.Kind.Canonical() {
	case tree.KindSection:
		el = &bricksElement{ID: bricksID(), Name: "section", Parent: parent,
			Children: []string{}, Settings: c.sectionSettings(n.Settings)}
	case tree.KindColumn:
		el = &bricksElement{ID: bricksID(), Name: "container", Parent: parent,
			Children: []string{}, Settings: c.containerSettings(n.Settings)}
	default:
		name := bricksNames[n.WidgetTag]
		if name == "" {
			name = "text-basic"
		}
		el = &bricksElement{ID: bricksID(), Name: name, Parent: parent,
			Children: []string{}, Settings: c.widgetSettings(n)}
	}
	acc = append(acc, el)
	for _, ch := range n.Children {
		before := len(acc)
		acc = c.flatten(acc, ch, el.ID)
		el.Children = append(el.Children, acc[before].ID)
	}
	return acc
}

func (c *Bricks) sectionSettings(s *tree.Settings) *tree.Settings {
	out := tree.NewSettings()
	out.Set("tag", "section")
	if bg := s.String("background_color"); bg != "" && !strings.HasPrefix(bg, "globals") {
		color := tree.NewSettings()
		hexv := tree.NewSettings()
		hexv.Set("hex", bg)
		color.Set("color", hexv)
		out.Set("_background", color)
	}
	return out
}

func (c *Bricks) containerSettings(s *tree.Settings) *tree.Settings {
	out := tree.NewSettings()
	out.Set("tag", "div")
	if size := s.Int("_column_size", 100); size < 100 {
		out.Set("_width", fmt.Sprintf("%d%%", size))
	}
	return out
}

func (c *Bricks) widgetSettings(n *tree.Node) *tree.Settings {
	s := n.Settings
	out := tree.NewSettings()
	switch n.WidgetTag {
	case "heading":
		out.Set("text", s.String("title"))
		out.Set("tag", headerSize(s))
	case "text-editor":
		out.Set("text", s.String("editor"))
	case "image":
		if v, ok := s.Get("image"); ok {
			if img, ok := v.(*tree.Settings); ok {
				imgOut := tree.NewSettings()
				imgOut.Set("url", img.String("url"))
				imgOut.Set("id", img.String("id"))
				out.Set("image", imgOut)
			}
		}
	case "button":
		out.Set("text", s.String("text"))
		link := tree.NewSettings()
		link.Set("url", linkURL(s))
		link.Set("type", "external")
		out.Set("link", link)
	case "video":
		out.Set("videoType", "youtube")
		out.Set("youtubeId", youtubeID(s.String("youtube_url")))
	case "counter":
		out.Set("countTo", s.String("ending_number"))
		out.Set("title", s.String("title"))
	case "tabs", "accordion":
		key := "tabs"
		if n.WidgetTag == "accordion" {
			key = "items"
		}
		items := make([]any, 0)
		for _, tab := range tabEntries(s) {
			item := tree.NewSettings()
			item.Set("title", tab.title)
			item.Set("content", tab.content)
			items = append(items, item)
		}
		out.Set(key, items)
	default:
		if text := widgetText(n); text != "" {
			out.Set("text", text)
		}
	}
	if a := s.String("align"); a != "" {
		out.Set("_textAlign", a)
	}
	return out
}

// bricksID returns a six hex character element id, the length Bricks
// assigns in its own editor.
func bricksID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:3])
}

func youtubeID(url string) string {
	if i := strings.Index(url, "v="); i >= 0 {
		id := url[i+2:]
		if j := strings.IndexByte(id, '&'); j >= 0 {
			id = id[:j]
		}
		return id
	}
	if strings.Contains(url, "youtu.be") {
		parts := strings.Split(url, "/")
		return parts[len(parts)-1]
	}
	return url
}
